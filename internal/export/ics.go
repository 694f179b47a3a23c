// Package export renders a day's schedule as an iCalendar feed.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

const productID = "-//festival-schedule//schedule export//EN"

// Calendar serializes items of date ("YYYY-MM-DD") as a PUBLISH calendar.
// Clock times are read in loc.  An item whose end is not after its start
// runs past midnight and ends on the following day.  Items with unreadable
// times are skipped.
func Calendar(date string, items []model.ScheduleItem, loc *time.Location, stamp time.Time) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return "", fmt.Errorf("export date %q: %w", date, err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Festival schedule " + date)
	cal.SetXWRTimezone(loc.String())

	for _, it := range items {
		start, okStart := at(day, it.StartTime, loc)
		end, okEnd := at(day, it.EndTime, loc)
		if !okStart || !okEnd {
			appLog.Warn("skipping item with unreadable time", "id", it.ID, "start", it.StartTime, "end", it.EndTime)
			continue
		}
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		ev := cal.AddEvent(fmt.Sprintf("%s/%s@festival-schedule", date, it.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(it.Title)
		ev.SetLocation(string(it.Venue))
		if desc := description(it); desc != "" {
			ev.SetDescription(desc)
		}
		ev.AddProperty(ical.ComponentPropertyCategories, strings.ToUpper(string(it.Category)))
		if it.ImageURL != "" {
			ev.AddProperty(ical.ComponentPropertyAttach, it.ImageURL)
		}
	}
	return cal.Serialize(), nil
}

func at(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}

func description(it model.ScheduleItem) string {
	var lines []string
	if it.Director != "" {
		lines = append(lines, "Director: "+it.Director)
	}
	if len(it.Speakers) > 0 {
		lines = append(lines, "Speakers: "+strings.Join(it.Speakers, ", "))
	}
	if it.Description != "" {
		lines = append(lines, it.Description)
	}
	return strings.Join(lines, "\n")
}
