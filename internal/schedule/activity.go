package schedule

import (
	"strings"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

// categoryRules is checked in order; the first rule with a keyword found in
// any tag decides the category.
var categoryRules = []struct {
	keywords []string
	category model.Category
}{
	{[]string{"workshop", "masterclass"}, model.CategoryWorkshop},
	{[]string{"networking"}, model.CategoryNetworking},
	{[]string{"ceremony", "awards"}, model.CategoryCeremony},
	{[]string{"panel", "talk"}, model.CategoryPanel},
}

// InferCategory derives an activity category from its tags.
func InferCategory(tags []string) model.Category {
	lowered := make([]string, 0, len(tags))
	for _, t := range tags {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(t)))
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			for _, t := range lowered {
				if strings.Contains(t, kw) {
					return rule.category
				}
			}
		}
	}
	return model.CategorySpecial
}

// AdaptActivity converts an activity into a schedule item.  date is used
// when the activity carries no event date of its own.
func AdaptActivity(a model.Activity, date string) model.ScheduleItem {
	duration := DurationMinutes(a.StartTime, a.EndTime)

	start, ok := NormalizeClock(a.StartTime)
	if !ok {
		appLog.Debug("malformed activity start time", "activity_id", a.ID, "start", a.StartTime)
		start = DefaultStartTime
	}
	end, ok := NormalizeClock(a.EndTime)
	if !ok {
		end = AddMinutes(start, duration)
	}

	day := a.EventDate
	if day == "" {
		day = date
	}

	return model.ScheduleItem{
		ID:              "activity:" + a.ID,
		SourceID:        a.ID,
		Title:           a.Name,
		Type:            model.ItemActivity,
		Category:        InferCategory(a.Tags),
		Date:            day,
		StartTime:       start,
		EndTime:         end,
		Venue:           NormalizeVenue(a.Venue),
		DurationMinutes: duration,
		Description:     a.Description,
		ImageURL:        a.ImageURL,
		Speakers:        a.Speakers,
		Organizers:      a.Organizers,
		Capacity:        a.Capacity,
	}
}
