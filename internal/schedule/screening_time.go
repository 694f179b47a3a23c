package schedule

import (
	"strings"
	"time"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

const dateLayout = "2006-01-02"

// ResolveScreeningTime picks the start and end time of one slot.
//
// Start: the dedicated start field, then the time embedded in the screening
// date value, then DefaultStartTime.  End: the dedicated end field, then
// start plus the film duration (DefaultDurationMinutes when unknown).
func ResolveScreeningTime(slot model.Slot, filmDuration int, loc *time.Location) (start, end string) {
	if s, ok := NormalizeClock(slot.StartTime); ok {
		start = s
	} else if s, ok := screeningClock(slot.ScreeningDate, loc); ok {
		start = s
	} else {
		if slot.StartTime != "" {
			appLog.Debug("malformed slot start time", "slot", slot.Number, "start", slot.StartTime)
		}
		start = DefaultStartTime
	}

	if e, ok := NormalizeClock(slot.EndTime); ok {
		return start, e
	}
	if slot.EndTime != "" {
		appLog.Debug("malformed slot end time", "slot", slot.Number, "end", slot.EndTime)
	}
	if filmDuration <= 0 {
		filmDuration = DefaultDurationMinutes
	}
	return start, AddMinutes(start, filmDuration)
}

// screeningClock extracts "HH:MM" from a screening date value.  Text values
// are read literally after the 'T' (or space) separator so no timezone
// conversion shifts the wall-clock time.
func screeningClock(d model.ScreeningDate, loc *time.Location) (string, bool) {
	if d.At != nil {
		t := d.At.In(locOrLocal(loc))
		return formatClock(t.Hour()*60 + t.Minute()), true
	}
	s := strings.TrimSpace(d.Text)
	if len(s) <= len(dateLayout) {
		return "", false
	}
	sep := s[len(dateLayout)]
	if sep != 'T' && sep != ' ' {
		return "", false
	}
	rest := s[len(dateLayout)+1:]
	if len(rest) < 5 {
		return "", false
	}
	return NormalizeClock(rest[:5])
}

// screeningDay returns the calendar date ("YYYY-MM-DD") of a screening date
// value.
func screeningDay(d model.ScreeningDate, loc *time.Location) (string, bool) {
	if d.At != nil {
		return d.At.In(locOrLocal(loc)).Format(dateLayout), true
	}
	s := strings.TrimSpace(d.Text)
	if s == "" {
		return "", false
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout), true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(locOrLocal(loc)).Format(dateLayout), true
	}
	appLog.Debug("unparseable screening date", "value", s)
	return "", false
}

func locOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
