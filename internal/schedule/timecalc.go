package schedule

import (
	"fmt"
	"strconv"
	"strings"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
)

const (
	// DefaultDurationMinutes is used when a duration cannot be computed.
	DefaultDurationMinutes = 120
	// DefaultStartTime is used when no start time can be resolved.
	DefaultStartTime = "19:00"

	minutesPerDay = 24 * 60
)

// NormalizeClock validates an "H:MM" or "HH:MM" time of day and returns it
// zero-padded as "HH:MM".
func NormalizeClock(s string) (string, bool) {
	m, ok := parseClock(s)
	if !ok {
		return "", false
	}
	return formatClock(m), true
}

// DurationMinutes returns the minutes from start to end.  An end earlier
// than start is read as crossing midnight.  Malformed input yields
// DefaultDurationMinutes.
func DurationMinutes(start, end string) int {
	s, okStart := parseClock(start)
	e, okEnd := parseClock(end)
	if !okStart || !okEnd {
		appLog.Debug("duration fallback", "start", start, "end", end, "minutes", DefaultDurationMinutes)
		return DefaultDurationMinutes
	}
	if e < s {
		e += minutesPerDay
	}
	return e - s
}

// AddMinutes returns start shifted by minutes, wrapped to a 24h clock.  A
// malformed start is read as DefaultStartTime.
func AddMinutes(start string, minutes int) string {
	s, ok := parseClock(start)
	if !ok {
		appLog.Debug("add minutes fallback", "start", start, "using", DefaultStartTime)
		s, _ = parseClock(DefaultStartTime)
	}
	t := (s + minutes) % minutesPerDay
	if t < 0 {
		t += minutesPerDay
	}
	return formatClock(t)
}

// parseClock returns minutes since midnight for "H:MM" or "HH:MM".
func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	hh, mm, found := strings.Cut(s, ":")
	if !found || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 || !isDigits(hh) {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || !isDigits(mm) {
		return 0, false
	}
	return h*60 + m, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
