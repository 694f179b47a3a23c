// Package schedule turns raw activity and film records into the ordered,
// venue-assigned list of items shown for one festival day.
package schedule

import (
	"strings"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

// venueAliases maps a venue key (see venueKey) to its canonical code.
// Canonical codes are listed as keys of themselves so normalization is
// idempotent.
var venueAliases = map[string]model.VenueCode{
	"stage-zone": model.VenueStageZone,
	"stagezone":  model.VenueStageZone,
	"stage":      model.VenueStageZone,
	"main-stage": model.VenueStageZone,

	"expo-zone":       model.VenueExpoZone,
	"expozone":        model.VenueExpoZone,
	"expo":            model.VenueExpoZone,
	"exhibition-zone": model.VenueExpoZone,

	"major-theatre":  model.VenueMajorTheatre,
	"major-theater":  model.VenueMajorTheatre,
	"major":          model.VenueMajorTheatre,
	"major-cineplex": model.VenueMajorTheatre,
	"major-cinema":   model.VenueMajorTheatre,
	"theatre":        model.VenueMajorTheatre,
	"theater":        model.VenueMajorTheatre,

	"major-imax":         model.VenueMajorIMAX,
	"imax":               model.VenueMajorIMAX,
	"major-imax-theatre": model.VenueMajorIMAX,
	"major-imax-theater": model.VenueMajorIMAX,
	"imax-theatre":       model.VenueMajorIMAX,
	"imax-theater":       model.VenueMajorIMAX,

	"market":          model.VenueMarket,
	"festival-market": model.VenueMarket,
	"film-market":     model.VenueMarket,

	"anusarn":              model.VenueAnusarn,
	"anusan":               model.VenueAnusarn,
	"anusarn-market":       model.VenueAnusarn,
	"anusan-market":        model.VenueAnusarn,
	"anusarn-night-market": model.VenueAnusarn,
}

// NormalizeVenue maps any raw venue string to a canonical venue code.
// Unknown or empty input yields model.DefaultVenue.
func NormalizeVenue(raw string) model.VenueCode {
	key := venueKey(raw)
	if code, ok := venueAliases[key]; ok {
		return code
	}
	if key != "" {
		appLog.Debug("unknown venue, using default", "raw", raw, "default", model.DefaultVenue)
	}
	return model.DefaultVenue
}

// venueKey lower-cases s, trims it and collapses runs of spaces,
// underscores and hyphens into a single hyphen.
func venueKey(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '\t', '_', '-':
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}
