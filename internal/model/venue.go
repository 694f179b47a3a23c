package model

// VenueCode is the canonical identifier of a festival venue.  Upstream
// records carry free-form venue strings; every schedule item is assigned
// exactly one VenueCode after normalization.
type VenueCode string

const (
	VenueStageZone    VenueCode = "stage-zone"
	VenueExpoZone     VenueCode = "expo-zone"
	VenueMajorTheatre VenueCode = "major-theatre"
	VenueMajorIMAX    VenueCode = "major-imax"
	VenueMarket       VenueCode = "market"
	VenueAnusarn      VenueCode = "anusarn"
)

// DefaultVenue is assigned when a raw venue string is empty or unknown.
const DefaultVenue = VenueStageZone

// Venues lists every canonical venue code in display order.
var Venues = []VenueCode{
	VenueStageZone,
	VenueExpoZone,
	VenueMajorTheatre,
	VenueMajorIMAX,
	VenueMarket,
	VenueAnusarn,
}

// Valid reports whether v is one of the canonical codes.
func (v VenueCode) Valid() bool {
	for _, c := range Venues {
		if c == v {
			return true
		}
	}
	return false
}
