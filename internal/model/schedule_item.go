package model

// ItemType distinguishes the two sources merged into a schedule.
type ItemType string

const (
	ItemFilm     ItemType = "film"
	ItemActivity ItemType = "activity"
)

// Category groups schedule items for filtering and colouring.
type Category string

const (
	CategoryWorkshop   Category = "workshop"
	CategoryNetworking Category = "networking"
	CategoryCeremony   Category = "ceremony"
	CategoryPanel      Category = "panel"
	CategorySpecial    Category = "special"
	CategoryScreening  Category = "screening"
)

// ScheduleItem is one entry of a computed daily schedule.  A schedule is
// always rebuilt as a whole; items are never patched in place.
type ScheduleItem struct {
	ID              string    `json:"id"`
	SourceID        string    `json:"source_id"`
	Title           string    `json:"title"`
	Type            ItemType  `json:"type"`
	Category        Category  `json:"category"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Venue           VenueCode `json:"venue"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`

	// film only
	LogoURL  string   `json:"logo_url,omitempty"`
	Slot     int      `json:"slot,omitempty"`
	Director string   `json:"director,omitempty"`
	Genres   []string `json:"genres,omitempty"`

	// activity only
	Speakers   []string `json:"speakers,omitempty"`
	Organizers []string `json:"organizers,omitempty"`
	Capacity   int      `json:"capacity,omitempty"`
}
