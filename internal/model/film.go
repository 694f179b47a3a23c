package model

import "time"

// FilmRecord is the single internal shape of a film document.  Films are
// stored upstream in two schema generations; the repository layer converts
// both into this struct once at ingestion so that no later stage has to
// know about legacy field names.
//
// Fields:
//
//	ID              – document identifier.
//	Title           – film title.
//	Director        – director name(s).
//	Genres          – genre labels.
//	Synopsis        – optional description.
//	DurationMinutes – running time shared by all slots; zero when unknown.
//	Gallery         – image URLs in gallery order.
//	CoverIndex      – index into Gallery of the cover image (nil if unset).
//	LogoIndex       – index into Gallery of the title logo (nil if unset).
//	PosterURL       – optional dedicated poster image.
//	Slots           – zero to two screening slots ordered by Number.
type FilmRecord struct {
	ID              string
	Title           string
	Director        string
	Genres          []string
	Synopsis        string
	DurationMinutes int
	Gallery         []string
	CoverIndex      *int
	LogoIndex       *int
	PosterURL       string
	Slots           []Slot
}

// Slot is one screening sub-record of a film.  Every field is optional.
//
// Fields:
//
//	Number        – 1 or 2.
//	ScreeningDate – the stored date or date-time of the screening.
//	StartTime     – dedicated start time field ("HH:MM").
//	EndTime       – dedicated end time field ("HH:MM").
//	Venue         – raw theatre/venue string.
type Slot struct {
	Number        int
	ScreeningDate ScreeningDate
	StartTime     string
	EndTime       string
	Venue         string
}

// ScreeningDate holds a screening date value as it was stored: either text
// (date only or date-time, e.g. "2025-09-26" or "2025-09-26T20:15:00") or a
// structured timestamp.  At most one of the two is set.
type ScreeningDate struct {
	Text string     // textual value, kept verbatim
	At   *time.Time // structured timestamp
}

// IsZero reports whether no screening date was stored.
func (d ScreeningDate) IsZero() bool {
	return d.Text == "" && d.At == nil
}
