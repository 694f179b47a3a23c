package model

// ScreeningRecord is one concrete occurrence of a film on a given date,
// produced by the screening extractor and converted into a ScheduleItem
// right away.  It is never persisted.
type ScreeningRecord struct {
	FilmID          string
	Title           string
	Director        string
	Genres          []string
	Synopsis        string
	DurationMinutes int
	Slot            int
	Date            string
	StartTime       string
	EndTime         string
	Venue           VenueCode
	// Synthesized marks a record emitted for a film that carries no
	// screening dates at all.
	Synthesized bool

	// Image inputs copied from the film for cover/logo resolution.
	Gallery    []string
	CoverIndex *int
	LogoIndex  *int
	PosterURL  string
}
