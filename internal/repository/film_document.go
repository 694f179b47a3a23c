package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/festival-schedule/internal/model"
)

// maxSlots is the number of screening slots a film may carry.
const maxSlots = 2

// DecodeFilm converts a stored film document into a FilmRecord.  Two
// document generations exist:
//
//   - legacy: flat fields suffixed with the slot number (screeningDate1,
//     startTime1, endTime1, theatre1, ...), galleryImages, coverImageIndex,
//     logoImageIndex, posterUrl, duration and a comma separated genre.
//   - current: a screenings array, gallery, galleryCoverIndex,
//     galleryLogoIndex, poster, durationMinutes and a genres array.
//
// A document carrying a "screenings" key is read as current, anything else
// as legacy.  ErrInvalidDocument is returned when doc is not a JSON object.
func DecodeFilm(id string, doc []byte) (model.FilmRecord, error) {
	if id == "" {
		return model.FilmRecord{}, fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(doc, &keys); err != nil || keys == nil {
		return model.FilmRecord{}, fmt.Errorf("%w: film %s is not a JSON object", ErrInvalidDocument, id)
	}

	if _, ok := keys["screenings"]; ok {
		var d currentFilmDoc
		if err := json.Unmarshal(doc, &d); err != nil {
			return model.FilmRecord{}, fmt.Errorf("%w: film %s: %v", ErrInvalidDocument, id, err)
		}
		return d.record(id), nil
	}
	var d legacyFilmDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return model.FilmRecord{}, fmt.Errorf("%w: film %s: %v", ErrInvalidDocument, id, err)
	}
	return d.record(id), nil
}

type currentFilmDoc struct {
	Title             string          `json:"title"`
	Director          string          `json:"director"`
	Synopsis          string          `json:"synopsis"`
	Genres            []string        `json:"genres"`
	DurationMinutes   flexInt         `json:"durationMinutes"`
	Gallery           []string        `json:"gallery"`
	GalleryCoverIndex *int            `json:"galleryCoverIndex"`
	GalleryLogoIndex  *int            `json:"galleryLogoIndex"`
	Poster            string          `json:"poster"`
	Screenings        []screeningSlot `json:"screenings"`
}

type screeningSlot struct {
	Date      screeningDate `json:"date"`
	StartTime string        `json:"startTime"`
	EndTime   string        `json:"endTime"`
	Venue     string        `json:"venue"`
}

func (d currentFilmDoc) record(id string) model.FilmRecord {
	rec := model.FilmRecord{
		ID:              id,
		Title:           strings.TrimSpace(d.Title),
		Director:        strings.TrimSpace(d.Director),
		Genres:          cleanList(d.Genres),
		Synopsis:        d.Synopsis,
		DurationMinutes: int(d.DurationMinutes),
		Gallery:         trimList(d.Gallery),
		CoverIndex:      d.GalleryCoverIndex,
		LogoIndex:       d.GalleryLogoIndex,
		PosterURL:       strings.TrimSpace(d.Poster),
	}
	for i, s := range d.Screenings {
		if i == maxSlots {
			break
		}
		rec.Slots = append(rec.Slots, model.Slot{
			Number:        i + 1,
			ScreeningDate: s.Date.value(),
			StartTime:     strings.TrimSpace(s.StartTime),
			EndTime:       strings.TrimSpace(s.EndTime),
			Venue:         strings.TrimSpace(s.Venue),
		})
	}
	return rec
}

type legacyFilmDoc struct {
	Title           string        `json:"title"`
	Director        string        `json:"director"`
	Synopsis        string        `json:"synopsis"`
	Genre           string        `json:"genre"`
	Duration        flexInt       `json:"duration"`
	GalleryImages   []string      `json:"galleryImages"`
	CoverImageIndex *int          `json:"coverImageIndex"`
	LogoImageIndex  *int          `json:"logoImageIndex"`
	PosterURL       string        `json:"posterUrl"`
	ScreeningDate1  screeningDate `json:"screeningDate1"`
	StartTime1      string        `json:"startTime1"`
	EndTime1        string        `json:"endTime1"`
	Theatre1        string        `json:"theatre1"`
	ScreeningDate2  screeningDate `json:"screeningDate2"`
	StartTime2      string        `json:"startTime2"`
	EndTime2        string        `json:"endTime2"`
	Theatre2        string        `json:"theatre2"`
}

func (d legacyFilmDoc) record(id string) model.FilmRecord {
	rec := model.FilmRecord{
		ID:              id,
		Title:           strings.TrimSpace(d.Title),
		Director:        strings.TrimSpace(d.Director),
		Genres:          cleanList(strings.Split(d.Genre, ",")),
		Synopsis:        d.Synopsis,
		DurationMinutes: int(d.Duration),
		Gallery:         trimList(d.GalleryImages),
		CoverIndex:      d.CoverImageIndex,
		LogoIndex:       d.LogoImageIndex,
		PosterURL:       strings.TrimSpace(d.PosterURL),
	}
	slots := []model.Slot{
		{Number: 1, ScreeningDate: d.ScreeningDate1.value(), StartTime: d.StartTime1, EndTime: d.EndTime1, Venue: d.Theatre1},
		{Number: 2, ScreeningDate: d.ScreeningDate2.value(), StartTime: d.StartTime2, EndTime: d.EndTime2, Venue: d.Theatre2},
	}
	for _, s := range slots {
		s.StartTime = strings.TrimSpace(s.StartTime)
		s.EndTime = strings.TrimSpace(s.EndTime)
		s.Venue = strings.TrimSpace(s.Venue)
		// Both slot field groups exist on every legacy document; an
		// entirely empty group means the slot was never filled in.
		if s.ScreeningDate.IsZero() && s.StartTime == "" && s.EndTime == "" && s.Venue == "" {
			continue
		}
		rec.Slots = append(rec.Slots, s)
	}
	return rec
}

// cleanList trims entries and drops empty ones.  It returns nil for an
// empty result.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// trimList returns a trimmed copy of in.  Positions are kept since
// cover and logo indexes address them.
func trimList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// flexInt accepts a JSON number or a string starting with digits
// ("105", "105 min").  Anything else decodes to zero.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if v, err := strconv.Atoi(s[:end]); err == nil {
			*n = flexInt(v)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil && f > 0 {
		*n = flexInt(f)
	}
	return nil
}

// screeningDate accepts the shapes a screening date has been stored in:
//
//	"2025-09-26" or "2025-09-26T20:15:00"   text, kept verbatim
//	{"seconds": 1758892500, "nanoseconds": 0} exported timestamp
//	{"$date": "2025-09-26T13:15:00Z"}         extended JSON, text or epoch millis
//
// Unknown shapes decode to an empty date so the slot is treated as undated.
type screeningDate struct {
	text string
	at   *time.Time
}

func (d screeningDate) value() model.ScreeningDate {
	return model.ScreeningDate{Text: d.text, At: d.at}
}

func (d *screeningDate) UnmarshalJSON(b []byte) error {
	*d = screeningDate{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			d.text = strings.TrimSpace(s)
		}
	case '{':
		var ts struct {
			Seconds     *int64          `json:"seconds"`
			Nanoseconds int64           `json:"nanoseconds"`
			Date        json.RawMessage `json:"$date"`
		}
		if err := json.Unmarshal(b, &ts); err != nil {
			return nil
		}
		switch {
		case ts.Seconds != nil:
			at := time.Unix(*ts.Seconds, ts.Nanoseconds).UTC()
			d.at = &at
		case len(ts.Date) > 0:
			d.at = extendedDate(ts.Date)
		}
	}
	return nil
}

func extendedDate(raw json.RawMessage) *time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		at, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		at = at.UTC()
		return &at
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		at := time.UnixMilli(ms).UTC()
		return &at
	}
	return nil
}
