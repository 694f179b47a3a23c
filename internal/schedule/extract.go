package schedule

import (
	"sort"
	"time"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

// ExtractOptions controls how screenings are pulled out of film records.
type ExtractOptions struct {
	// Location is the festival timezone used to read structured timestamps.
	// Nil means time.Local.
	Location *time.Location

	// SynthesizeUndated emits one default screening on every requested date
	// for films that carry no screening dates at all, so they stay visible.
	SynthesizeUndated bool
}

// Extractor produces screening records from film records.
type Extractor struct {
	opts ExtractOptions
}

// NewExtractor returns an Extractor using opts.
func NewExtractor(opts ExtractOptions) *Extractor {
	return &Extractor{opts: opts}
}

// Extract returns the screenings of film on date ("YYYY-MM-DD"), ordered by
// slot number.
func (x *Extractor) Extract(film model.FilmRecord, date string) []model.ScreeningRecord {
	slots := sortedSlots(film.Slots)

	var out []model.ScreeningRecord
	dated := false
	for _, slot := range slots {
		if slot.ScreeningDate.IsZero() {
			continue
		}
		dated = true
		day, ok := screeningDay(slot.ScreeningDate, x.opts.Location)
		if !ok || day != date {
			continue
		}
		out = append(out, x.record(film, slot, date))
	}
	if len(out) > 0 || dated || !x.opts.SynthesizeUndated {
		return out
	}

	// No slot has a date: synthesize one entry from whatever time fields
	// exist so the film does not vanish from the grid.
	slot := model.Slot{Number: 1}
	for _, s := range slots {
		if s.StartTime != "" || s.EndTime != "" || s.Venue != "" {
			slot = s
			break
		}
	}
	if slot.Number == 0 {
		slot.Number = 1
	}
	rec := x.record(film, slot, date)
	rec.Synthesized = true
	appLog.Debug("synthesized screening for undated film", "film_id", film.ID, "date", date)
	return []model.ScreeningRecord{rec}
}

func (x *Extractor) record(film model.FilmRecord, slot model.Slot, date string) model.ScreeningRecord {
	start, end := ResolveScreeningTime(slot, film.DurationMinutes, x.opts.Location)
	return model.ScreeningRecord{
		FilmID:          film.ID,
		Title:           film.Title,
		Director:        film.Director,
		Genres:          film.Genres,
		Synopsis:        film.Synopsis,
		DurationMinutes: film.DurationMinutes,
		Slot:            slot.Number,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		Venue:           NormalizeVenue(slot.Venue),
		Gallery:         film.Gallery,
		CoverIndex:      film.CoverIndex,
		LogoIndex:       film.LogoIndex,
		PosterURL:       film.PosterURL,
	}
}

func sortedSlots(slots []model.Slot) []model.Slot {
	out := make([]model.Slot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
