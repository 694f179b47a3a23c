package schedule

import (
	"sort"
	"strconv"

	"github.com/iliyamo/festival-schedule/internal/model"
)

// Builder merges activities and film screenings into one daily schedule.
// A Builder holds no mutable state and may be shared.
type Builder struct {
	extractor *Extractor
}

// NewBuilder returns a Builder extracting screenings with x.
func NewBuilder(x *Extractor) *Builder {
	if x == nil {
		x = NewExtractor(ExtractOptions{SynthesizeUndated: true})
	}
	return &Builder{extractor: x}
}

// Build returns the schedule for date.  Activities are expected to be
// filtered to date already.  The result is sorted by start time, venue and
// title, and contains no two items with the same ID.  The output order does
// not depend on the order of the inputs.
func (b *Builder) Build(activities []model.Activity, films []model.FilmRecord, date string) []model.ScheduleItem {
	items := make([]model.ScheduleItem, 0, len(activities)+len(films))
	for _, a := range activities {
		items = append(items, AdaptActivity(a, date))
	}
	for _, f := range films {
		for _, rec := range b.extractor.Extract(f, date) {
			items = append(items, ScreeningItem(rec))
		}
	}

	SortItems(items)
	return dedupe(items)
}

// ScreeningItem converts a screening record into a schedule item.
func ScreeningItem(rec model.ScreeningRecord) model.ScheduleItem {
	return model.ScheduleItem{
		ID:              "film:" + rec.FilmID + ":" + strconv.Itoa(rec.Slot),
		SourceID:        rec.FilmID,
		Title:           rec.Title,
		Type:            model.ItemFilm,
		Category:        model.CategoryScreening,
		Date:            rec.Date,
		StartTime:       rec.StartTime,
		EndTime:         rec.EndTime,
		Venue:           rec.Venue,
		DurationMinutes: DurationMinutes(rec.StartTime, rec.EndTime),
		Description:     rec.Synopsis,
		ImageURL:        ResolveCover(rec.Gallery, rec.CoverIndex, rec.PosterURL),
		LogoURL:         ResolveLogo(rec.Gallery, rec.LogoIndex),
		Slot:            rec.Slot,
		Director:        rec.Director,
		Genres:          rec.Genres,
	}
}

// SortItems orders items by start time, venue and title.  StartTime is
// fixed-width "HH:MM", so string order is time order.  ID and type break
// any remaining tie so the order is total.
func SortItems(items []model.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessItem(items[i], items[j])
	})
}

func lessItem(a, b model.ScheduleItem) bool {
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	if a.Venue != b.Venue {
		return a.Venue < b.Venue
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Type < b.Type
}

// dedupe keeps the first item of every ID in sorted order.
func dedupe(items []model.ScheduleItem) []model.ScheduleItem {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
