package schedule

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/festival-schedule/internal/model"
)

func datedFilm(id, title, start, venue string) model.FilmRecord {
	return model.FilmRecord{
		ID:    id,
		Title: title,
		Slots: []model.Slot{{
			Number:        1,
			ScreeningDate: model.ScreeningDate{Text: "2025-09-26"},
			StartTime:     start,
			Venue:         venue,
		}},
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(newTestExtractor(true))
}

func TestBuildOrdersByStartVenueTitle(t *testing.T) {
	activities := []model.Activity{
		{ID: "a1", Name: "Lab", Tags: []string{"workshop"}, StartTime: "10:00", EndTime: "11:00", EventDate: "2025-09-26", Venue: "stage-zone"},
	}
	films := []model.FilmRecord{
		datedFilm("f2", "Beta", "10:00", "major-imax"),
		datedFilm("f1", "Alpha", "09:00", "market"),
		datedFilm("f3", "Gamma", "10:00", "expo-zone"),
	}

	items := newTestBuilder().Build(activities, films, "2025-09-26")
	require.Len(t, items, 4)

	got := make([]string, 0, len(items))
	for _, it := range items {
		got = append(got, it.StartTime+"/"+string(it.Venue))
	}
	assert.Equal(t, []string{
		"09:00/market",
		"10:00/expo-zone",
		"10:00/major-imax",
		"10:00/stage-zone",
	}, got)
	assert.Equal(t, model.ItemActivity, items[3].Type)
	assert.Equal(t, model.CategoryWorkshop, items[3].Category)
}

func TestBuildTitleBreaksTies(t *testing.T) {
	films := []model.FilmRecord{
		datedFilm("f2", "Zulu", "10:00", "market"),
		datedFilm("f1", "Alpha", "10:00", "market"),
	}
	items := newTestBuilder().Build(nil, films, "2025-09-26")
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "Zulu", items[1].Title)
}

func TestBuildIsIndependentOfInputOrder(t *testing.T) {
	activities := []model.Activity{
		{ID: "a1", Name: "Same", StartTime: "10:00", EndTime: "11:00", Venue: "market"},
		{ID: "a2", Name: "Same", StartTime: "10:00", EndTime: "11:00", Venue: "market"},
		{ID: "a3", Name: "Talk", Tags: []string{"talk"}, StartTime: "08:00", EndTime: "09:00", Venue: "expo"},
	}
	films := []model.FilmRecord{
		datedFilm("f1", "Same", "10:00", "market"),
		datedFilm("f2", "Other", "12:00", "imax"),
		{ID: "f3", Title: "Undated"},
	}
	b := newTestBuilder()
	want := b.Build(activities, films, "2025-09-26")

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		acts := append([]model.Activity(nil), activities...)
		fs := append([]model.FilmRecord(nil), films...)
		r.Shuffle(len(acts), func(i, j int) { acts[i], acts[j] = acts[j], acts[i] })
		r.Shuffle(len(fs), func(i, j int) { fs[i], fs[j] = fs[j], fs[i] })
		assert.Equal(t, want, b.Build(acts, fs, "2025-09-26"))
	}
}

func TestBuildDeduplicatesByID(t *testing.T) {
	film := datedFilm("f1", "Twice", "10:00", "market")
	activities := []model.Activity{
		{ID: "a1", Name: "Dup", StartTime: "11:00", EndTime: "12:00"},
		{ID: "a1", Name: "Dup", StartTime: "11:00", EndTime: "12:00"},
	}
	items := newTestBuilder().Build(activities, []model.FilmRecord{film, film}, "2025-09-26")
	require.Len(t, items, 2)

	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}

func TestBuildResolvesFilmImages(t *testing.T) {
	film := datedFilm("f1", "Pictured", "10:00", "market")
	film.Gallery = []string{"g0.jpg", "logo.png"}
	film.CoverIndex = intPtr(7)
	film.LogoIndex = intPtr(1)
	film.PosterURL = "poster.jpg"
	film.DurationMinutes = 100
	film.Director = "P. Kanya"

	items := newTestBuilder().Build(nil, []model.FilmRecord{film}, "2025-09-26")
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "film:f1:1", it.ID)
	assert.Equal(t, "poster.jpg", it.ImageURL)
	assert.Equal(t, "logo.png", it.LogoURL)
	assert.Equal(t, "11:40", it.EndTime)
	assert.Equal(t, 100, it.DurationMinutes)
	assert.Equal(t, model.CategoryScreening, it.Category)
	assert.Equal(t, "P. Kanya", it.Director)
}

func TestBuildEmpty(t *testing.T) {
	items := newTestBuilder().Build(nil, nil, "2025-09-26")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
