package model

// Collection names an upstream data source that can announce changes.
type Collection string

const (
	CollectionActivities Collection = "activities"
	CollectionFilms      Collection = "films"
)

// Collections lists every watched collection.
var Collections = []Collection{CollectionActivities, CollectionFilms}

// Valid reports whether c is a known collection.
func (c Collection) Valid() bool {
	return c == CollectionActivities || c == CollectionFilms
}
