// Package repository reads festival content from MySQL.  Activities live in
// a relational table; films are stored as JSON documents in one of two
// schema generations and are normalized into model.FilmRecord on read.
// The sentinel values below let higher layers tell failure kinds apart
// with errors.Is.
package repository

import "errors"

// ErrInvalidDocument is returned when a stored film document cannot be
// decoded.  List operations log and skip such documents instead of
// failing the whole read.
var ErrInvalidDocument = errors.New("invalid film document")

// ErrInvalidRecord is returned by write operations given a record that
// misses its primary key or date.
var ErrInvalidRecord = errors.New("invalid record")
