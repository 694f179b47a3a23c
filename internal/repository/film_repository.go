package repository

import (
	"context"
	"database/sql"
	"fmt"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

// Publication values a film must carry to appear on the schedule.
const (
	FilmStatusPublished  = "published"
	FilmVisibilityPublic = "public"
)

// FilmRepo reads film documents.
//
// Expected table:
//
//	CREATE TABLE films (
//	  id                 VARCHAR(64) PRIMARY KEY,
//	  status             VARCHAR(32) NOT NULL DEFAULT 'draft',
//	  publication_status VARCHAR(32) NOT NULL DEFAULT 'private',
//	  doc                JSON NOT NULL,
//	  updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
//	);
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// ListPublished returns every published, public film.  Documents that fail
// to decode are logged and skipped.
func (r *FilmRepo) ListPublished(ctx context.Context) ([]model.FilmRecord, error) {
	const q = `SELECT id, doc FROM films WHERE status = ? AND publication_status = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, FilmStatusPublished, FilmVisibilityPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FilmRecord
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		rec, err := DecodeFilm(id, doc)
		if err != nil {
			appLog.Warn("skipping film document", "id", id, "err", err)
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Upsert stores a raw film document with its publication state.  doc must
// be a document DecodeFilm accepts.
func (r *FilmRepo) Upsert(ctx context.Context, id, status, publication string, doc []byte) error {
	if _, err := DecodeFilm(id, doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	const q = `INSERT INTO films (id, status, publication_status, doc) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), publication_status = VALUES(publication_status), doc = VALUES(doc)`
	_, err := r.db.ExecContext(ctx, q, id, status, publication, string(doc))
	return err
}
