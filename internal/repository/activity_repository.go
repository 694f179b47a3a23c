package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"encoding/json"
	"fmt"

	appLog "github.com/iliyamo/festival-schedule/internal/log"
	"github.com/iliyamo/festival-schedule/internal/model"
)

// ActivityRepo manages persistence for festival activities.
//
// Expected table:
//
//	CREATE TABLE activities (
//	  id          VARCHAR(64) PRIMARY KEY,
//	  name        VARCHAR(255) NOT NULL,
//	  description TEXT NOT NULL,
//	  tags        JSON NULL,
//	  start_time  VARCHAR(8) NOT NULL DEFAULT '',
//	  end_time    VARCHAR(8) NOT NULL DEFAULT '',
//	  event_date  DATE NOT NULL,
//	  venue       VARCHAR(128) NOT NULL DEFAULT '',
//	  capacity    INT NOT NULL DEFAULT 0,
//	  registered  INT NOT NULL DEFAULT 0,
//	  speakers    JSON NULL,
//	  organizers  JSON NULL,
//	  image_url   VARCHAR(1024) NOT NULL DEFAULT '',
//	  status      VARCHAR(32) NOT NULL DEFAULT 'draft',
//	  is_public   TINYINT(1) NOT NULL DEFAULT 0,
//	  KEY idx_activities_date (event_date, status, is_public)
//	);
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo constructs an ActivityRepo with the given DB handle.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// activityColumns lists the selected columns in scan order.  event_date is
// formatted in SQL so that it scans as "YYYY-MM-DD" regardless of the
// driver's parseTime setting.
const activityColumns = `id, name, description, tags, start_time, end_time,
	DATE_FORMAT(event_date, '%Y-%m-%d'), venue, capacity, registered,
	speakers, organizers, image_url, status, is_public`

// ListPublishedByDate returns the published, public activities of date
// ("YYYY-MM-DD").  Ordering is left to the schedule builder.
func (r *ActivityRepo) ListPublishedByDate(ctx context.Context, date string) ([]model.Activity, error) {
	q := `SELECT ` + activityColumns + `
		FROM activities
		WHERE event_date = ? AND status = 'published' AND is_public = 1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(rows *sql.Rows) (model.Activity, error) {
	var (
		a                          model.Activity
		tags, speakers, organizers []byte
	)
	err := rows.Scan(
		&a.ID, &a.Name, &a.Description, &tags, &a.StartTime, &a.EndTime,
		&a.EventDate, &a.Venue, &a.Capacity, &a.Registered,
		&speakers, &organizers, &a.ImageURL, &a.Status, &a.IsPublic,
	)
	if err != nil {
		return a, err
	}
	a.Tags = decodeList(a.ID, "tags", tags)
	a.Speakers = decodeList(a.ID, "speakers", speakers)
	a.Organizers = decodeList(a.ID, "organizers", organizers)
	return a, nil
}

// decodeList reads a JSON string array column.  NULL and malformed values
// yield nil; the latter is logged.
func decodeList(id, column string, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		appLog.Warn("ignoring malformed list column", "activity", id, "column", column, "err", err)
		return nil
	}
	return cleanList(list)
}

// Upsert inserts a or replaces the stored row with the same id.
func (r *ActivityRepo) Upsert(ctx context.Context, a model.Activity) error {
	if a.ID == "" || a.EventDate == "" {
		return fmt.Errorf("%w: activity needs id and event date", ErrInvalidRecord)
	}
	tags, err := encodeList(a.Tags)
	if err != nil {
		return err
	}
	speakers, err := encodeList(a.Speakers)
	if err != nil {
		return err
	}
	organizers, err := encodeList(a.Organizers)
	if err != nil {
		return err
	}
	const q = `INSERT INTO activities
		(id, name, description, tags, start_time, end_time, event_date, venue,
		 capacity, registered, speakers, organizers, image_url, status, is_public)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 name = VALUES(name), description = VALUES(description), tags = VALUES(tags),
		 start_time = VALUES(start_time), end_time = VALUES(end_time),
		 event_date = VALUES(event_date), venue = VALUES(venue),
		 capacity = VALUES(capacity), registered = VALUES(registered),
		 speakers = VALUES(speakers), organizers = VALUES(organizers),
		 image_url = VALUES(image_url), status = VALUES(status), is_public = VALUES(is_public)`
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.Name, a.Description, tags, a.StartTime, a.EndTime, a.EventDate, a.Venue,
		a.Capacity, a.Registered, speakers, organizers, a.ImageURL, a.Status, a.IsPublic,
	)
	return err
}

// encodeList returns nil for an empty list so the column stores NULL.
func encodeList(list []string) (any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
