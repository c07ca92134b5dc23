package repository

import (
	"apodweb"
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	querySchema = `CREATE TABLE IF NOT EXISTS favorites (
				   session_id    TEXT NOT NULL,
				   "date"        TEXT NOT NULL,
				   title         TEXT NOT NULL DEFAULT '',
				   url           TEXT NOT NULL DEFAULT '',
				   hd_url        TEXT NOT NULL DEFAULT '',
				   thumbnail_url TEXT NOT NULL DEFAULT '',
				   media_type    TEXT NOT NULL DEFAULT '',
				   copyright     TEXT NOT NULL DEFAULT '',
				   explanation   TEXT NOT NULL DEFAULT '',
				   credit        TEXT NOT NULL DEFAULT '',
				   is_image      BOOLEAN NOT NULL DEFAULT FALSE,
				   nasa_url      TEXT NOT NULL DEFAULT '',
				   raw           TEXT NOT NULL DEFAULT '',
				   added_at      BIGINT NOT NULL,
				   PRIMARY KEY (session_id, "date"))`

	queryInsert = `INSERT INTO favorites
				   (session_id, "date", title, url, hd_url, thumbnail_url, media_type, copyright, explanation, credit, is_image, nasa_url, raw, added_at)
				   VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				   ON CONFLICT (session_id, "date") DO NOTHING`

	queryGetBySession = `SELECT "date", title, url, hd_url, thumbnail_url, media_type, copyright, explanation, credit, is_image, nasa_url, raw
					     FROM favorites WHERE session_id = ? ORDER BY added_at`

	queryPurge = `DELETE FROM favorites WHERE session_id IN
				  (SELECT session_id FROM favorites GROUP BY session_id HAVING MAX(added_at) < ?)`
)

type favoriteRow struct {
	Date        string `db:"date"`
	Title       string `db:"title"`
	URL         string `db:"url"`
	HDURL       string `db:"hd_url"`
	ThumbURL    string `db:"thumbnail_url"`
	MediaType   string `db:"media_type"`
	Copyright   string `db:"copyright"`
	Explanation string `db:"explanation"`
	Credit      string `db:"credit"`
	IsImage     bool   `db:"is_image"`
	NasaURL     string `db:"nasa_url"`
	Raw         string `db:"raw"`
}

func (r favoriteRow) picture() apodweb.Picture {
	p := apodweb.Picture{
		Date:        r.Date,
		Title:       r.Title,
		URL:         r.URL,
		HDURL:       r.HDURL,
		ThumbURL:    r.ThumbURL,
		MediaType:   r.MediaType,
		Copyright:   r.Copyright,
		Explanation: r.Explanation,
		Credit:      r.Credit,
		IsImage:     r.IsImage,
		NasaURL:     r.NasaURL,
	}

	if r.Raw != "" {
		p.RAW = json.RawMessage(r.Raw)
	}

	return p
}

// SQL keeps favorites in a postgres or sqlite table.
// Rows are ordered by added_at, a unix nanosecond stamp that never repeats
// within the process.
type SQL struct {
	db  *sqlx.DB
	now func() time.Time

	mu   sync.Mutex
	last int64
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

// Migrate creates the favorites table when it does not exist yet.
func (r *SQL) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, querySchema)
	return err
}

func (r *SQL) Add(ctx context.Context, session string, p *apodweb.Picture) (bool, error) {

	res, err := r.db.ExecContext(ctx, r.db.Rebind(queryInsert),
		session, p.Date, p.Title, p.URL, p.HDURL, p.ThumbURL, p.MediaType,
		p.Copyright, p.Explanation, p.Credit, p.IsImage, p.NasaURL, string(p.RAW), r.stamp())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (r *SQL) stamp() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.now().UnixNano()
	if n <= r.last {
		n = r.last + 1
	}
	r.last = n
	return n
}

func (r *SQL) List(ctx context.Context, session string) ([]apodweb.Picture, error) {

	var rows []favoriteRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(queryGetBySession), session); err != nil {
		if err == sql.ErrNoRows {
			return []apodweb.Picture{}, nil
		}
		return nil, err
	}

	list := make([]apodweb.Picture, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.picture())
	}

	return list, nil
}

// Purge forgets sessions that saved nothing since before. It is housekeeping
// run at startup, favorites are never removed one by one.
func (r *SQL) Purge(ctx context.Context, before time.Time) (int64, error) {

	res, err := r.db.ExecContext(ctx, r.db.Rebind(queryPurge), before.UnixNano())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
