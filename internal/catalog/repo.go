package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/notion2hugo/internal/models"
)

// DraftFilter selects posts by draft flag.
type DraftFilter int

const (
	AllPosts DraftFilter = iota
	OnlyDrafts
	OnlyPublished
)

// Stats summarises the catalog.
type Stats struct {
	Total     int
	Drafts    int
	Published int
}

// Upsert inserts or replaces the entry for p.Path.
func (db *DB) Upsert(p models.PostMeta) error {
	_, err := db.conn.Exec(`
		INSERT INTO posts (path, title, date, draft, source_id, checksum)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title     = excluded.title,
			date      = excluded.date,
			draft     = excluded.draft,
			source_id = excluded.source_id,
			checksum  = excluded.checksum
	`, p.Path, p.Title, p.Date.UTC(), p.Draft, p.SourceID, p.Checksum)
	if err != nil {
		return fmt.Errorf("catalog: upsert %s: %w", p.Path, err)
	}
	return nil
}

// Checksum returns the stored checksum for path, or "" if it is unknown.
func (db *DB) Checksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM posts WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: checksum %s: %w", path, err)
	}
	return cs, nil
}

// PathForSource returns the file that carries sourceID, or "" if none does.
func (db *DB) PathForSource(sourceID string) (string, error) {
	if sourceID == "" {
		return "", nil
	}
	var p string
	err := db.conn.QueryRow(`SELECT path FROM posts WHERE source_id = ? ORDER BY path LIMIT 1`, sourceID).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: path for source %s: %w", sourceID, err)
	}
	return p, nil
}

// List returns posts newest first.
func (db *DB) List(filter DraftFilter) ([]models.PostMeta, error) {
	query := `SELECT path, title, date, draft, source_id, checksum FROM posts`
	switch filter {
	case OnlyDrafts:
		query += ` WHERE draft = 1`
	case OnlyPublished:
		query += ` WHERE draft = 0`
	}
	query += ` ORDER BY date DESC, path`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []models.PostMeta
	for rows.Next() {
		var p models.PostMeta
		if err := rows.Scan(&p.Path, &p.Title, &p.Date, &p.Draft, &p.SourceID, &p.Checksum); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Stats counts posts by draft flag.
func (db *DB) Stats() (Stats, error) {
	var s Stats
	err := db.conn.QueryRow(`SELECT count(*), coalesce(sum(draft), 0) FROM posts`).Scan(&s.Total, &s.Drafts)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog: stats: %w", err)
	}
	s.Published = s.Total - s.Drafts
	return s, nil
}
