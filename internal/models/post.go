// Package models defines the domain types for notion2hugo.
package models

import "time"

// Post is the canonical representation of one blog post, independent of
// where it came from or where it is written.
type Post struct {
	Title   string
	Date    time.Time
	Draft   bool
	Body    string
	Aliases []string

	// Provenance of posts built from the source workspace.
	SourceID   string
	LastEdited *time.Time

	// Extra holds header keys this tool does not know about.
	Extra map[string]any
}

// PostMeta is a lightweight representation returned by list operations.
type PostMeta struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Draft    bool      `json:"draft"`
	SourceID string    `json:"source_id,omitempty"`
	Checksum string    `json:"checksum"`
}

// FileMeta describes one Markdown file in the destination directory.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
