package catalog

import "github.com/starford/notion2hugo/internal/models"

// Catalog is the read/write surface the publisher and CLI depend on.
type Catalog interface {
	Upsert(p models.PostMeta) error
	Checksum(path string) (string, error)
	PathForSource(sourceID string) (string, error)
	List(filter DraftFilter) ([]models.PostMeta, error)
	Stats() (Stats, error)
	Close() error
}

var _ Catalog = (*DB)(nil)
