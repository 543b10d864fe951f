package catalog

import (
	"log/slog"

	"github.com/starford/notion2hugo/internal/checksum"
	"github.com/starford/notion2hugo/internal/frontmatter"
	"github.com/starford/notion2hugo/internal/models"
	"github.com/starford/notion2hugo/internal/storage"
)

// Load decodes every Markdown file in store and records it. Files that fail
// to read or decode are logged and skipped; only a listing failure is
// returned. It returns the number of posts recorded.
func Load(db Catalog, store storage.Provider, logger *slog.Logger) (int, error) {
	files, err := store.List("")
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, f := range files {
		data, err := store.Read(f.Path)
		if err != nil {
			logger.Warn("catalog: read failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		if err := loadFile(db, f.Path, data); err != nil {
			logger.Warn("catalog: skipped file", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("catalog: loaded", slog.String("path", f.Path))
		loaded++
	}
	return loaded, nil
}

func loadFile(db Catalog, path string, data []byte) error {
	p, err := frontmatter.Decode(string(data))
	if err != nil {
		return err
	}
	return db.Upsert(models.PostMeta{
		Path:     path,
		Title:    p.Title,
		Date:     p.Date,
		Draft:    p.Draft,
		SourceID: p.SourceID,
		Checksum: checksum.Sum(data),
	})
}
