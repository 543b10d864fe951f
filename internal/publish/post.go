package publish

import (
	"strings"

	"github.com/starford/notion2hugo/internal/block"
	"github.com/starford/notion2hugo/internal/models"
	"github.com/starford/notion2hugo/internal/render"
)

// BuildPost converts one page of the source tree into a post. It reports
// false for blocks that are not pages and for pages without a title.
func BuildPost(b block.Block) (models.Post, bool) {
	if b.Kind() != block.Container || strings.TrimSpace(b.Text()) == "" {
		return models.Post{}, false
	}
	attrs := b.Attributes()
	p := models.Post{
		Title:    b.Text(),
		Date:     attrs.CreatedAt,
		Body:     render.Render(b.Children()),
		SourceID: attrs.ID,
	}
	if !attrs.EditedAt.IsZero() {
		edited := attrs.EditedAt
		p.LastEdited = &edited
	}
	return p, true
}
