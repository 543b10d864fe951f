// Package frontmatter converts posts to and from Markdown files with a YAML
// front matter header.
//
// A file looks like
//
//	---
//	title: Hello
//	date: 2024-03-01T10:00:00Z
//	draft: false
//	---<body>
//
// The body follows the closing delimiter directly, without a newline.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/notion2hugo/internal/apperr"
	"github.com/starford/notion2hugo/internal/models"
)

// Delimiter opens and closes the header.
const Delimiter = "---"

// header fixes the key order of the encoded front matter. Unknown keys are
// collected in Extra and emitted last, sorted.
type header struct {
	Title      string         `yaml:"title"`
	Date       time.Time      `yaml:"date"`
	Draft      bool           `yaml:"draft"`
	Aliases    []string       `yaml:"aliases,omitempty"`
	SourceID   string         `yaml:"source_id,omitempty"`
	LastEdited *time.Time     `yaml:"last_edited,omitempty"`
	Extra      map[string]any `yaml:",inline"`
}

var reservedKeys = map[string]struct{}{
	"title":       {},
	"date":        {},
	"draft":       {},
	"aliases":     {},
	"source_id":   {},
	"last_edited": {},
}

// Encode renders p as file content. It only fails when an Extra value
// cannot be represented as YAML.
func Encode(p models.Post) (string, error) {
	h := header{
		Title:      p.Title,
		Date:       p.Date,
		Draft:      p.Draft,
		SourceID:   p.SourceID,
		LastEdited: p.LastEdited,
	}
	if len(p.Aliases) > 0 {
		h.Aliases = p.Aliases
	}
	for k, v := range p.Extra {
		if _, ok := reservedKeys[k]; ok {
			continue
		}
		if h.Extra == nil {
			h.Extra = make(map[string]any, len(p.Extra))
		}
		h.Extra[k] = v
	}

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h); err != nil {
		return "", fmt.Errorf("frontmatter: encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("frontmatter: encode header: %w", err)
	}
	buf.WriteString(Delimiter)
	buf.WriteString(p.Body)
	return buf.String(), nil
}

// Decode parses file content into a post. It fails with
// apperr.ErrMalformedDocument when the header is missing, unterminated or
// not valid YAML.
func Decode(content string) (models.Post, error) {
	raw, body, err := Split(content)
	if err != nil {
		return models.Post{}, err
	}

	var h header
	if err := yaml.Unmarshal([]byte(raw), &h); err != nil {
		return models.Post{}, fmt.Errorf("%w: header: %v", apperr.ErrMalformedDocument, err)
	}

	p := models.Post{
		Title:      h.Title,
		Date:       h.Date,
		Draft:      h.Draft,
		Body:       body,
		SourceID:   h.SourceID,
		LastEdited: h.LastEdited,
	}
	if len(h.Aliases) > 0 {
		p.Aliases = h.Aliases
	}
	if len(h.Extra) > 0 {
		p.Extra = h.Extra
	}
	return p, nil
}

// Split separates the raw header from the body. The header closes at the
// first line starting with the delimiter; everything after that delimiter
// is body, including any further delimiters.
func Split(content string) (string, string, error) {
	if !strings.HasPrefix(content, Delimiter) {
		return "", "", fmt.Errorf("%w: missing opening %q", apperr.ErrMalformedDocument, Delimiter)
	}
	rest := content[len(Delimiter):]
	idx := strings.Index(rest, "\n"+Delimiter)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: missing closing %q", apperr.ErrMalformedDocument, Delimiter)
	}
	return rest[:idx], rest[idx+1+len(Delimiter):], nil
}
