// Package block defines the typed, recursive model of source document content.
package block

import (
	"slices"
	"time"
)

// Kind identifies how a block is rendered.
type Kind string

// Block kinds.
const (
	Paragraph        Kind = "paragraph"
	Heading1         Kind = "heading_1"
	Heading2         Kind = "heading_2"
	Heading3         Kind = "heading_3"
	Quote            Kind = "quote"
	Callout          Kind = "callout"
	NumberedListItem Kind = "numbered_list_item"
	BulletedListItem Kind = "bulleted_list_item"
	Code             Kind = "code"
	Image            Kind = "image"
	Container        Kind = "container"
)

// Attributes holds kind-specific fields. Unused fields stay zero.
type Attributes struct {
	ID        string
	Language  string // Code
	Icon      string // Callout
	URL       string // Image
	CreatedAt time.Time
	EditedAt  time.Time
}

// Block is one node of a source document tree. A block cannot be changed
// after New returns it.
type Block struct {
	kind     Kind
	text     string
	attrs    Attributes
	children []Block
}

// Option configures a Block at construction time.
type Option func(*Block)

// WithChildren appends ordered child blocks.
func WithChildren(children ...Block) Option {
	return func(b *Block) {
		b.children = append(b.children, children...)
	}
}

// WithID sets the source identifier.
func WithID(id string) Option {
	return func(b *Block) {
		b.attrs.ID = id
	}
}

// WithLanguage sets the language of a code block.
func WithLanguage(lang string) Option {
	return func(b *Block) {
		b.attrs.Language = lang
	}
}

// WithIcon sets the icon of a callout block.
func WithIcon(icon string) Option {
	return func(b *Block) {
		b.attrs.Icon = icon
	}
}

// WithURL sets the asset location of an image block.
func WithURL(url string) Option {
	return func(b *Block) {
		b.attrs.URL = url
	}
}

// WithTimestamps sets the creation and last edit times.
func WithTimestamps(created, edited time.Time) Option {
	return func(b *Block) {
		b.attrs.CreatedAt = created
		b.attrs.EditedAt = edited
	}
}

// New constructs a block of the given kind.
func New(kind Kind, text string, opts ...Option) Block {
	b := Block{kind: kind, text: text}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Kind returns the block kind.
func (b Block) Kind() Kind { return b.kind }

// Text returns the raw block text. Embedded newlines are soft line breaks.
func (b Block) Text() string { return b.text }

// Attributes returns the kind-specific attributes.
func (b Block) Attributes() Attributes { return b.attrs }

// Children returns a copy of the ordered child blocks.
func (b Block) Children() []Block { return slices.Clone(b.children) }

// HasChildren reports whether the block has any children.
func (b Block) HasChildren() bool { return len(b.children) > 0 }
