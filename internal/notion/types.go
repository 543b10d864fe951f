package notion

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/starford/notion2hugo/internal/block"
)

type childrenPage struct {
	Results    []apiBlock `json:"results"`
	NextCursor string     `json:"next_cursor"`
	HasMore    bool       `json:"has_more"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type fileRef struct {
	URL string `json:"url"`
}

type icon struct {
	Type  string   `json:"type"`
	Emoji string   `json:"emoji"`
	File  *fileRef `json:"file"`
}

// content is the type-specific payload found under the key named by the
// block type. Fields a type does not use stay empty.
type content struct {
	RichText []richText `json:"rich_text"`
	Title    string     `json:"title"`
	Language string     `json:"language"`
	Icon     *icon      `json:"icon"`
	File     *fileRef   `json:"file"`
	External *fileRef   `json:"external"`
}

type apiBlock struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`
	HasChildren    bool      `json:"has_children"`
	Content        content   `json:"-"`
}

func (b *apiBlock) UnmarshalJSON(data []byte) error {
	type plain apiBlock
	if err := json.Unmarshal(data, (*plain)(b)); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields[b.Type]; ok && len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &b.Content); err != nil {
			return err
		}
	}
	return nil
}

func (b apiBlock) text() string {
	if b.Content.Title != "" {
		return b.Content.Title
	}
	var sb strings.Builder
	for _, rt := range b.Content.RichText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}

func (b apiBlock) options() []block.Option {
	opts := []block.Option{
		block.WithID(b.ID),
		block.WithTimestamps(b.CreatedTime, b.LastEditedTime),
	}
	if b.Content.Language != "" {
		opts = append(opts, block.WithLanguage(b.Content.Language))
	}
	if ic := b.Content.Icon; ic != nil {
		switch {
		case ic.Emoji != "":
			opts = append(opts, block.WithIcon(ic.Emoji))
		case ic.File != nil:
			opts = append(opts, block.WithIcon(ic.File.URL))
		}
	}
	switch {
	case b.Content.File != nil:
		opts = append(opts, block.WithURL(b.Content.File.URL))
	case b.Content.External != nil:
		opts = append(opts, block.WithURL(b.Content.External.URL))
	}
	return opts
}

func (b apiBlock) toBlock(children []block.Block) block.Block {
	opts := b.options()
	if len(children) > 0 {
		opts = append(opts, block.WithChildren(children...))
	}
	return block.New(block.KindOf(b.Type), b.text(), opts...)
}
