package block

import "strings"

// sourceKinds maps source type names to kinds. Both the legacy workspace
// names and the public API names are accepted.
var sourceKinds = map[string]Kind{
	"text":               Paragraph,
	"paragraph":          Paragraph,
	"header":             Heading1,
	"heading_1":          Heading1,
	"sub_header":         Heading2,
	"heading_2":          Heading2,
	"sub_sub_header":     Heading3,
	"heading_3":          Heading3,
	"quote":              Quote,
	"callout":            Callout,
	"numbered_list":      NumberedListItem,
	"numbered_list_item": NumberedListItem,
	"bulleted_list":      BulletedListItem,
	"bulleted_list_item": BulletedListItem,
	"code":               Code,
	"image":              Image,
	"page":               Container,
	"child_page":         Container,
}

// KindOf classifies a source block type. Unrecognised types classify as
// Paragraph so they still render.
func KindOf(sourceType string) Kind {
	if k, ok := sourceKinds[strings.ToLower(strings.TrimSpace(sourceType))]; ok {
		return k
	}
	return Paragraph
}
