// Package render converts block trees into Markdown text.
package render

import (
	"strings"

	"github.com/starford/notion2hugo/internal/block"
)

// ImagePlaceholder stands in for image blocks; assets are not embedded.
const ImagePlaceholder = "\n `<an-image-goes-here>` \n"

const (
	bulletPrefix   = "- "
	numberedPrefix = "1. "
	fence          = "```"
)

// Render converts blocks and their descendants to Markdown in document order.
func Render(blocks []block.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		writeTree(&sb, b)
	}
	return sb.String()
}

func writeTree(sb *strings.Builder, b block.Block) {
	sb.WriteString(RenderBlock(b))
	for _, c := range b.Children() {
		writeTree(sb, c)
	}
}

// RenderBlock renders a single block without its children. A Container
// renders as the empty string; its content lives in its children.
func RenderBlock(b block.Block) string {
	switch b.Kind() {
	case block.Heading1:
		return "\n# " + b.Text() + "\n"
	case block.Heading2:
		return "\n## " + b.Text() + "\n"
	case block.Heading3:
		return "\n### " + b.Text() + "\n"
	case block.Quote:
		return prefixLines(b.Text(), "> ")
	case block.Callout:
		return prefixLines(b.Text(), "> "+b.Attributes().Icon+" ")
	case block.Code:
		return "\n" + fence + strings.ToLower(b.Attributes().Language) + "\n" + b.Text() + "\n" + fence + "\n"
	case block.NumberedListItem:
		return listItem(b.Text(), numberedPrefix)
	case block.BulletedListItem:
		return listItem(b.Text(), bulletPrefix)
	case block.Image:
		return ImagePlaceholder
	case block.Container:
		return ""
	default:
		return b.Text() + "\n"
	}
}

func prefixLines(text, prefix string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// listItem puts marker before the first line and aligns continuation lines
// under the first line's content. The item ends with a blank line.
func listItem(text, marker string) string {
	indent := strings.Repeat(" ", len(marker))
	var sb strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			sb.WriteString(marker)
		} else {
			sb.WriteString(indent)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return sb.String()
}
