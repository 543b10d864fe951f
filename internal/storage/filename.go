package storage

import (
	"regexp"
	"strings"
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename turns a post title into a file name: spaces become
// underscores and every character outside [A-Za-z0-9._-] is dropped.
func SanitizeFilename(title string) string {
	name := strings.ReplaceAll(title, " ", "_")
	return unsafeFilenameRe.ReplaceAllString(name, "")
}

// PostPath returns the relative path of the file for a post title, or ""
// when nothing of the title survives sanitizing.
func PostPath(title string) string {
	name := SanitizeFilename(title)
	if strings.Trim(name, "._") == "" {
		return ""
	}
	return name + ".md"
}
