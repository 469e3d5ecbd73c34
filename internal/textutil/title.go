package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromPath derives a human-readable project title from a directory or
// file path: separators become spaces, everything else non-alphanumeric is
// dropped, and the result is title-cased.
func TitleFromPath(path string) string {
	if path == "" {
		return "Untitled Project"
	}
	base := filepath.Base(filepath.Clean(path))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Project"
	}
	return cases.Title(language.Und).String(title)
}
