package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle turns a distribution or directory name into a human-readable
// title. Separator runs collapse to single spaces and each word is
// title-cased, so "my_data-pipeline" becomes "My Data Pipeline".
func DisplayTitle(name string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range name {
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
		return "Unnamed Project"
	}
	return cases.Title(language.Und).String(title)
}
