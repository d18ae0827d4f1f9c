package docgen

import (
	"fmt"
	"strings"
	"unicode"
)

const defaultFilenameStem = "photo_table"

// Filename derives a deterministic document name from the build parameters,
// e.g. "lamp_collection_2x2_5_photos.docx".
func Filename(title string, count, rows, cols int) string {
	stem := slugify(title)
	if stem == "" {
		stem = defaultFilenameStem
	}
	return fmt.Sprintf("%s_%dx%d_%d_photos.docx", stem, rows, cols, count)
}

// slugify lowercases the title and keeps only letters, digits, and single
// underscores so the name is safe on any filesystem.
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
