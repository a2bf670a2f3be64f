package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Canonical normalizes a recognizer label for dedup keys
// NFC plus case folding so casing or diacritic jitter between frames
// cannot commit the same sign twice
func Canonical(label string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(label)))
}
