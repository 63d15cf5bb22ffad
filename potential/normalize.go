package potential

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// dash variants seen in OCR output and copy-pasted option text
var dashReplacer = strings.NewReplacer(
	"−", "-", // minus sign
	"–", "-", // en dash
	"—", "-", // em dash
	"‐", "-",
)

// Normalize folds option text into the canonical form every pattern expects:
// composed Hangul, half-width ASCII punctuation and single spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = width.Fold.String(text)
	text = norm.NFC.String(text)
	text = dashReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
