package qrcode

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackFileStem = "business"

// ExportFilename derives the download name for an owner's QR code from the display name,
// e.g. "Joe's Café" -> "joes-cafe-review-qr.png".
func ExportFilename(displayName string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), displayName)
	if err != nil {
		folded = displayName
	}
	folded = strings.NewReplacer("'", "", "’", "").Replace(strings.ToLower(folded))

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	stem := strings.TrimRight(b.String(), "-")
	if len(stem) > 64 {
		stem = strings.TrimRight(stem[:64], "-")
	}
	if stem == "" {
		stem = fallbackFileStem
	}
	return stem + "-review-qr.png"
}
