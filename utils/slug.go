package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugBaseLength = 60

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugifyName derives a URL-safe slug base from a business name:
// diacritics folded, lowercased, non-alphanumeric runs collapsed to a
// single hyphen, bounded in length. Returns "" for names with no usable
// characters.
func SlugifyName(name string) string {
	folded, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "-")
	if len(slug) > maxSlugBaseLength {
		slug = strings.Trim(slug[:maxSlugBaseLength], "-")
	}
	return slug
}

// SlugSuffix returns a short random disambiguator appended to a slug base
// when the base collides with an existing listing.
func SlugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
