package value_objects

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// slugRegex ensures the slug is URL-safe: lowercase letters, digits and
// single hyphens, never leading or trailing.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// stripDiacritics removes combining marks so accented input normalizes to a
// plain ASCII slug.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug represents an establishment's unique URL-safe identifier
type Slug struct {
	value string
}

// NewSlug creates a new Slug value object with validation
func NewSlug(value string) (*Slug, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	if normalized == "" {
		return nil, fmt.Errorf("slug cannot be empty")
	}

	if folded, _, err := transform.String(stripDiacritics, normalized); err == nil {
		normalized = folded
	}

	if len(normalized) < 2 {
		return nil, fmt.Errorf("slug must be at least 2 characters long")
	}

	if len(normalized) > 63 {
		return nil, fmt.Errorf("slug cannot exceed 63 characters")
	}

	if !slugRegex.MatchString(normalized) {
		return nil, fmt.Errorf("slug contains invalid characters: %s", value)
	}

	return &Slug{value: normalized}, nil
}

// Slugify derives a slug from free-form text, e.g. an establishment name.
func Slugify(text string) (*Slug, error) {
	folded := strings.ToLower(strings.TrimSpace(text))
	if stripped, _, err := transform.String(stripDiacritics, folded); err == nil {
		folded = stripped
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	candidate := strings.TrimRight(b.String(), "-")
	return NewSlug(candidate)
}

// String returns the string representation of the slug
func (s *Slug) String() string {
	return s.value
}

// Equals checks if two slug objects are equal
func (s *Slug) Equals(other *Slug) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.value == other.value
}
