package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCropPatterns flag files whose names carry a crop, cropped or bleed
// token, e.g. "dragon (crop).png" or "bleed_dragon.jpg".
var DefaultCropPatterns = []string{
	`(^|[\s._\-(\[])(crop|cropped|bleed)([\s._\-)\]]|$)`,
}

// CropClassifier decides the default crop flag of an image from its file name.
type CropClassifier struct {
	patterns []*regexp.Regexp
}

// NewCropClassifier compiles the given patterns. Patterns are matched
// against the lower-cased base name without extension and diacritics.
func NewCropClassifier(patterns []string) (*CropClassifier, error) {
	c := &CropClassifier{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid crop pattern %q: %w", p, err)
		}
		c.patterns = append(c.patterns, re)
	}
	return c, nil
}

// DefaultCropClassifier returns a classifier using DefaultCropPatterns.
func DefaultCropClassifier() *CropClassifier {
	c, err := NewCropClassifier(DefaultCropPatterns)
	if err != nil {
		panic("invalid default crop pattern: " + err.Error())
	}
	return c
}

// Classify reports whether the image at path should be cropped by default.
// A nil classifier never crops.
func (c *CropClassifier) Classify(path string) bool {
	if c == nil {
		return false
	}
	name := normalizeName(stem(path))
	for _, re := range c.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// removeDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func normalizeName(s string) string {
	return strings.ToLower(removeDiacritics(s))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parenthesizedRe matches "(...)" fragments and the whitespace before them.
var parenthesizedRe = regexp.MustCompile(`\s*\(.*?\)`)

// CleanTitle derives a display title from a file name: extension and
// parenthesized fragments are dropped ("Dragon (crop).png" -> "Dragon").
func CleanTitle(path string) string {
	return strings.TrimSpace(parenthesizedRe.ReplaceAllString(stem(path), ""))
}
