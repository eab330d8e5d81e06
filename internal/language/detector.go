// Package language classifies user text into one of the languages the bot
// answers in, using keyword heuristics.
package language

import (
	"strings"

	"golang.org/x/text/cases"
)

// Tag identifies a supported reply language.
type Tag string

const (
	// English is the default and uninformative classification.
	English Tag = "english"
	// Bisaya covers Cebuano/Visayan text.
	Bisaya Tag = "bisaya"
	// Tagalog covers Tagalog/Filipino text.
	Tagalog Tag = "tagalog"
)

// All lists every supported tag in display order.
var All = []Tag{English, Bisaya, Tagalog}

// String returns the tag name.
func (t Tag) String() string {
	return string(t)
}

// DisplayName returns the name used in prompts ("Respond in ...").
func (t Tag) DisplayName() string {
	switch t {
	case Bisaya:
		return "Bisaya/Cebuano"
	case Tagalog:
		return "Tagalog"
	default:
		return "English"
	}
}

// Parse converts a stored value back into a Tag.
// Unknown values report false.
func Parse(s string) (Tag, bool) {
	switch Tag(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, true
	case Bisaya:
		return Bisaya, true
	case Tagalog:
		return Tagalog, true
	default:
		return "", false
	}
}

// MinKeywordMatches is how many distinct markers of one language must appear
// before the text is classified as that language. Short markers such as "sa"
// or "ang" collide with English words, so a single hit is not enough.
const MinKeywordMatches = 2

// Markers are matched as case-folded substrings.
var (
	bisayaMarkers = []string{
		"kumusta", "musta", "unsa", "asa", "kanus-a", "ngano", "kinsa", "unsaon", "pila",
		"naa", "kaayo", "karon", "dinhi",
	}
	tagalogMarkers = []string{
		"kumusta", "kamusta", "ano", "saan", "kailan", "bakit", "sino", "paano", "ilan",
		"mga", "ang", "ng", "sa", "magkano", "ngayon",
	}
)

// Detect classifies text. Bisaya is evaluated first and wins when both
// languages reach the threshold.
func Detect(text string) Tag {
	// A Caser is stateful, so each call gets its own.
	folded := cases.Fold().String(text)

	if countMatches(folded, bisayaMarkers) >= MinKeywordMatches {
		return Bisaya
	}
	if countMatches(folded, tagalogMarkers) >= MinKeywordMatches {
		return Tagalog
	}
	return English
}

// countMatches returns the number of distinct markers found in text.
func countMatches(text string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(text, m) {
			n++
		}
	}
	return n
}
