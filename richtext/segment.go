package richtext

import (
	"encoding/json"
	"iter"
	"strings"
	"unicode"
)

// A run of text with at most one feature. Feature is nil for plain text.
type Segment struct {
	Text    string  `json:"text"`
	Feature Feature `json:"-"`
}

func (s Segment) MarshalJSON() ([]byte, error) {
	out := struct {
		Text    string          `json:"text"`
		Feature json.RawMessage `json:"feature,omitempty"`
	}{Text: s.Text}
	if s.Feature != nil {
		b, err := marshalFeature(s.Feature)
		if err != nil {
			return nil, err
		}
		out.Feature = b
	}
	return json.Marshal(out)
}

// Splits text in to segments according to its facets. The concatenated segment texts always equal the input text.
//
// Facets are expected sorted by start and non-overlapping. A facet starting before the end of the previous one is skipped, and ranges past the end of the text are clamped. A facet with no features, or covering only whitespace, becomes plain text. Only the first feature of a facet is kept.
func SegmentRichText(text string, facets []Facet) []Segment {
	if len(facets) == 0 {
		return []Segment{{Text: text}}
	}
	segments := make([]Segment, 0, 2*len(facets)+1)
	for seg := range Segments(text, facets) {
		segments = append(segments, seg)
	}
	return segments
}

// Iterator form of [SegmentRichText].
func Segments(text string, facets []Facet) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		if len(facets) == 0 {
			yield(Segment{Text: text})
			return
		}

		// Go strings index by UTF-8 byte, which is exactly the facet coordinate space
		size := len(text)
		cursor := 0
		for _, facet := range facets {
			start := min(facet.Index.ByteStart, size)
			end := min(facet.Index.ByteEnd, size)

			if start < cursor {
				continue
			}
			if cursor < start {
				if !yield(Segment{Text: text[cursor:start]}) {
					return
				}
			}
			if start < end {
				sub := text[start:end]
				seg := Segment{Text: sub}
				if len(facet.Features) > 0 && !isBlank(sub) {
					seg.Feature = facet.Features[0]
				}
				if !yield(seg) {
					return
				}
			}
			// an inverted range consumes nothing
			cursor = max(start, end)
		}

		if cursor < size {
			yield(Segment{Text: text[cursor:]})
		}
	}
}

// Whitespace for blank-facet checks, matching the `\s` regex class of other clients: Unicode White_Space plus U+FEFF, minus U+0085.
func isFacetSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isFacetSpace) == ""
}
