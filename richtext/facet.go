package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// lexicon type IDs for facet features
const (
	FeatureTypeLink    = "app.bsky.richtext.facet#link"
	FeatureTypeMention = "app.bsky.richtext.facet#mention"
	FeatureTypeTag     = "app.bsky.richtext.facet#tag"
	FeatureTypeEmote   = "blue.moji.richtext.facet"
)

// Byte range in the UTF-8 encoding of the text. End is exclusive.
type ByteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// One of [*FeatureLink], [*FeatureMention], [*FeatureTag], [*FeatureEmote], or [*FeatureUnknown].
type Feature interface {
	FeatureType() string
}

type FeatureLink struct {
	URI string `json:"uri"`
}

type FeatureMention struct {
	DID string `json:"did"`
}

type FeatureTag struct {
	// without the leading '#'
	Tag string `json:"tag"`
}

// Custom emoji, rendered as an image in place of the facet's text.
type FeatureEmote struct {
	DID  string `json:"did"`
	Name string `json:"name"`
	Alt  string `json:"alt,omitempty"`
}

// Feature with a type we don't render. Kept so facets round-trip.
type FeatureUnknown struct {
	Type string
	Raw  json.RawMessage
}

func (f *FeatureLink) FeatureType() string    { return FeatureTypeLink }
func (f *FeatureMention) FeatureType() string { return FeatureTypeMention }
func (f *FeatureTag) FeatureType() string     { return FeatureTypeTag }
func (f *FeatureEmote) FeatureType() string   { return FeatureTypeEmote }
func (f *FeatureUnknown) FeatureType() string { return f.Type }

// Byte-range annotation over text (app.bsky.richtext.facet).
type Facet struct {
	Index    ByteSlice
	Features []Feature
}

type facetJSON struct {
	Type     string            `json:"$type,omitempty"`
	Index    ByteSlice         `json:"index"`
	Features []json.RawMessage `json:"features"`
}

func (f *Facet) UnmarshalJSON(b []byte) error {
	var raw facetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Index = raw.Index
	f.Features = make([]Feature, 0, len(raw.Features))
	for _, rf := range raw.Features {
		feat, err := unmarshalFeature(rf)
		if err != nil {
			return fmt.Errorf("facet feature: %w", err)
		}
		f.Features = append(f.Features, feat)
	}
	return nil
}

func (f Facet) MarshalJSON() ([]byte, error) {
	out := facetJSON{
		Index:    f.Index,
		Features: make([]json.RawMessage, 0, len(f.Features)),
	}
	for _, feat := range f.Features {
		b, err := marshalFeature(feat)
		if err != nil {
			return nil, err
		}
		out.Features = append(out.Features, b)
	}
	return json.Marshal(out)
}

func unmarshalFeature(b []byte) (Feature, error) {
	var typed struct {
		Type string `json:"$type"`
	}
	if err := json.Unmarshal(b, &typed); err != nil {
		return nil, err
	}
	var feat Feature
	switch typed.Type {
	case FeatureTypeLink:
		feat = new(FeatureLink)
	case FeatureTypeMention:
		feat = new(FeatureMention)
	case FeatureTypeTag:
		feat = new(FeatureTag)
	case FeatureTypeEmote:
		feat = new(FeatureEmote)
	case "":
		return nil, errors.New("feature has no $type")
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return nil, err
		}
		return &FeatureUnknown{Type: typed.Type, Raw: buf.Bytes()}, nil
	}
	if err := json.Unmarshal(b, feat); err != nil {
		return nil, err
	}
	return feat, nil
}

func marshalFeature(feat Feature) ([]byte, error) {
	if u, ok := feat.(*FeatureUnknown); ok {
		return u.Raw, nil
	}
	b, err := json.Marshal(feat)
	if err != nil {
		return nil, err
	}
	// splice the $type field in to the object
	typ, err := json.Marshal(feat.FeatureType())
	if err != nil {
		return nil, err
	}
	out := append([]byte(`{"$type":`), typ...)
	if len(b) > 2 {
		out = append(out, ',')
	}
	return append(out, b[1:]...), nil
}
