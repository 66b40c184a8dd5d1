package moderation

import (
	"time"

	"github.com/bluesky-social/moderation/atproto/syntax"
)

// Viewer preferences for one subscribed labeler.
type LabelerPrefs struct {
	DID syntax.DID `json:"did"`
	// per-label overrides of the definition default
	Prefs map[string]Preference `json:"prefs,omitempty"`
	// interpreted definitions published by this labeler
	Definitions LabelDefinitionMapping `json:"-"`
}

// Viewer-side moderation configuration.
type Options struct {
	// empty for logged-out viewers
	ViewerDID syntax.DID `json:"viewerDid,omitempty"`
	// if false, adult-only labels are always treated as hide
	AdultContent bool `json:"adultContentEnabled"`
	// preferences for global label values, regardless of which labeler emitted them
	GlobalPrefs map[string]Preference `json:"globalPrefs,omitempty"`
	Labelers    []LabelerPrefs        `json:"labelers,omitempty"`
	// clock used for label expiry; defaults to time.Now
	Now func() time.Time `json:"-"`
}

// Finds the subscribed labeler with the given DID. Returns nil if not subscribed.
func (o *Options) Labeler(did syntax.DID) *LabelerPrefs {
	for i := range o.Labelers {
		if o.Labelers[i].DID == did {
			return &o.Labelers[i]
		}
	}
	return nil
}

// Attaches interpreted definitions to the matching labeler prefs, adding a subscription entry for any labeler not already present.
func (o *Options) AddLabelers(labelers ...*ModerationLabeler) {
	for _, ml := range labelers {
		if lp := o.Labeler(ml.DID); lp != nil {
			lp.Definitions = ml.Definitions
			continue
		}
		o.Labelers = append(o.Labelers, LabelerPrefs{
			DID:         ml.DID,
			Definitions: ml.Definitions,
		})
	}
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}
