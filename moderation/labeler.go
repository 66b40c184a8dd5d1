package moderation

import (
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"
)

// Basic profile of a labeler account (app.bsky.actor.defs#profileView, the fields we use).
type ProfileBasic struct {
	DID         string  `json:"did"`
	Handle      string  `json:"handle"`
	DisplayName *string `json:"displayName,omitempty"`
	Description *string `json:"description,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// Localized strings in a raw label value definition.
type RawLabelLocale struct {
	Lang        string `json:"lang"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Label value definition as published by a labeler (com.atproto.label.defs#labelValueDefinition).
type RawLabelDefinition struct {
	Identifier     string           `json:"identifier"`
	Severity       string           `json:"severity"`
	Blurs          string           `json:"blurs"`
	DefaultSetting string           `json:"defaultSetting,omitempty"`
	AdultOnly      bool             `json:"adultOnly,omitempty"`
	Locales        []RawLabelLocale `json:"locales"`
}

// Declared label policy of a labeler (app.bsky.labeler.defs#labelerPolicies).
type LabelerPolicies struct {
	LabelValues           []string             `json:"labelValues"`
	LabelValueDefinitions []RawLabelDefinition `json:"labelValueDefinitions,omitempty"`
}

// Hydrated labeler service view (app.bsky.labeler.defs#labelerViewDetailed).
type LabelerView struct {
	URI       string          `json:"uri,omitempty"`
	Creator   ProfileBasic    `json:"creator"`
	Policies  LabelerPolicies `json:"policies"`
	Labels    []label.Label   `json:"labels,omitempty"`
	IndexedAt string          `json:"indexedAt"`
}

// Display metadata for a labeler.
type LabelerProfile struct {
	DID         syntax.DID `json:"did"`
	Handle      string     `json:"handle"`
	DisplayName string     `json:"displayName,omitempty"`
	Description string     `json:"description,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
}

// A labeling service with its policy interpreted for moderation decisions.
type ModerationLabeler struct {
	DID     syntax.DID     `json:"did"`
	Profile LabelerProfile `json:"profile"`
	// label values in declared order; this order is authoritative for display
	Values      []string               `json:"values"`
	Definitions LabelDefinitionMapping `json:"definitions"`
	// nil if the service view had a missing or unparseable timestamp
	IndexedAt *time.Time `json:"indexedAt,omitempty"`
}

// Definitions in declared value order, skipping values without a custom definition.
func (ml *ModerationLabeler) OrderedDefinitions() []*LabelDefinition {
	out := make([]*LabelDefinition, 0, len(ml.Definitions))
	for _, val := range ml.Values {
		if def, ok := ml.Definitions[val]; ok {
			out = append(out, def)
		}
	}
	return out
}

// Converts a labeler's raw service view in to a [ModerationLabeler]. Malformed parts are dropped, never returned as errors.
//
// The creator DID is passed through as-is if it fails to parse, so the result still keys consistently with the labels that service emits.
func InterpretLabeler(view *LabelerView) *ModerationLabeler {
	creator := view.Creator
	ml := &ModerationLabeler{
		DID: syntax.DID(creator.DID),
		Profile: LabelerProfile{
			DID:    syntax.DID(creator.DID),
			Handle: creator.Handle,
		},
		Values:      append([]string(nil), view.Policies.LabelValues...),
		Definitions: InterpretLabelDefinitions(&view.Policies),
		IndexedAt:   parseIndexedAt(view.IndexedAt),
	}
	if creator.DisplayName != nil {
		ml.Profile.DisplayName = *creator.DisplayName
	}
	if creator.Description != nil {
		ml.Profile.Description = *creator.Description
	}
	if creator.Avatar != nil {
		ml.Profile.Avatar = *creator.Avatar
	}
	return ml
}

// Builds the definition mapping from a labeler's declared policies.
//
// Only definitions whose identifier is one of the declared label values are kept, and reserved ("!"-prefixed) identifiers are never accepted from a labeler.
func InterpretLabelDefinitions(policies *LabelerPolicies) LabelDefinitionMapping {
	declared := make(map[string]bool, len(policies.LabelValues))
	for _, val := range policies.LabelValues {
		declared[val] = true
	}

	mapping := make(LabelDefinitionMapping)
	for _, raw := range policies.LabelValueDefinitions {
		id := raw.Identifier
		if strings.HasPrefix(id, label.SystemPrefix) || !declared[id] {
			continue
		}

		mapping[id] = &LabelDefinition{
			Identifier:     id,
			DefaultSetting: ParsePreference(raw.DefaultSetting),
			Blurs:          ParseBlur(raw.Blurs),
			Severity:       ParseSeverity(raw.Severity),
			Flags: Flags{
				NoSelf:    true,
				AdultOnly: raw.AdultOnly,
			},
			Locales: interpretLocales(id, raw.Locales),
		}
	}
	return mapping
}

func interpretLocales(id string, raw []RawLabelLocale) []LabelLocale {
	out := make([]LabelLocale, 0, len(raw))
	for _, loc := range raw {
		lang, err := syntax.Language(loc.Lang).Canonical()
		if err != nil {
			localesDropped.Inc()
			slog.Debug("dropping label locale with invalid language tag", "label", id, "lang", loc.Lang, "err", err)
			continue
		}
		out = append(out, LabelLocale{
			Lang:        lang,
			Name:        loc.Name,
			Description: loc.Description,
		})
	}
	return out
}

// Lenient timestamp parse; nil on failure rather than a zero time.
func parseIndexedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := syntax.ParseDatetimeTime(raw); err == nil {
		return &t
	}
	t, err := dateparse.ParseStrict(raw)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}
