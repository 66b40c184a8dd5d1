package moderation

import (
	"log/slog"

	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"
)

// reasons a label produced no cause, used as a metrics label
const (
	skipNegated   = "negated"
	skipExpired   = "expired"
	skipUnknown   = "unknown"
	skipSelf      = "self"
	skipAuthed    = "authenticated"
	skipIgnored   = "ignored"
	skipNoOptions = "no_options"
)

// Resolves each label against the viewer's labelers and preferences, returning the causes which should be surfaced for an item of the given target.
//
// Returns a new slice; callers moderating a composite item (eg, a post and its author) concatenate the results of several calls with [NewDecision]. Labels that can not be resolved are dropped, never returned as errors.
func DecideLabels(labels []label.Label, target Target, opts *Options) []Cause {
	if len(labels) == 0 {
		return nil
	}
	if opts == nil {
		labelsSkipped.WithLabelValues(skipNoOptions).Add(float64(len(labels)))
		return nil
	}

	// a negation retracts any earlier label with the same source, subject and value
	lastNegation := make(map[string]int)
	for i := range labels {
		if labels[i].IsNegation() {
			lastNegation[labels[i].Key()] = i
		}
	}

	now := opts.now()
	var causes []Cause
	for i := range labels {
		l := &labels[i]
		if l.IsNegation() {
			continue
		}
		if n, ok := lastNegation[l.Key()]; ok && n > i {
			labelsSkipped.WithLabelValues(skipNegated).Inc()
			continue
		}
		if l.IsExpired(now) {
			labelsSkipped.WithLabelValues(skipExpired).Inc()
			continue
		}

		cause, reason := decideLabel(l, target, opts)
		if reason != "" {
			labelsSkipped.WithLabelValues(reason).Inc()
			continue
		}
		causesEmitted.WithLabelValues(target.String(), cause.Blur().String()).Inc()
		causes = append(causes, cause)
	}
	return causes
}

func decideLabel(l *label.Label, target Target, opts *Options) (Cause, string) {
	src := syntax.DID(l.SourceDID)
	def, labeler := resolveDefinition(l, src, opts)
	if def == nil {
		slog.Debug("no definition for label", "val", l.Val, "src", l.SourceDID)
		return Cause{}, skipUnknown
	}

	if def.Identifier == labelNoUnauthenticated && opts.ViewerDID != "" {
		return Cause{}, skipAuthed
	}

	if def.Flags.NoSelf && opts.ViewerDID != "" {
		subject, err := l.SubjectDID()
		if err == nil && subject == opts.ViewerDID {
			return Cause{}, skipSelf
		}
	}

	pref := resolvePreference(l, def, labeler, opts)
	if pref == PreferenceIgnore {
		return Cause{}, skipIgnored
	}

	return Cause{
		Type:       CauseLabel,
		Label:      *l,
		Definition: def,
		Source:     src,
		Preference: pref,
		Target:     target,
	}, ""
}

// Finds the definition for a label: system values only ever use the built-ins; otherwise the emitting labeler's own definition wins over a global one. The returned labeler prefs are nil if the source is not subscribed.
func resolveDefinition(l *label.Label, src syntax.DID, opts *Options) (*LabelDefinition, *LabelerPrefs) {
	labeler := opts.Labeler(src)
	if l.IsSystem() {
		return GlobalLabels[l.Val], labeler
	}
	if labeler != nil {
		if def, ok := labeler.Definitions[l.Val]; ok {
			return def, labeler
		}
	}
	return GlobalLabels[l.Val], labeler
}

func resolvePreference(l *label.Label, def *LabelDefinition, labeler *LabelerPrefs, opts *Options) Preference {
	if def.Flags.Forced || l.IsSystem() {
		return def.DefaultSetting
	}
	if def.Flags.AdultOnly && !opts.AdultContent {
		return PreferenceHide
	}
	if labeler != nil {
		if p, ok := labeler.Prefs[l.Val]; ok {
			return p
		}
	}
	if p, ok := opts.GlobalPrefs[l.Val]; ok {
		return p
	}
	return def.DefaultSetting
}
