package moderation

import (
	"strings"

	"github.com/bluesky-social/moderation/atproto/syntax"
)

// Human-readable strings for a label value, in one language.
type LabelLocale struct {
	// canonical BCP-47 base name, eg "en-US"
	Lang        syntax.Language `json:"lang"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
}

// How a single label value should be interpreted, absent viewer overrides.
type LabelDefinition struct {
	Identifier     string        `json:"identifier"`
	DefaultSetting Preference    `json:"defaultSetting"`
	Blurs          Blur          `json:"blurs"`
	Severity       Severity      `json:"severity"`
	Flags          Flags         `json:"flags"`
	Locales        []LabelLocale `json:"locales,omitempty"`
}

// Picks the locale matching `lang`, falling back to the first listed locale. Returns nil if there are none.
func (d *LabelDefinition) Locale(lang syntax.Language) *LabelLocale {
	if len(d.Locales) == 0 {
		return nil
	}
	if canon, err := lang.Canonical(); err == nil {
		for i := range d.Locales {
			if d.Locales[i].Lang == canon {
				return &d.Locales[i]
			}
		}
		// fall back to a matching base language ("en" for "en-GB")
		base, _, _ := strings.Cut(string(canon), "-")
		for i := range d.Locales {
			b, _, _ := strings.Cut(string(d.Locales[i].Lang), "-")
			if b == base {
				return &d.Locales[i]
			}
		}
	}
	return &d.Locales[0]
}

// Label definitions for a single labeler, keyed by label identifier.
type LabelDefinitionMapping map[string]*LabelDefinition

// Label values with built-in behavior, applied regardless of which labeler emitted them (if that labeler does not define them itself).
var GlobalLabels = LabelDefinitionMapping{
	"!hide": {
		Identifier:     "!hide",
		DefaultSetting: PreferenceHide,
		Blurs:          BlurForced,
		Severity:       SeverityAlert,
		Flags:          Flags{Forced: true, NoSelf: true},
	},
	"!warn": {
		Identifier:     "!warn",
		DefaultSetting: PreferenceWarn,
		Blurs:          BlurContent,
		Severity:       SeverityNone,
		Flags:          Flags{NoSelf: true},
	},
	"!no-unauthenticated": {
		Identifier:     "!no-unauthenticated",
		DefaultSetting: PreferenceHide,
		Blurs:          BlurForced,
		Severity:       SeverityNone,
		Flags:          Flags{Forced: true},
	},
	"porn": {
		Identifier:     "porn",
		DefaultSetting: PreferenceHide,
		Blurs:          BlurMedia,
		Severity:       SeverityNone,
		Flags:          Flags{AdultOnly: true},
	},
	"sexual": {
		Identifier:     "sexual",
		DefaultSetting: PreferenceWarn,
		Blurs:          BlurMedia,
		Severity:       SeverityNone,
		Flags:          Flags{AdultOnly: true},
	},
	"nudity": {
		Identifier:     "nudity",
		DefaultSetting: PreferenceIgnore,
		Blurs:          BlurMedia,
		Severity:       SeverityNone,
	},
	"graphic-media": {
		Identifier:     "graphic-media",
		DefaultSetting: PreferenceWarn,
		Blurs:          BlurMedia,
		Severity:       SeverityNone,
		Flags:          Flags{AdultOnly: true},
	},
	// legacy alias of graphic-media
	"gore": {
		Identifier:     "gore",
		DefaultSetting: PreferenceWarn,
		Blurs:          BlurMedia,
		Severity:       SeverityNone,
		Flags:          Flags{AdultOnly: true},
	},
}

// label which only applies to logged-out viewers
const labelNoUnauthenticated = "!no-unauthenticated"
