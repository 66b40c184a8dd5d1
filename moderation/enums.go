package moderation

import (
	"fmt"
)

// How the viewer wants a label handled.
type Preference int

const (
	PreferenceIgnore Preference = 1
	PreferenceWarn   Preference = 2
	PreferenceHide   Preference = 3
)

// Maps a lexicon preference string. Only exact "hide" and "warn" match; anything else (including "") is ignore.
func ParsePreference(raw string) Preference {
	switch raw {
	case "hide":
		return PreferenceHide
	case "warn":
		return PreferenceWarn
	default:
		return PreferenceIgnore
	}
}

func (p Preference) String() string {
	switch p {
	case PreferenceHide:
		return "hide"
	case PreferenceWarn:
		return "warn"
	case PreferenceIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Preference(%d)", int(p))
	}
}

func (p Preference) MarshalText() ([]byte, error) {
	switch p {
	case PreferenceIgnore, PreferenceWarn, PreferenceHide:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("invalid preference: %d", int(p))
}

func (p *Preference) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hide", "warn", "ignore":
		*p = ParsePreference(string(text))
		return nil
	}
	return fmt.Errorf("invalid preference: %q", string(text))
}

// What a label obscures. Ordered: None < Media < Content < Forced.
type Blur int

const (
	BlurNone Blur = iota
	BlurMedia
	BlurContent
	// content blur which the viewer can not click through
	BlurForced
)

// Maps a lexicon blurs string ("content", "media"); anything else is none. Forced only comes from system labels.
func ParseBlur(raw string) Blur {
	switch raw {
	case "content":
		return BlurContent
	case "media":
		return BlurMedia
	default:
		return BlurNone
	}
}

func (b Blur) String() string {
	switch b {
	case BlurNone:
		return "none"
	case BlurMedia:
		return "media"
	case BlurContent:
		return "content"
	case BlurForced:
		return "forced"
	default:
		return fmt.Sprintf("Blur(%d)", int(b))
	}
}

func (b Blur) MarshalText() ([]byte, error) {
	if b < BlurNone || b > BlurForced {
		return nil, fmt.Errorf("invalid blur: %d", int(b))
	}
	return []byte(b.String()), nil
}

func (b *Blur) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "media", "content":
		*b = ParseBlur(string(text))
	case "forced":
		*b = BlurForced
	default:
		return fmt.Errorf("invalid blur: %q", string(text))
	}
	return nil
}

// How loudly a label is surfaced, independent of blur. Ordered: None < Inform < Alert.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInform
	SeverityAlert
)

// Maps a lexicon severity string ("alert", "inform"); anything else is none.
func ParseSeverity(raw string) Severity {
	switch raw {
	case "alert":
		return SeverityAlert
	case "inform":
		return SeverityInform
	default:
		return SeverityNone
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityInform:
		return "inform"
	case SeverityAlert:
		return "alert"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityNone || s > SeverityAlert {
		return nil, fmt.Errorf("invalid severity: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "inform", "alert":
		*s = ParseSeverity(string(text))
		return nil
	}
	return fmt.Errorf("invalid severity: %q", string(text))
}

// Bit values of [Flags] when packed into an integer.
const (
	FlagBitForced    = 1
	FlagBitNoSelf    = 2
	FlagBitAdultOnly = 4
)

// Behavior modifiers on a label definition.
type Flags struct {
	// viewer preference can not override the default, and blur can not be dismissed
	Forced bool `json:"forced,omitempty"`
	// not applied when the labeled subject is the viewer's own account
	NoSelf bool `json:"noSelf,omitempty"`
	// treated as hide when the viewer has not enabled adult content
	AdultOnly bool `json:"adultOnly,omitempty"`
}

// Packs flags into the integer representation.
func (f Flags) Bits() int {
	bits := 0
	if f.Forced {
		bits |= FlagBitForced
	}
	if f.NoSelf {
		bits |= FlagBitNoSelf
	}
	if f.AdultOnly {
		bits |= FlagBitAdultOnly
	}
	return bits
}

func FlagsFromBits(bits int) Flags {
	return Flags{
		Forced:    bits&FlagBitForced != 0,
		NoSelf:    bits&FlagBitNoSelf != 0,
		AdultOnly: bits&FlagBitAdultOnly != 0,
	}
}

// What a label is about.
type Target int

const (
	// the whole account (label URI is a bare DID)
	TargetAccount Target = iota
	// the profile record (avatar, banner, display name, bio)
	TargetProfile
	// a post, feed generator, list, or other record
	TargetContent
)

func (t Target) String() string {
	switch t {
	case TargetAccount:
		return "account"
	case TargetProfile:
		return "profile"
	case TargetContent:
		return "content"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

func (t Target) MarshalText() ([]byte, error) {
	if t < TargetAccount || t > TargetContent {
		return nil, fmt.Errorf("invalid target: %d", int(t))
	}
	return []byte(t.String()), nil
}

// Where an item is being rendered.
type Context int

const (
	// post or record shown in a feed or list
	ContextContentList Context = iota
	// post or record shown on its own (thread view)
	ContextContentView
	// images and video embedded in a post or record
	ContextContentMedia
	// profile shown in a list (search results, followers)
	ContextProfileList
	// full profile page
	ContextProfileView
	// avatar and banner
	ContextProfileMedia
)

var AllContexts = []Context{
	ContextContentList,
	ContextContentView,
	ContextContentMedia,
	ContextProfileList,
	ContextProfileView,
	ContextProfileMedia,
}

func (c Context) String() string {
	switch c {
	case ContextContentList:
		return "contentList"
	case ContextContentView:
		return "contentView"
	case ContextContentMedia:
		return "contentMedia"
	case ContextProfileList:
		return "profileList"
	case ContextProfileView:
		return "profileView"
	case ContextProfileMedia:
		return "profileMedia"
	default:
		return fmt.Sprintf("Context(%d)", int(c))
	}
}

func ParseContext(raw string) (Context, error) {
	for _, c := range AllContexts {
		if c.String() == raw {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown moderation context: %q", raw)
}

// True for list contexts, where hidden items are filtered out entirely.
func (c Context) IsList() bool {
	return c == ContextContentList || c == ContextProfileList
}
