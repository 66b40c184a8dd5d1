// Package label holds the AT Protocol label record shape, as received from labeling services and attached to hydrated views.
package label

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluesky-social/moderation/atproto/syntax"
)

// Label values starting with this prefix are reserved for system behaviors (eg "!hide").
const SystemPrefix = "!"

// A single label assertion. Field names follow the lexicon (com.atproto.label.defs#label).
type Label struct {
	CID       *string `json:"cid,omitempty"`
	CreatedAt string  `json:"cts"`
	ExpiresAt *string `json:"exp,omitempty"`
	Negated   *bool   `json:"neg,omitempty"`
	SourceDID string  `json:"src"`
	URI       string  `json:"uri"`
	Val       string  `json:"val"`
	Version   int64   `json:"ver,omitempty"`
}

// Does basic checks on syntax and structure. Moderation code does not require this to pass; it is for tooling and tests.
func (l *Label) VerifySyntax() error {
	if len(l.Val) == 0 {
		return errors.New("empty label value")
	}
	if len(l.Val) > 128 {
		return fmt.Errorf("label value too long: %d", len(l.Val))
	}
	if _, err := syntax.ParseDatetime(l.CreatedAt); err != nil {
		return fmt.Errorf("invalid label: %w", err)
	}
	if l.ExpiresAt != nil {
		if _, err := syntax.ParseDatetime(*l.ExpiresAt); err != nil {
			return fmt.Errorf("invalid label: %w", err)
		}
	}
	if _, err := syntax.ParseDID(l.SourceDID); err != nil {
		return fmt.Errorf("invalid label: %w", err)
	}
	if _, err := l.SubjectDID(); err != nil {
		return fmt.Errorf("invalid label: %w", err)
	}
	return nil
}

// True if this is a negation record, which retracts an earlier label with the same source, subject and value.
func (l *Label) IsNegation() bool {
	return l.Negated != nil && *l.Negated
}

// True if the label has an expiry time which is before `now`. Unparseable expiry strings are treated as never expiring.
func (l *Label) IsExpired(now time.Time) bool {
	if l.ExpiresAt == nil {
		return false
	}
	exp, err := syntax.ParseDatetimeTime(*l.ExpiresAt)
	if err != nil {
		return false
	}
	return exp.Before(now)
}

// True for reserved system labels like "!hide" and "!warn".
func (l *Label) IsSystem() bool {
	return strings.HasPrefix(l.Val, SystemPrefix)
}

// True if the subject is the account itself (URI is a bare DID), as opposed to a record.
func (l *Label) IsAccountLevel() bool {
	return strings.HasPrefix(l.URI, "did:")
}

// DID of the account which the labeled subject belongs to. For account labels this is the URI itself; for record labels it is the AT-URI authority.
func (l *Label) SubjectDID() (syntax.DID, error) {
	if l.IsAccountLevel() {
		return syntax.ParseDID(l.URI)
	}
	uri, err := syntax.ParseATURI(l.URI)
	if err != nil {
		return "", err
	}
	return uri.Authority().AsDID()
}

// Identity of the assertion, ignoring negation and timestamps. A negation cancels a label with the same key.
func (l *Label) Key() string {
	return l.SourceDID + " " + l.URI + " " + l.Val
}
