package syntax

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotDID = errors.New("AT identifier is a handle, not a DID")

// Either a [DID] or a [Handle]. Shows up as the authority section of AT-URIs, and so as the subject account of record labels.
type AtIdentifier string

func ParseAtIdentifier(raw string) (AtIdentifier, error) {
	switch {
	case raw == "":
		return "", errors.New("expected AT account identifier, got empty string")
	case strings.HasPrefix(raw, "did:"):
		if _, err := ParseDID(raw); err != nil {
			return "", fmt.Errorf("AT identifier: %w", err)
		}
	default:
		if _, err := ParseHandle(raw); err != nil {
			return "", fmt.Errorf("AT identifier: %w", err)
		}
	}
	return AtIdentifier(raw), nil
}

func (n AtIdentifier) IsDID() bool {
	return strings.HasPrefix(string(n), "did:")
}

// Returns [ErrNotDID] for handles, which would need resolving first.
func (n AtIdentifier) AsDID() (DID, error) {
	if !n.IsDID() {
		return "", ErrNotDID
	}
	return DID(n), nil
}

func (n AtIdentifier) String() string {
	return string(n)
}
