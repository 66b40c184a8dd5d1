package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var aturiRegex = regexp.MustCompile(`^at://([a-zA-Z0-9._:%-]+)(/([a-zA-Z0-9-.]+)(/([a-zA-Z0-9_~.:-]{1,512}))?)?$`)

// AT-URI pointing at an account, a collection, or a single record. Label subjects are either one of these or a bare DID.
//
// Syntax specification: https://atproto.com/specs/at-uri-scheme
type ATURI string

func ParseATURI(raw string) (ATURI, error) {
	if len(raw) > 8192 {
		return "", errors.New("AT-URI is too long (8192 chars max)")
	}
	parts := aturiRegex.FindStringSubmatch(raw)
	if parts == nil {
		return "", errors.New("AT-URI syntax didn't validate via regex")
	}
	if _, err := ParseAtIdentifier(parts[1]); err != nil {
		return "", fmt.Errorf("AT-URI authority is neither a DID nor a handle: %w", err)
	}
	return ATURI(raw), nil
}

// Authority section (DID or handle). Returns empty string for invalid URIs.
func (n ATURI) Authority() AtIdentifier {
	rest, ok := strings.CutPrefix(string(n), "at://")
	if !ok {
		return ""
	}
	auth, _, _ := strings.Cut(rest, "/")
	return AtIdentifier(auth)
}

func (n ATURI) String() string {
	return string(n)
}
