package syntax

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var (
	langRegex = regexp.MustCompile(`^(i|[a-z]{2,3})(-[a-zA-Z0-9]+)*$`)

	ErrUndeterminedLanguage = errors.New("language tag has no primary language")
)

// BCP-47 language tag, as found in label definition locales and post langs.
//
// [ParseLanguage] is a fast syntax check with exact-string passthrough. Use [Language.Canonical] when tags need to compare equal.
type Language string

func ParseLanguage(raw string) (Language, error) {
	if raw == "" {
		return "", errors.New("expected language code, got empty string")
	}
	if len(raw) > 128 {
		return "", errors.New("language is too long (128 chars max)")
	}
	if !langRegex.MatchString(raw) {
		return "", errors.New("language syntax didn't validate via regex")
	}
	return Language(raw), nil
}

// Canonical BCP-47 base name of the tag (language, script, region and variants; extensions dropped), so "en-us-u-ca-gregory" becomes "en-US". Errors if the tag is not well-formed.
//
// Syntax is checked case-insensitively with [ParseLanguage] first, since the x/text parser also accepts forms like "en_US". Tags without a known primary language ("und", private-use "x-..." tags) are rejected.
func (l Language) Canonical() (Language, error) {
	if _, err := ParseLanguage(strings.ToLower(string(l))); err != nil {
		return "", err
	}
	tag, err := language.Parse(string(l))
	if err != nil {
		return "", err
	}
	base, script, region := tag.Raw()
	if base.String() == "und" {
		return "", ErrUndeterminedLanguage
	}
	tag, err = language.Compose(base, script, region, tag.Variants())
	if err != nil {
		return "", err
	}
	return Language(tag.String()), nil
}

func (l Language) String() string {
	return string(l)
}
