package syntax

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var datetimeRegex = regexp.MustCompile(`^[0-9]{4}-[01][0-9]-[0-3][0-9]T[0-2][0-9]:[0-6][0-9]:[0-6][0-9](\.[0-9]{1,20})?(Z|([+-][0-2][0-9]:[0-5][0-9]))$`)

// Strict datetime string: the intersection of RFC-3339 and ISO-8601. Used for label `cts` and `exp`.
type Datetime string

func ParseDatetime(raw string) (Datetime, error) {
	if len(raw) > 64 {
		return "", errors.New("datetime too long (64 chars max)")
	}
	if !datetimeRegex.MatchString(raw) {
		return "", errors.New("datetime syntax didn't validate via regex")
	}
	if strings.HasSuffix(raw, "-00:00") {
		return "", errors.New("datetime can't use '-00:00' for UTC timezone")
	}
	return Datetime(raw), nil
}

// Parses and converts in one step.
func ParseDatetimeTime(raw string) (time.Time, error) {
	d, err := ParseDatetime(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time()
}

// A few strings pass the regex but are not real times (eg, month 19), so this can still fail.
func (d Datetime) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, string(d))
}

func (d Datetime) String() string {
	return string(d)
}
