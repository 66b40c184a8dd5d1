package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDID(t *testing.T) {
	assert := assert.New(t)

	did, err := ParseDID("did:plc:ewvi7nxzyoun6zhxrhs64oiz")
	assert.NoError(err)
	assert.Equal("did:plc:ewvi7nxzyoun6zhxrhs64oiz", did.String())

	_, err = ParseDID("did:web:example.com")
	assert.NoError(err)
	_, err = ParseDID("did:plc:abc:")
	assert.ErrorIs(err, ErrInvalidDID)

	for _, raw := range []string{"", "did:", "did:plc", "DID:plc:abc", "did:plc:abc:", "plc:abc"} {
		_, err := ParseDID(raw)
		assert.Error(err, raw)
	}
}

func TestParseHandle(t *testing.T) {
	assert := assert.New(t)

	h, err := ParseHandle("Alice.BSKY.social")
	assert.NoError(err)
	assert.Equal(Handle("alice.bsky.social"), h.Normalize())

	for _, raw := range []string{"", "alice", "alice.", ".alice.com", "al ice.com", "alice.123"} {
		_, err := ParseHandle(raw)
		assert.Error(err, raw)
	}
}

func TestATURI(t *testing.T) {
	assert := assert.New(t)

	u, err := ParseATURI("at://did:plc:abc123/app.bsky.feed.post/3jwdwj2ctlk26")
	assert.NoError(err)
	assert.Equal(AtIdentifier("did:plc:abc123"), u.Authority())
	assert.True(u.Authority().IsDID())

	u, err = ParseATURI("at://alice.bsky.social")
	assert.NoError(err)
	assert.False(u.Authority().IsDID())
	_, err = u.Authority().AsDID()
	assert.ErrorIs(err, ErrNotDID)

	for _, raw := range []string{"", "did:plc:abc123", "at://", "https://bsky.app", "at://not a handle/app.bsky.feed.post"} {
		_, err := ParseATURI(raw)
		assert.Error(err, raw)
	}
}

func TestDatetime(t *testing.T) {
	assert := assert.New(t)

	ts, err := ParseDatetimeTime("2024-10-23T17:51:19.128Z")
	assert.NoError(err)
	assert.Equal(2024, ts.Year())

	_, err = ParseDatetimeTime("2024-10-23T17:51:19+00:00")
	assert.NoError(err)

	for _, raw := range []string{"", "2024-10-23", "2024-10-23T17:51:19", "2024-10-23T17:51:19-00:00", "2024-19-23T17:51:19Z"} {
		_, err := ParseDatetimeTime(raw)
		assert.Error(err, raw)
	}
}

func TestLanguageCanonical(t *testing.T) {
	assert := assert.New(t)

	testVec := map[string]string{
		"en":                 "en",
		"en-US":              "en-US",
		"en-us":              "en-US",
		"pt-BR":              "pt-BR",
		"zh-hant-tw":         "zh-Hant-TW",
		"en-US-u-ca-gregory": "en-US",
		"EN-gb":              "en-GB",
		"i-klingon":          "tlh",
	}
	for raw, expected := range testVec {
		c, err := Language(raw).Canonical()
		assert.NoError(err, raw)
		assert.Equal(Language(expected), c, raw)
	}

	for _, raw := range []string{"", "???", "en--US", "-en", "en_US", "x-private", "und", "und-US", "en-"} {
		_, err := Language(raw).Canonical()
		assert.Error(err, raw)
	}
	_, err := Language("und").Canonical()
	assert.ErrorIs(err, ErrUndeterminedLanguage)

	_, err = ParseLanguage("ja")
	assert.NoError(err)
	_, err = ParseLanguage("JA")
	assert.Error(err)
}
