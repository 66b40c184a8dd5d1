package moderation

import (
	"testing"
	"time"

	"github.com/bluesky-social/moderation/atproto/label"
	"github.com/bluesky-social/moderation/atproto/syntax"

	"github.com/stretchr/testify/assert"
)

const (
	testLabelerDID = syntax.DID("did:plc:ar7c4by46qjdydhdevvrndac")
	testViewerDID  = syntax.DID("did:plc:viewer111")
	testAuthorDID  = syntax.DID("did:plc:author222")
)

func testOptions(t *testing.T) *Options {
	ml := InterpretLabeler(loadLabelerView(t, "testdata/labeler_view.json"))
	opts := &Options{
		ViewerDID:    testViewerDID,
		AdultContent: true,
		Labelers:     []LabelerPrefs{{DID: testLabelerDID}},
		Now: func() time.Time {
			return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		},
	}
	opts.AddLabelers(ml)
	return opts
}

func postLabel(val string, subject syntax.DID) label.Label {
	return label.Label{
		CreatedAt: "2024-10-23T17:51:19.128Z",
		SourceDID: testLabelerDID.String(),
		URI:       "at://" + subject.String() + "/app.bsky.feed.post/3jwdwj2ctlk26",
		Val:       val,
	}
}

func TestDecideEmpty(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	assert.Nil(DecideLabels(nil, TargetContent, opts))
	assert.Nil(DecideLabels([]label.Label{}, TargetContent, opts))
	assert.Nil(DecideLabels([]label.Label{postLabel("spam", testAuthorDID)}, TargetContent, nil))
}

func TestDecideBasic(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	causes := DecideLabels([]label.Label{postLabel("spam", testAuthorDID)}, TargetContent, opts)
	if !assert.Len(causes, 1) {
		return
	}
	c := causes[0]
	assert.Equal(CauseLabel, c.Type)
	assert.Equal("spam", c.Definition.Identifier)
	assert.Equal(testLabelerDID, c.Source)
	assert.Equal(PreferenceHide, c.Preference)
	assert.Equal(TargetContent, c.Target)
	assert.Equal(BlurContent, c.Blur())
	assert.Equal(SeverityInform, c.Severity())
	assert.False(c.NoOverride())
}

func TestDecideSelfExemption(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	// custom definitions always carry NoSelf
	labels := []label.Label{postLabel("spam", testViewerDID)}
	assert.Empty(DecideLabels(labels, TargetContent, opts))

	// account-level label on the viewer
	l := postLabel("spam", testViewerDID)
	l.URI = testViewerDID.String()
	assert.Empty(DecideLabels([]label.Label{l}, TargetAccount, opts))

	// logged-out viewers have no self
	opts.ViewerDID = ""
	assert.Len(DecideLabels(labels, TargetContent, opts), 1)

	// global definitions without NoSelf still apply to the viewer's own content
	opts.ViewerDID = testViewerDID
	assert.Len(DecideLabels([]label.Label{postLabel("porn", testViewerDID)}, TargetContent, opts), 1)
}

func TestDecidePreferenceOverride(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)
	labels := []label.Label{postLabel("spam", testAuthorDID)}

	opts.Labeler(testLabelerDID).Prefs = map[string]Preference{"spam": PreferenceIgnore}
	assert.Empty(DecideLabels(labels, TargetContent, opts))

	opts.Labeler(testLabelerDID).Prefs = map[string]Preference{"spam": PreferenceWarn}
	causes := DecideLabels(labels, TargetContent, opts)
	if assert.Len(causes, 1) {
		assert.Equal(PreferenceWarn, causes[0].Preference)
	}

	// definition default of ignore emits nothing
	assert.Empty(DecideLabels([]label.Label{postLabel("intolerant", testAuthorDID)}, TargetContent, opts))
	opts.Labeler(testLabelerDID).Prefs["intolerant"] = PreferenceWarn
	assert.Len(DecideLabels([]label.Label{postLabel("intolerant", testAuthorDID)}, TargetContent, opts), 1)
}

func TestDecideGlobalLabels(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	// labeler declared "porn" without defining it, so the global definition applies
	causes := DecideLabels([]label.Label{postLabel("porn", testAuthorDID)}, TargetContent, opts)
	if assert.Len(causes, 1) {
		assert.Equal(PreferenceHide, causes[0].Preference)
		assert.Equal(BlurMedia, causes[0].Blur())
	}

	opts.GlobalPrefs = map[string]Preference{"porn": PreferenceIgnore, "nudity": PreferenceWarn}
	assert.Empty(DecideLabels([]label.Label{postLabel("porn", testAuthorDID)}, TargetContent, opts))
	assert.Len(DecideLabels([]label.Label{postLabel("nudity", testAuthorDID)}, TargetContent, opts), 1)

	// adult-only labels are always hidden when adult content is off
	opts.AdultContent = false
	causes = DecideLabels([]label.Label{postLabel("porn", testAuthorDID), postLabel("threat", testAuthorDID)}, TargetContent, opts)
	if assert.Len(causes, 2) {
		assert.Equal(PreferenceHide, causes[0].Preference)
		assert.Equal(PreferenceHide, causes[1].Preference)
	}
}

func TestDecideSystemLabels(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	// the labeler's own "!hide" definition was dropped; the built-in is used and can not be overridden
	opts.Labeler(testLabelerDID).Prefs = map[string]Preference{"!hide": PreferenceIgnore}
	opts.GlobalPrefs = map[string]Preference{"!warn": PreferenceIgnore}
	causes := DecideLabels([]label.Label{
		postLabel("!hide", testAuthorDID),
		postLabel("!warn", testAuthorDID),
		postLabel("!bogus", testAuthorDID),
	}, TargetContent, opts)
	if assert.Len(causes, 2) {
		assert.Equal(BlurForced, causes[0].Blur())
		assert.Equal(SeverityAlert, causes[0].Severity())
		assert.True(causes[0].NoOverride())
		assert.Equal(PreferenceWarn, causes[1].Preference)
	}

	// !hide is NoSelf
	assert.Empty(DecideLabels([]label.Label{postLabel("!hide", testViewerDID)}, TargetContent, opts))

	noauth := []label.Label{postLabel("!no-unauthenticated", testAuthorDID)}
	assert.Empty(DecideLabels(noauth, TargetContent, opts))
	opts.ViewerDID = ""
	assert.Len(DecideLabels(noauth, TargetContent, opts), 1)
}

func TestDecideUnknownLabels(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	unknown := postLabel("some-label", testAuthorDID)
	otherLabeler := postLabel("spam", testAuthorDID)
	otherLabeler.SourceDID = "did:plc:unsubscribed"
	junk := postLabel("spam", testAuthorDID)
	junk.URI = "not a uri"

	causes := DecideLabels([]label.Label{unknown, otherLabeler, junk}, TargetContent, opts)
	// only the label with a junk subject URI resolves (the self check can't match it)
	if assert.Len(causes, 1) {
		assert.Equal("not a uri", causes[0].Label.URI)
	}
}

func TestDecideNegationAndExpiry(t *testing.T) {
	assert := assert.New(t)
	opts := testOptions(t)

	neg := true
	spam := postLabel("spam", testAuthorDID)
	unspam := postLabel("spam", testAuthorDID)
	unspam.Negated = &neg

	assert.Empty(DecideLabels([]label.Label{spam, unspam}, TargetContent, opts))
	// a label after its negation re-applies
	assert.Len(DecideLabels([]label.Label{unspam, spam}, TargetContent, opts), 1)
	// negation of a different value has no effect
	unrude := postLabel("rude", testAuthorDID)
	unrude.Negated = &neg
	assert.Len(DecideLabels([]label.Label{spam, unrude}, TargetContent, opts), 1)

	past := "2024-06-01T00:00:00Z"
	future := "2025-06-01T00:00:00Z"
	expired := postLabel("spam", testAuthorDID)
	expired.ExpiresAt = &past
	live := postLabel("rude", testAuthorDID)
	live.ExpiresAt = &future
	causes := DecideLabels([]label.Label{expired, live}, TargetContent, opts)
	if assert.Len(causes, 1) {
		assert.Equal("rude", causes[0].Label.Val)
	}
}
