package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bluesky-social/moderation/atproto/syntax"
	"github.com/bluesky-social/moderation/moderation"

	"github.com/stretchr/testify/assert"
)

func TestLoadLabelerDir(t *testing.T) {
	assert := assert.New(t)

	src, err := loadLabelerDir("testdata/labelers")
	assert.NoError(err)
	assert.Equal([]syntax.DID{"did:plc:ar7c4by46qjdydhdevvrndac"}, src.DIDs())

	view, err := src.GetLabeler(t.Context(), "did:plc:ar7c4by46qjdydhdevvrndac")
	assert.NoError(err)
	assert.Equal("moderation.bsky.app", view.Creator.Handle)

	_, err = src.GetLabeler(t.Context(), "did:plc:missing")
	assert.ErrorIs(err, moderation.ErrLabelerNotFound)

	src, err = loadLabelerDir("")
	assert.NoError(err)
	assert.Empty(src.DIDs())

	dir := t.TempDir()
	bad := []byte(`{"creator": {"did": "did:plc:", "handle": "broken.example.com"}, "policies": {"labelValues": []}}`)
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), bad, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = loadLabelerDir(dir)
	assert.ErrorIs(err, syntax.ErrInvalidDID)
}

func TestRunCommands(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(run([]string{"modkit", "labeler", "testdata/labelers/bsky_moderation.json"}))
	assert.NoError(run([]string{"modkit", "moderate", "--labeler-dir", "testdata/labelers", "--prefs", "testdata/prefs.json", "testdata/post.json"}))
	assert.NoError(run([]string{"modkit", "moderate", "--kind", "generic", "--context", "contentList", "--labeler-dir", "testdata/labelers", "testdata/post.json"}))
	assert.NoError(run([]string{"modkit", "parse", "--mention", "alice.test=did:plc:alice111", "hi @alice.test #golang"}))
	assert.NoError(run([]string{"modkit", "length", "👍🏽 ok"}))

	assert.Error(run([]string{"modkit", "labeler"}))
	assert.Error(run([]string{"modkit", "moderate", "--kind", "feed", "testdata/post.json"}))
	assert.Error(run([]string{"modkit", "moderate", "--context", "everywhere", "testdata/post.json"}))
	assert.Error(run([]string{"modkit", "parse", "--mention", "alice.test", "hi"}))
	assert.ErrorIs(run([]string{"modkit", "moderate", "--viewer", "did:nope", "testdata/post.json"}), syntax.ErrInvalidDID)
}
