package moderation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bluesky-social/moderation/atproto/syntax"

	"github.com/stretchr/testify/assert"
)

type fakeLabelerSource struct {
	views map[syntax.DID]*LabelerView
	calls atomic.Int64
}

func (s *fakeLabelerSource) GetLabeler(ctx context.Context, did syntax.DID) (*LabelerView, error) {
	s.calls.Add(1)
	v, ok := s.views[did]
	if !ok {
		return nil, ErrLabelerNotFound
	}
	return v, nil
}

func TestLabelerCache(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	source := &fakeLabelerSource{
		views: map[syntax.DID]*LabelerView{
			testLabelerDID: loadLabelerView(t, "testdata/labeler_view.json"),
			// creator does not match the key it was served for
			"did:plc:mismatch": {Creator: ProfileBasic{DID: "did:plc:someoneelse"}},
		},
	}
	lc := NewLabelerCache(source, 100, time.Hour)

	ml, err := lc.Get(ctx, testLabelerDID)
	assert.NoError(err)
	assert.Equal(testLabelerDID, ml.DID)
	assert.Contains(ml.Definitions, "spam")
	assert.Equal(int64(1), source.calls.Load())

	again, err := lc.Get(ctx, testLabelerDID)
	assert.NoError(err)
	assert.Same(ml, again)
	assert.Equal(int64(1), source.calls.Load())

	lc.Purge(testLabelerDID)
	_, err = lc.Get(ctx, testLabelerDID)
	assert.NoError(err)
	assert.Equal(int64(2), source.calls.Load())

	_, err = lc.Get(ctx, "did:plc:missing")
	assert.ErrorIs(err, ErrLabelerNotFound)
	_, err = lc.Get(ctx, "did:plc:mismatch")
	assert.ErrorIs(err, ErrLabelerNotFound)
}

func TestLabelerCachePrefetch(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	source := &fakeLabelerSource{
		views: map[syntax.DID]*LabelerView{
			testLabelerDID: loadLabelerView(t, "testdata/labeler_view.json"),
		},
	}
	lc := NewLabelerCache(source, 0, 0)

	out := lc.Prefetch(ctx, "did:plc:missing", testLabelerDID)
	if assert.Len(out, 1) {
		assert.Equal(testLabelerDID, out[0].DID)
	}

	opts := &Options{
		ViewerDID: testViewerDID,
		Labelers: []LabelerPrefs{
			{DID: testLabelerDID, Prefs: map[string]Preference{"rude": PreferenceIgnore}},
			{DID: "did:plc:missing"},
		},
	}
	lc.HydrateOptions(ctx, opts)
	assert.Len(opts.Labelers, 2)
	lp := opts.Labeler(testLabelerDID)
	if assert.NotNil(lp) {
		assert.Contains(lp.Definitions, "spam")
		assert.Equal(PreferenceIgnore, lp.Prefs["rude"])
	}
	assert.Nil(opts.Labeler("did:plc:missing").Definitions)
}

// Blocks every fetch until released, or until the caller's context is done.
type slowLabelerSource struct {
	fakeLabelerSource
	started chan struct{}
	release chan struct{}
}

func (s *slowLabelerSource) GetLabeler(ctx context.Context, did syntax.DID) (*LabelerView, error) {
	s.started <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		s.calls.Add(1)
		return nil, ctx.Err()
	}
	return s.fakeLabelerSource.GetLabeler(ctx, did)
}

func newSlowLabelerSource(t *testing.T) *slowLabelerSource {
	return &slowLabelerSource{
		fakeLabelerSource: fakeLabelerSource{
			views: map[syntax.DID]*LabelerView{
				testLabelerDID: loadLabelerView(t, "testdata/labeler_view.json"),
			},
		},
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func TestLabelerCacheConcurrentGet(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	source := newSlowLabelerSource(t)
	lc := NewLabelerCache(source, 100, time.Hour)

	results := make([]*ModerationLabeler, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ml, err := lc.Get(ctx, testLabelerDID)
			assert.NoError(err)
			results[i] = ml
		}()
	}
	<-source.started
	close(source.release)
	wg.Wait()

	assert.Equal(int64(1), source.calls.Load())
	for _, ml := range results {
		assert.Same(results[0], ml)
	}
}

func TestLabelerCacheCancelledFetch(t *testing.T) {
	assert := assert.New(t)

	source := newSlowLabelerSource(t)
	lc := NewLabelerCache(source, 100, time.Hour)

	cancelled, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := lc.Get(cancelled, testLabelerDID)
		firstErr <- err
	}()
	<-source.started

	second := make(chan *ModerationLabeler, 1)
	go func() {
		ml, err := lc.Get(context.Background(), testLabelerDID)
		assert.NoError(err)
		second <- ml
	}()
	time.Sleep(10 * time.Millisecond)

	cancel()
	assert.ErrorIs(<-firstErr, context.Canceled)
	close(source.release)

	ml := <-second
	if assert.NotNil(ml) {
		assert.Equal(testLabelerDID, ml.DID)
	}
	assert.Equal(int64(2), source.calls.Load())
}
