package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bluesky-social/moderation/atproto/syntax"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
)

var ErrLabelerNotFound = errors.New("labeler service not found")

// Fetches labeler service views, eg from app.bsky.labeler.getServices. Implementations should return [ErrLabelerNotFound] for DIDs which are not labelers.
type LabelerSource interface {
	GetLabeler(ctx context.Context, did syntax.DID) (*LabelerView, error)
}

// Read-through cache of interpreted labelers, keyed by DID. Safe for concurrent use.
type LabelerCache struct {
	Source LabelerSource
	Logger *slog.Logger

	cache *expirable.LRU[syntax.DID, *ModerationLabeler]
	// de-duplicates concurrent fetches of the same DID
	inflight sync.Map
}

type labelerFetch struct {
	done chan struct{}
	ml   *ModerationLabeler
	err  error
}

// Capacity of zero means unlimited size. Similarly, ttl of zero means entries never expire.
func NewLabelerCache(source LabelerSource, capacity int, ttl time.Duration) *LabelerCache {
	return &LabelerCache{
		Source: source,
		Logger: slog.Default().With("system", "labeler-cache"),
		cache:  expirable.NewLRU[syntax.DID, *ModerationLabeler](capacity, nil, ttl),
	}
}

// Returns the interpreted labeler for `did`, fetching and interpreting on a miss.
func (lc *LabelerCache) Get(ctx context.Context, did syntax.DID) (*ModerationLabeler, error) {
	if ml, ok := lc.cache.Get(did); ok {
		labelerCacheHits.Inc()
		return ml, nil
	}
	labelerCacheMisses.Inc()

	for {
		fetch := &labelerFetch{done: make(chan struct{})}
		prev, loaded := lc.inflight.LoadOrStore(did, fetch)
		if !loaded {
			// a fetch may have finished between the cache check and here
			if ml, ok := lc.cache.Get(did); ok {
				fetch.ml = ml
			} else {
				fetch.ml, fetch.err = lc.fetch(ctx, did)
			}
			lc.inflight.Delete(did)
			close(fetch.done)
			return fetch.ml, fetch.err
		}

		other := prev.(*labelerFetch)
		select {
		case <-other.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		// the fetching caller gave up; try again on our own context
		if isContextErr(other.err) && ctx.Err() == nil {
			continue
		}
		return other.ml, other.err
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (lc *LabelerCache) fetch(ctx context.Context, did syntax.DID) (*ModerationLabeler, error) {
	view, err := lc.Source.GetLabeler(ctx, did)
	if err != nil {
		return nil, fmt.Errorf("fetching labeler %s: %w", did, err)
	}
	if view == nil {
		return nil, fmt.Errorf("%w: %s", ErrLabelerNotFound, did)
	}
	ml := InterpretLabeler(view)
	if ml.DID != did {
		lc.Logger.Warn("labeler view creator does not match requested DID", "did", did, "creator", ml.DID)
		return nil, fmt.Errorf("%w: %s", ErrLabelerNotFound, did)
	}
	lc.cache.Add(did, ml)
	return ml, nil
}

// Fetches any labelers not already cached, concurrently. Labelers which fail to fetch are logged and skipped; the returned slice holds those that resolved, in argument order.
func (lc *LabelerCache) Prefetch(ctx context.Context, dids ...syntax.DID) []*ModerationLabeler {
	results := make([]*ModerationLabeler, len(dids))
	var eg errgroup.Group
	eg.SetLimit(8)
	for i, did := range dids {
		eg.Go(func() error {
			ml, err := lc.Get(ctx, did)
			if err != nil {
				lc.Logger.Warn("failed to fetch labeler", "did", did, "err", err)
				return nil
			}
			results[i] = ml
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]*ModerationLabeler, 0, len(results))
	for _, ml := range results {
		if ml != nil {
			out = append(out, ml)
		}
	}
	return out
}

// Drops a cached labeler, so the next Get re-fetches it.
func (lc *LabelerCache) Purge(did syntax.DID) {
	lc.cache.Remove(did)
}

// Builds moderation options for a viewer: fetches their subscribed labelers and attaches the interpreted definitions.
func (lc *LabelerCache) HydrateOptions(ctx context.Context, opts *Options) {
	dids := make([]syntax.DID, len(opts.Labelers))
	for i, lp := range opts.Labelers {
		dids[i] = lp.DID
	}
	opts.AddLabelers(lc.Prefetch(ctx, dids...)...)
}
