package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var causesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_causes_emitted",
	Help: "Number of moderation causes emitted, by target and blur",
}, []string{"target", "blur"})

var labelsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_labels_skipped",
	Help: "Number of labels which did not produce a cause, by reason",
}, []string{"reason"})

var localesDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_label_locales_dropped",
	Help: "Number of label definition locales dropped for invalid language tags",
})

var labelerCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_labeler_cache_hits",
	Help: "Number of labeler cache hits",
})

var labelerCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_labeler_cache_misses",
	Help: "Number of labeler cache misses",
})
