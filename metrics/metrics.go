package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	stageLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_pipeline_stage_latency_ms",
		Help:    "Latency of pipeline stages in milliseconds",
		Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500, 800, 1200, 2000, 5000},
	}, []string{"stage"})

	intentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_intent_total",
		Help: "Classified intent count",
	}, []string{"intent"})

	shortCircuitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_short_circuit_total",
		Help: "Pipeline short-circuit count by reason",
	}, []string{"reason"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_retriever_results",
		Help:    "Number of results returned by a retriever",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"source"})

	filterSurvivors = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_filter_survivors",
		Help:    "Candidates surviving constraint filtering per query",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 12, 20, 50},
	})

	mergeOverwrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_merge_price_overwrites_total",
		Help: "Catalog prices overwritten by live web prices",
	})

	webCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_web_cache_total",
		Help: "Web search cache outcomes (hit/miss)",
	}, []string{"outcome"})

	classifierFallback = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_classifier_fallback_total",
		Help: "Classifier parse failures recovered by the rule-based fallback",
	})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(stageLatency, intentTotal, shortCircuitTotal,
			retrieverResults, filterSurvivors, mergeOverwrites, webCacheHits, classifierFallback)
	})
}

// ObserveStage records latency for a pipeline stage.
func ObserveStage(stage string, start time.Time) {
	ensureRegistered()
	stageLatency.WithLabelValues(stage).Observe(float64(time.Since(start).Milliseconds()))
}

// IncIntent increments the counter for a classified intent.
func IncIntent(intent string) {
	ensureRegistered()
	intentTotal.WithLabelValues(intent).Inc()
}

// IncShortCircuit records a pipeline short-circuit with its reason.
func IncShortCircuit(reason string) {
	ensureRegistered()
	shortCircuitTotal.WithLabelValues(reason).Inc()
}

// ObserveRetriever records result size for a retrieval source.
func ObserveRetriever(source string, results int) {
	ensureRegistered()
	retrieverResults.WithLabelValues(source).Observe(float64(results))
}

// ObserveFilterSurvivors records how many candidates cleared filtering.
func ObserveFilterSurvivors(n int) {
	ensureRegistered()
	filterSurvivors.Observe(float64(n))
}

// IncMergeOverwrite records a catalog price replaced by a live price.
func IncMergeOverwrite() {
	ensureRegistered()
	mergeOverwrites.Inc()
}

// IncWebCache records a web search cache hit or miss.
func IncWebCache(outcome string) {
	ensureRegistered()
	webCacheHits.WithLabelValues(outcome).Inc()
}

// IncClassifierFallback records a recovered classifier parse failure.
func IncClassifierFallback() {
	ensureRegistered()
	classifierFallback.Inc()
}

// Collectors exposes all collectors for registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		stageLatency, intentTotal, shortCircuitTotal, retrieverResults,
		filterSurvivors, mergeOverwrites, webCacheHits, classifierFallback,
	}
}
