package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plsqldoc_parse_seconds",
		Help:    "Time spent parsing a source document.",
		Buckets: prometheus.DefBuckets,
	})

	DocumentsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plsqldoc_documents_parsed_total",
		Help: "Total number of source documents parsed.",
	})

	DocumentsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plsqldoc_documents_skipped_total",
		Help: "Total number of documents skipped because their fingerprint was unchanged.",
	})

	IndexObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plsqldoc_index_objects_total",
		Help: "Current number of objects in the index.",
	})

	DuplicateObjects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plsqldoc_duplicate_objects_total",
		Help: "Total number of duplicate object descriptions encountered.",
	})

	SignatureErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plsqldoc_signature_errors_total",
		Help: "Total number of declarations rejected by the signature parser.",
	})

	XrefLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plsqldoc_xref_lookups_total",
		Help: "Total number of cross-reference lookups by outcome.",
	}, []string{"outcome"})

	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plsqldoc_render_seconds",
		Help:    "Time spent rendering a document.",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plsqldoc_build_seconds",
		Help:    "Time spent on a full build pass.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plsqldoc_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
