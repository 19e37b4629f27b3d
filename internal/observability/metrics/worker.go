package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics covers document processing and the model pipeline. It also
// satisfies ports.PipelineObserver so the usecases can feed it directly.
type WorkerMetrics struct {
	registry *prometheus.Registry
	service  string

	processTotal      *prometheus.CounterVec
	processDuration   *prometheus.HistogramVec
	processInFlight   prometheus.Gauge
	chunksPerDocument *prometheus.HistogramVec
	modelCallsTotal   *prometheus.CounterVec
	genreFallbacks    *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixi",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixi",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pixi",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chunksPerDocument := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pixi",
			Subsystem: "pipeline",
			Name:      "chunks_per_document",
			Help:      "Distribution of text chunks sent to the model per document.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	modelCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixi",
			Subsystem: "pipeline",
			Name:      "model_calls_total",
			Help:      "Total language model calls by operation and status.",
		},
		[]string{"service", "operation", "status"},
	)
	genreFallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixi",
			Subsystem: "pipeline",
			Name:      "genre_fallback_total",
			Help:      "Total documents that received a fallback genre.",
		},
		[]string{"service", "genre"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		chunksPerDocument,
		modelCallsTotal,
		genreFallbacks,
	)

	return &WorkerMetrics{
		registry:          registry,
		service:           service,
		processTotal:      processTotal,
		processDuration:   processDuration,
		processInFlight:   processInFlight,
		chunksPerDocument: chunksPerDocument,
		modelCallsTotal:   modelCallsTotal,
		genreFallbacks:    genreFallbacks,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(m.service, status).Inc()
	m.processDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveChunks(count int) {
	if count <= 0 {
		return
	}
	m.chunksPerDocument.WithLabelValues(m.service).Observe(float64(count))
}

func (m *WorkerMetrics) RecordModelCall(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.modelCallsTotal.WithLabelValues(m.service, operation, status).Inc()
}

func (m *WorkerMetrics) RecordGenreFallback(genre string) {
	if genre == "" {
		genre = "unknown"
	}
	m.genreFallbacks.WithLabelValues(m.service, genre).Inc()
}
