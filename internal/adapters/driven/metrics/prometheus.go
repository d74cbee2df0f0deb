package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// PrometheusMetricsRecorder records signing metrics using Prometheus.
type PrometheusMetricsRecorder struct {
	templatesTotal  *prometheus.CounterVec
	referencesTotal *prometheus.CounterVec
	passesTotal     prometheus.Counter
	passTemplates   prometheus.Histogram
}

// NewPrometheusMetricsRecorder creates a new Prometheus metrics recorder
// using the default Prometheus registry.
func NewPrometheusMetricsRecorder() *PrometheusMetricsRecorder {
	return NewPrometheusMetricsRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusMetricsRecorderWithRegistry creates a new Prometheus metrics
// recorder with a custom registry. Use this for testing.
func NewPrometheusMetricsRecorderWithRegistry(reg prometheus.Registerer) *PrometheusMetricsRecorder {
	templatesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xmlsec_templates_total",
		Help: "Total signature templates processed",
	}, []string{"result", "failure_code"})

	referencesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "xmlsec_references_total",
		Help: "Total reference digest computations",
	}, []string{"result"})

	passesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "xmlsec_signing_passes_total",
		Help: "Total whole-document signing passes",
	})

	passTemplates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "xmlsec_signing_pass_templates",
		Help:    "Templates covered per signing pass",
		Buckets: []float64{1, 2, 5, 10, 25},
	})

	reg.MustRegister(
		templatesTotal,
		referencesTotal,
		passesTotal,
		passTemplates,
	)

	return &PrometheusMetricsRecorder{
		templatesTotal:  templatesTotal,
		referencesTotal: referencesTotal,
		passesTotal:     passesTotal,
		passTemplates:   passTemplates,
	}
}

// RecordTemplateOutcome records the outcome of one signature template.
func (p *PrometheusMetricsRecorder) RecordTemplateOutcome(success bool, failureCode string) {
	result := "failure"
	if success {
		result = "success"
		failureCode = ""
	}
	p.templatesTotal.WithLabelValues(result, failureCode).Inc()
}

// RecordReferenceResolved records a reference digest computation.
func (p *PrometheusMetricsRecorder) RecordReferenceResolved(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.referencesTotal.WithLabelValues(result).Inc()
}

// RecordSigningPass records a whole-document signing pass.
func (p *PrometheusMetricsRecorder) RecordSigningPass(templateCount int) {
	p.passesTotal.Inc()
	p.passTemplates.Observe(float64(templateCount))
}

// Ensure PrometheusMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*PrometheusMetricsRecorder)(nil)
