package ports

// MetricsRecorder is the port interface for recording metrics.
// Implementations are adapters (PrometheusMetricsRecorder for production,
// NoopMetricsRecorder for disabled/testing).
type MetricsRecorder interface {
	// RecordTemplateOutcome records the outcome of one signature template.
	RecordTemplateOutcome(success bool, failureCode string)

	// RecordReferenceResolved records a reference digest computation.
	RecordReferenceResolved(success bool)

	// RecordSigningPass records a whole-document signing pass and how many
	// templates it covered.
	RecordSigningPass(templateCount int)
}
