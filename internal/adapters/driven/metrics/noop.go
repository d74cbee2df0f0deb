package metrics

import (
	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// NoopMetricsRecorder is a no-op implementation for when metrics are disabled.
// All methods are safe to call and do nothing.
type NoopMetricsRecorder struct{}

// NewNoopMetricsRecorder creates a new no-op metrics recorder.
func NewNoopMetricsRecorder() *NoopMetricsRecorder {
	return &NoopMetricsRecorder{}
}

// RecordTemplateOutcome is a no-op.
func (n *NoopMetricsRecorder) RecordTemplateOutcome(success bool, failureCode string) {}

// RecordReferenceResolved is a no-op.
func (n *NoopMetricsRecorder) RecordReferenceResolved(success bool) {}

// RecordSigningPass is a no-op.
func (n *NoopMetricsRecorder) RecordSigningPass(templateCount int) {}

// Ensure NoopMetricsRecorder implements ports.MetricsRecorder
var _ ports.MetricsRecorder = (*NoopMetricsRecorder)(nil)
