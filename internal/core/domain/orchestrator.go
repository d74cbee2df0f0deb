package domain

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// TemplateOutcome is the per-template result of a signing pass.
type TemplateOutcome struct {
	// Index is the template's position in document discovery order.
	Index int

	// State is the engine's terminal state, Complete or Failed.
	State EngineState

	// Err is the failure for Failed templates, nil for Complete ones.
	Err error
}

// SigningReport aggregates per-template outcomes in document order.
type SigningReport struct {
	Outcomes []TemplateOutcome
}

// AllComplete reports whether every template reached Complete.
func (r *SigningReport) AllComplete() bool {
	for _, o := range r.Outcomes {
		if o.State != StateComplete {
			return false
		}
	}
	return true
}

// FailedCount returns the number of templates that ended in Failed.
func (r *SigningReport) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			n++
		}
	}
	return n
}

// Orchestrator drives a whole-document signing pass: one SignatureEngine
// per discovered template, sequentially in document order. Sequential
// processing is load-bearing: a later template may reference content
// (via "#id") inside an earlier template's SignatureValue.
type Orchestrator struct {
	crypto            ports.CryptoProvider
	transforms        *TransformRegistry
	metrics           ports.MetricsRecorder
	logger            *zap.Logger
	continueOnFailure bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithTransformRegistry sets the opaque transform provider registry.
func WithTransformRegistry(r *TransformRegistry) OrchestratorOption {
	return func(o *Orchestrator) { o.transforms = r }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m ports.MetricsRecorder) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

// WithContinueOnFailure makes the pass process remaining templates after
// a failed one instead of aborting (the default).
func WithContinueOnFailure(cont bool) OrchestratorOption {
	return func(o *Orchestrator) { o.continueOnFailure = cont }
}

// NewOrchestrator creates an orchestrator around a crypto provider.
func NewOrchestrator(crypto ports.CryptoProvider, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		crypto:     crypto,
		transforms: NewTransformRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FindTemplates discovers signature template nodes in doc. With a
// non-empty expression, it is compiled against bindings and evaluated;
// otherwise the anchored qualified-name search for dsig Signature
// elements is used. Both paths yield a document-ordered node-set.
func FindTemplates(doc *etree.Document, bindings NamespaceBindings, expression string) (NodeSet, error) {
	root := doc.Root()
	if root == nil {
		return nil, EvaluationError("document has no root element")
	}

	if expression == "" {
		return FindAllByQualifiedName(root, SignatureTag, DSigNamespace)
	}

	query, err := CompileQuery(bindings, expression)
	if err != nil {
		return nil, err
	}
	return query.Evaluate(doc)
}

// SignAll signs every template with key, mutating the registry's document
// in place for each template that reaches Complete.
//
// An empty template set fails with NoTemplatesFound. In the default
// stop-on-first-failure mode the pass aborts on the first failed template
// and returns its error alongside the partial report; with
// WithContinueOnFailure the pass covers all templates and the report
// carries the per-template outcomes.
func (o *Orchestrator) SignAll(ids *IDRegistry, templates NodeSet, key ports.SigningKey) (*SigningReport, error) {
	if len(templates) == 0 {
		return nil, NoTemplatesFoundError()
	}

	if o.metrics != nil {
		o.metrics.RecordSigningPass(len(templates))
	}
	if o.logger != nil {
		o.logger.Info("signing pass started",
			zap.Int("templates", len(templates)),
			zap.String("key_name", key.Name()),
		)
	}

	resolver := NewReferenceResolver(ids, o.crypto, o.transforms)
	report := &SigningReport{}

	for i, sigEl := range templates {
		outcome := TemplateOutcome{Index: i}

		template, err := ParseTemplate(sigEl)
		if err == nil {
			engine := NewSignatureEngine(template, resolver, o.crypto, key, o.metrics, o.logger)
			err = engine.Run()
			outcome.State = engine.State()
		} else {
			outcome.State = StateFailed
		}
		outcome.Err = err

		if o.metrics != nil {
			o.metrics.RecordTemplateOutcome(err == nil, CodeOf(err).String())
		}

		report.Outcomes = append(report.Outcomes, outcome)
		if err != nil && !o.continueOnFailure {
			return report, err
		}
	}

	if o.logger != nil {
		o.logger.Info("signing pass finished",
			zap.Int("templates", len(templates)),
			zap.Int("failed", report.FailedCount()),
		)
	}
	return report, nil
}
