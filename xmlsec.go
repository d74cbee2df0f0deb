// Package xmlsec signs XML documents according to the XMLDSig template
// model: it discovers unsigned Signature templates in a parsed document,
// resolves their references, computes digests, canonicalizes SignedInfo,
// signs it with a supplied private key, and writes the computed values
// back in place.
//
// The package borrows the caller's document for the duration of one
// signing pass and mutates it in place; documents must not be shared
// across concurrent passes.
package xmlsec

import (
	"github.com/beevik/etree"

	cryptoadapter "github.com/aristanemi/xmlsec/internal/adapters/driven/crypto"
	transformadapter "github.com/aristanemi/xmlsec/internal/adapters/driven/transform"
	"github.com/aristanemi/xmlsec/internal/core/domain"
	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// Re-export core types for callers that only import the root package
type (
	NodeSet           = domain.NodeSet
	NamespaceBinding  = domain.NamespaceBinding
	NamespaceBindings = domain.NamespaceBindings
	CompiledQuery     = domain.CompiledQuery
	IDRegistry        = domain.IDRegistry
	Template          = domain.Template
	Reference         = domain.Reference
	TransformSpec     = domain.TransformSpec
	TransformRegistry = domain.TransformRegistry
	EngineState       = domain.EngineState
	SigningReport     = domain.SigningReport
	TemplateOutcome   = domain.TemplateOutcome
	Orchestrator      = domain.Orchestrator
	SigningKey        = ports.SigningKey
	CryptoProvider    = ports.CryptoProvider
	PrivateKey        = cryptoadapter.PrivateKey
)

// Re-export engine states
const (
	StateCreated                 = domain.StateCreated
	StateReferencesResolving     = domain.StateReferencesResolving
	StateReferencesResolved      = domain.StateReferencesResolved
	StateSignedInfoCanonicalized = domain.StateSignedInfoCanonicalized
	StateSigned                  = domain.StateSigned
	StateComplete                = domain.StateComplete
	StateFailed                  = domain.StateFailed
)

// Re-export core operations
var (
	ParseNamespaceBindings = domain.ParseNamespaceBindings
	CompileQuery           = domain.CompileQuery
	FindByQualifiedName    = domain.FindByQualifiedName
	FindAllByQualifiedName = domain.FindAllByQualifiedName
	FindTemplates          = domain.FindTemplates
	ParseTemplate          = domain.ParseTemplate
	NewIDRegistry          = domain.NewIDRegistry
	NewTransformRegistry   = domain.NewTransformRegistry
	NewOrchestrator        = domain.NewOrchestrator
	CanonicalizeSubtree    = domain.CanonicalizeSubtree
	CanonicalizeNodeSet    = domain.CanonicalizeNodeSet
	WithTransformRegistry  = domain.WithTransformRegistry
	WithMetrics            = domain.WithMetrics
	WithLogger             = domain.WithLogger
	WithContinueOnFailure  = domain.WithContinueOnFailure

	LoadPrivateKey  = cryptoadapter.LoadPrivateKey
	ParsePrivateKey = cryptoadapter.ParsePrivateKey
	NewPrivateKey   = cryptoadapter.NewPrivateKey
)

// NewCryptoProvider creates the default stdlib-backed crypto provider.
func NewCryptoProvider() CryptoProvider {
	return cryptoadapter.NewProvider()
}

// DefaultTransformRegistry creates a transform registry with the built-in
// opaque transform providers (base64 decoding) registered.
func DefaultTransformRegistry() *TransformRegistry {
	registry := domain.NewTransformRegistry()
	registry.Register(transformadapter.NewBase64Decoder())
	return registry
}

// SignDocument signs every template in an already-parsed document,
// mutating it in place per cfg. The returned report lists per-template
// outcomes in document order.
func SignDocument(doc *etree.Document, key SigningKey, cfg *Config, opts ...domain.OrchestratorOption) (*SigningReport, error) {
	bindings, err := domain.ParseNamespaceBindings(cfg.NamespaceBindings)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, domain.MalformedInputError("document has no root element", nil)
	}

	ids := domain.NewIDRegistry(doc)
	for _, idAttr := range cfg.IDAttributes {
		els, err := domain.FindAllByQualifiedName(root, idAttr.Element, idAttr.Namespace)
		if err != nil {
			return nil, err
		}
		if len(els) == 0 {
			return nil, domain.EvaluationError("no element matches id attribute declaration " + idAttr.Element)
		}
		for _, el := range els {
			if err := ids.Register(el, idAttr.Attribute); err != nil {
				return nil, err
			}
		}
	}

	templates, err := domain.FindTemplates(doc, bindings, cfg.TemplateQuery)
	if err != nil {
		return nil, err
	}

	orchestratorOpts := append([]domain.OrchestratorOption{
		WithTransformRegistry(DefaultTransformRegistry()),
		WithContinueOnFailure(cfg.ContinueOnFailure),
	}, opts...)

	orchestrator := domain.NewOrchestrator(NewCryptoProvider(), orchestratorOpts...)
	return orchestrator.SignAll(ids, templates, key)
}

// SignBytes parses data, signs it per cfg, and serializes the result.
// It is the byte-level convenience wrapper around SignDocument.
func SignBytes(data []byte, key SigningKey, cfg *Config, opts ...domain.OrchestratorOption) ([]byte, *SigningReport, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, nil, domain.MalformedInputError("cannot parse XML document", err)
	}

	report, err := SignDocument(doc, key, cfg, opts...)
	if err != nil {
		return nil, report, err
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, report, domain.MalformedInputError("cannot serialize signed document", err)
	}
	return out, report, nil
}
