package domain

import (
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// EngineState is the processing state of one signature template.
type EngineState int

const (
	StateCreated EngineState = iota
	StateReferencesResolving
	StateReferencesResolved
	StateSignedInfoCanonicalized
	StateSigned
	StateComplete
	StateFailed
)

// String returns the state name.
func (s EngineState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateReferencesResolving:
		return "references_resolving"
	case StateReferencesResolved:
		return "references_resolved"
	case StateSignedInfoCanonicalized:
		return "signed_info_canonicalized"
	case StateSigned:
		return "signed"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SignatureEngine drives one signature template to completion:
//
//	Created → ReferencesResolving → ReferencesResolved →
//	SignedInfoCanonicalized → Signed → Complete
//
// with a terminal Failed state reachable from any non-terminal state.
// Any failure is terminal for the engine instance; there are no retries.
//
// Write-back ordering follows the digest-then-sign invariant: every
// reference digest is computed before any DigestValue is written, all
// DigestValues are written before SignedInfo is canonicalized, and
// SignatureValue is written only after the sign operation succeeds.
type SignatureEngine struct {
	template *Template
	resolver *ReferenceResolver
	crypto   ports.CryptoProvider
	key      ports.SigningKey
	metrics  ports.MetricsRecorder
	logger   *zap.Logger

	state EngineState
	err   error
}

// NewSignatureEngine creates an engine bound to one template and one key.
// metrics and logger may be nil.
func NewSignatureEngine(template *Template, resolver *ReferenceResolver, crypto ports.CryptoProvider, key ports.SigningKey, metrics ports.MetricsRecorder, logger *zap.Logger) *SignatureEngine {
	return &SignatureEngine{
		template: template,
		resolver: resolver,
		crypto:   crypto,
		key:      key,
		metrics:  metrics,
		logger:   logger,
		state:    StateCreated,
	}
}

// State returns the engine's current state.
func (e *SignatureEngine) State() EngineState {
	return e.state
}

// Err returns the failure that moved the engine to Failed, or nil.
func (e *SignatureEngine) Err() error {
	return e.err
}

// Run drives the template to Complete or Failed and returns the failure,
// if any. Run is single-shot; running a finished engine fails.
func (e *SignatureEngine) Run() error {
	if e.state != StateCreated {
		return SigningFailedError("engine has already run", nil)
	}

	// Resolve every reference before touching the document. Resolution is
	// pure, so an abort here leaves no partial digests behind.
	e.state = StateReferencesResolving
	refs := e.template.References()
	digests := make([]string, len(refs))
	for i, ref := range refs {
		digest, err := e.resolver.Resolve(ref, e.template.Element())
		if e.metrics != nil {
			e.metrics.RecordReferenceResolved(err == nil)
		}
		if err != nil {
			return e.fail(err)
		}
		digests[i] = digest
	}
	e.state = StateReferencesResolved

	// Digest write-back must precede SignedInfo canonicalization: the
	// DigestValue text is part of the signed bytes.
	for i, ref := range refs {
		ref.digestValueEl.SetText(digests[i])
	}

	canonical, err := canonicalizeSubtreeWithPrefixList(
		e.template.SignedInfo(),
		e.template.CanonicalizationMethod(),
		e.template.c14nPrefixList,
	)
	if err != nil {
		return e.fail(err)
	}
	e.state = StateSignedInfoCanonicalized

	signature, err := e.crypto.Sign(e.key, e.template.SignatureMethod(), canonical)
	if err != nil {
		if CodeOf(err) == "" {
			err = SigningFailedError("sign operation failed", err)
		}
		return e.fail(err)
	}
	e.state = StateSigned

	e.template.signatureValueEl.SetText(base64.StdEncoding.EncodeToString(signature))
	if e.template.keyNameEl != nil && e.key.Name() != "" {
		e.template.keyNameEl.SetText(e.key.Name())
	}
	e.state = StateComplete

	if e.logger != nil {
		e.logger.Info("signature template signed",
			zap.String("signature_method", e.template.SignatureMethod()),
			zap.String("canonicalization_method", e.template.CanonicalizationMethod()),
			zap.Int("references", len(refs)),
			zap.String("key_name", e.key.Name()),
		)
	}
	return nil
}

// fail moves the engine to the terminal Failed state.
func (e *SignatureEngine) fail(err error) error {
	e.state = StateFailed
	e.err = err
	if e.logger != nil {
		e.logger.Warn("signature template failed",
			zap.String("error_code", CodeOf(err).String()),
			zap.Error(err),
		)
	}
	return err
}
