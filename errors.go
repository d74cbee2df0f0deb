package xmlsec

import (
	"github.com/aristanemi/xmlsec/internal/core/domain"
)

// Re-export error types from domain package for callers that only import
// the root package
type ErrorCode = domain.ErrorCode
type AppError = domain.AppError

// Re-export error code constants
const (
	ErrCodeMissingAttribute           = domain.ErrCodeMissingAttribute
	ErrCodeDuplicateIdentifier        = domain.ErrCodeDuplicateIdentifier
	ErrCodeInvalidNamespaceBinding    = domain.ErrCodeInvalidNamespaceBinding
	ErrCodeInvalidExpression          = domain.ErrCodeInvalidExpression
	ErrCodeEvaluationError            = domain.ErrCodeEvaluationError
	ErrCodeUnsupportedAlgorithm       = domain.ErrCodeUnsupportedAlgorithm
	ErrCodeMalformedInput             = domain.ErrCodeMalformedInput
	ErrCodeUnknownTransform           = domain.ErrCodeUnknownTransform
	ErrCodeTransformChainEmpty        = domain.ErrCodeTransformChainEmpty
	ErrCodeReferenceNotFound          = domain.ErrCodeReferenceNotFound
	ErrCodeUnsupportedReferenceScheme = domain.ErrCodeUnsupportedReferenceScheme
	ErrCodeSigningFailed              = domain.ErrCodeSigningFailed
	ErrCodeNoTemplatesFound           = domain.ErrCodeNoTemplatesFound
)

// Re-export error helpers
var (
	IsCode = domain.IsCode
	CodeOf = domain.CodeOf
)
