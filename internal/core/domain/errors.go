package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents categorized error types.
// These codes are stable and can be used for programmatic error handling.
type ErrorCode string

const (
	ErrCodeMissingAttribute           ErrorCode = "missing_attribute"
	ErrCodeDuplicateIdentifier        ErrorCode = "duplicate_identifier"
	ErrCodeInvalidNamespaceBinding    ErrorCode = "invalid_namespace_binding"
	ErrCodeInvalidExpression          ErrorCode = "invalid_expression"
	ErrCodeEvaluationError            ErrorCode = "evaluation_error"
	ErrCodeUnsupportedAlgorithm       ErrorCode = "unsupported_algorithm"
	ErrCodeMalformedInput             ErrorCode = "malformed_input"
	ErrCodeUnknownTransform           ErrorCode = "unknown_transform"
	ErrCodeTransformChainEmpty        ErrorCode = "transform_chain_empty"
	ErrCodeReferenceNotFound          ErrorCode = "reference_not_found"
	ErrCodeUnsupportedReferenceScheme ErrorCode = "unsupported_reference_scheme"
	ErrCodeSigningFailed              ErrorCode = "signing_failed"
	ErrCodeNoTemplatesFound           ErrorCode = "no_templates_found"
)

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is a structured error with code, message, and optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err (or any error it wraps) is an AppError
// carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the error code of err, or the empty code if err does not
// wrap an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MissingAttributeError creates a missing attribute error.
func MissingAttributeError(attrName string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingAttribute,
		Message: fmt.Sprintf("attribute %q is absent or has no value", attrName),
	}
}

// DuplicateIdentifierError creates a duplicate identifier error.
func DuplicateIdentifierError(id string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateIdentifier,
		Message: fmt.Sprintf("identifier %q is already registered to a different attribute", id),
	}
}

// InvalidNamespaceBindingError creates an invalid namespace binding error.
func InvalidNamespaceBindingError(pair string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidNamespaceBinding,
		Message: fmt.Sprintf("malformed namespace binding %q, expected prefix=uri", pair),
	}
}

// InvalidExpressionError creates an invalid expression error.
func InvalidExpressionError(expr, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidExpression,
		Message: fmt.Sprintf("cannot compile expression %q: %s", expr, reason),
	}
}

// EvaluationError creates a query evaluation error.
func EvaluationError(message string) *AppError {
	return &AppError{Code: ErrCodeEvaluationError, Message: message}
}

// UnsupportedAlgorithmError creates an unsupported algorithm error.
func UnsupportedAlgorithmError(uri string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedAlgorithm,
		Message: fmt.Sprintf("algorithm %q is not registered", uri),
	}
}

// MalformedInputError creates a malformed input error with optional cause.
func MalformedInputError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeMalformedInput, Message: message, Cause: cause}
}

// UnknownTransformError creates an unknown transform error.
func UnknownTransformError(uri string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownTransform,
		Message: fmt.Sprintf("no transform provider registered for %q", uri),
	}
}

// TransformChainEmptyError creates a transform chain output-type error.
func TransformChainEmptyError(uri string) *AppError {
	return &AppError{
		Code:    ErrCodeTransformChainEmpty,
		Message: fmt.Sprintf("transform chain for reference %q did not produce octets; digesting requires a byte sequence", uri),
	}
}

// ReferenceNotFoundError creates a reference not found error.
func ReferenceNotFoundError(id string) *AppError {
	return &AppError{
		Code:    ErrCodeReferenceNotFound,
		Message: fmt.Sprintf("no identifier %q registered in this document", id),
	}
}

// UnsupportedReferenceSchemeError creates an unsupported reference scheme error.
func UnsupportedReferenceSchemeError(uri string) *AppError {
	return &AppError{
		Code:    ErrCodeUnsupportedReferenceScheme,
		Message: fmt.Sprintf("reference URI %q is not a same-document reference; external retrieval is not supported", uri),
	}
}

// SigningFailedError creates a signing error with optional cause.
func SigningFailedError(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeSigningFailed, Message: message, Cause: cause}
}

// NoTemplatesFoundError creates a no templates found error.
func NoTemplatesFoundError() *AppError {
	return &AppError{
		Code:    ErrCodeNoTemplatesFound,
		Message: "no signature templates found in document",
	}
}
