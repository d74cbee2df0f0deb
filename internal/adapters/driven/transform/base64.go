// Package transform provides opaque byte-transform adapters for the
// engine's transform provider port.
package transform

import (
	"encoding/base64"
	"fmt"

	"github.com/aristanemi/xmlsec/internal/core/domain"
	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// Base64Decoder implements the dsig base64 decoding transform. It strips
// XML whitespace before decoding, as the transform operates on the text
// content of elements.
type Base64Decoder struct{}

// NewBase64Decoder creates a base64 decoding transform provider.
func NewBase64Decoder() *Base64Decoder {
	return &Base64Decoder{}
}

// Algorithm returns the dsig base64 transform URI.
func (d *Base64Decoder) Algorithm() string {
	return domain.AlgorithmBase64
}

// Apply decodes base64 octets.
func (d *Base64Decoder) Apply(data []byte) ([]byte, error) {
	stripped := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		stripped = append(stripped, b)
	}

	out := make([]byte, base64.StdEncoding.DecodedLen(len(stripped)))
	n, err := base64.StdEncoding.Decode(out, stripped)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return out[:n], nil
}

// Ensure Base64Decoder implements ports.TransformProvider
var _ ports.TransformProvider = (*Base64Decoder)(nil)
