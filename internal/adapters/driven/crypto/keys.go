package crypto

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// PrivateKey is the opaque signing key handle handed to the engine. It
// wraps a standard library signer together with an optional
// human-readable name (written into KeyInfo/KeyName slots).
type PrivateKey struct {
	signer stdcrypto.Signer
	name   string
}

// NewPrivateKey wraps an in-memory signer. Only RSA and ECDSA keys are
// supported.
func NewPrivateKey(signer stdcrypto.Signer, name string) (*PrivateKey, error) {
	switch signer.(type) {
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return &PrivateKey{signer: signer, name: name}, nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T", signer)
	}
}

// Algorithm returns the key algorithm family.
func (k *PrivateKey) Algorithm() string {
	switch k.signer.(type) {
	case *rsa.PrivateKey:
		return "RSA"
	case *ecdsa.PrivateKey:
		return "ECDSA"
	default:
		return "unknown"
	}
}

// Name returns the optional human-readable key name.
func (k *PrivateKey) Name() string {
	return k.name
}

// Signer exposes the underlying standard library signer.
func (k *PrivateKey) Signer() stdcrypto.Signer {
	return k.signer
}

// LoadPrivateKey loads a PEM-encoded private key from a file.
// PKCS#8, PKCS#1 and SEC1 EC encodings are supported.
func LoadPrivateKey(path, name string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return ParsePrivateKey(data, name)
}

// ParsePrivateKey parses a PEM-encoded private key. The first private key
// block wins; certificate blocks are skipped.
func ParsePrivateKey(pemData []byte, name string) (*PrivateKey, error) {
	for {
		block, rest := pem.Decode(pemData)
		if block == nil {
			break
		}
		pemData = rest

		var (
			parsed any
			err    error
		)
		switch block.Type {
		case "PRIVATE KEY":
			parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		case "RSA PRIVATE KEY":
			parsed, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			parsed, err = x509.ParseECPrivateKey(block.Bytes)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}

		signer, ok := parsed.(stdcrypto.Signer)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type %T", parsed)
		}
		return NewPrivateKey(signer, name)
	}

	return nil, fmt.Errorf("no private key found in PEM input")
}
