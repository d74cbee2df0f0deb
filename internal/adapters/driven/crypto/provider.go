// Package crypto adapts the Go standard library's hash and asymmetric
// sign primitives to the engine's crypto provider port.
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"

	"github.com/aristanemi/xmlsec/internal/core/domain"
	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// Provider implements ports.CryptoProvider with stdlib RSA (PKCS#1 v1.5)
// and ECDSA signing and SHA-1/256/384/512 digests. Algorithm identifiers
// outside the registered set fail with UnsupportedAlgorithm.
type Provider struct{}

// NewProvider creates a stdlib-backed crypto provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Digest hashes data with the digest method named by algorithmURI.
func (p *Provider) Digest(algorithmURI string, data []byte) ([]byte, error) {
	hash, err := domain.DigestHash(algorithmURI)
	if err != nil {
		return nil, err
	}
	hasher := hash.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

// Sign hashes data with the signature method's hash and signs the digest
// with key. RSA keys produce PKCS#1 v1.5 signatures; ECDSA keys produce
// the XMLDSig raw r||s concatenation.
func (p *Provider) Sign(key ports.SigningKey, signatureMethodURI string, data []byte) ([]byte, error) {
	hash, err := domain.SignatureHash(signatureMethodURI)
	if err != nil {
		return nil, err
	}
	family, err := domain.SignatureKeyFamily(signatureMethodURI)
	if err != nil {
		return nil, err
	}

	pk, ok := key.(*PrivateKey)
	if !ok {
		return nil, domain.SigningFailedError(
			fmt.Sprintf("key handle %T was not produced by this provider", key), nil)
	}
	if pk.Algorithm() != family {
		return nil, domain.SigningFailedError(
			fmt.Sprintf("signature method %s requires a %s key, got %s",
				signatureMethodURI, family, pk.Algorithm()), nil)
	}

	hasher := hash.New()
	hasher.Write(data)
	digest := hasher.Sum(nil)

	switch signer := pk.Signer().(type) {
	case *rsa.PrivateKey:
		signature, err := rsa.SignPKCS1v15(rand.Reader, signer, hash, digest)
		if err != nil {
			return nil, domain.SigningFailedError("RSA sign failed", err)
		}
		return signature, nil

	case *ecdsa.PrivateKey:
		r, s, err := ecdsa.Sign(rand.Reader, signer, digest)
		if err != nil {
			return nil, domain.SigningFailedError("ECDSA sign failed", err)
		}
		// XMLDSig encodes ECDSA signatures as r||s, each padded to the
		// curve's byte size.
		size := (signer.Curve.Params().BitSize + 7) / 8
		signature := make([]byte, 2*size)
		r.FillBytes(signature[:size])
		s.FillBytes(signature[size:])
		return signature, nil

	default:
		return nil, domain.SigningFailedError(
			fmt.Sprintf("unsupported signer type %T", signer), nil)
	}
}

// Ensure implementations satisfy ports
var _ ports.CryptoProvider = (*Provider)(nil)
var _ ports.SigningKey = (*PrivateKey)(nil)
