package ports

// SigningKey is an opaque private key handle produced by a key-loading
// adapter. The engine never inspects key material; it only consults the
// declared algorithm family and the optional human-readable name.
type SigningKey interface {
	// Algorithm returns the key algorithm family, e.g. "RSA" or "ECDSA".
	Algorithm() string

	// Name returns an optional human-readable key name, or "".
	Name() string
}

// CryptoProvider is the port interface for cryptographic primitives.
// This is a port interface - implementations are adapters.
//
// Algorithm identifiers are the XMLDSig URIs; an unregistered identifier
// must yield a typed unsupported-algorithm error, never a fallback.
type CryptoProvider interface {
	// Digest hashes data with the digest method named by algorithmURI.
	Digest(algorithmURI string, data []byte) ([]byte, error)

	// Sign signs data with the given key using the signature method named
	// by signatureMethodURI. The provider hashes data itself.
	Sign(key SigningKey, signatureMethodURI string, data []byte) ([]byte, error)
}
