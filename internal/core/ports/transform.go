package ports

// TransformProvider is the port interface for opaque byte-level reference
// transforms (e.g. base64 decoding). Canonicalization and the enveloped
// signature transform are implemented natively by the engine; everything
// else is delegated to a provider registered under its algorithm URI.
type TransformProvider interface {
	// Algorithm returns the transform algorithm URI this provider handles.
	Algorithm() string

	// Apply consumes the previous stage's octets and returns the
	// transformed octets.
	Apply(data []byte) ([]byte, error)
}
