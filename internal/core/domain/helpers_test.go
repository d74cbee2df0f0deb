//go:build unit

package domain

import (
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"testing"

	"github.com/beevik/etree"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// testKey is a stub signing key handle.
type testKey struct {
	family string
	name   string
}

func (k testKey) Algorithm() string { return k.family }
func (k testKey) Name() string      { return k.name }

// testCryptoProvider implements the crypto port on a fixed RSA key. It
// keeps domain tests free of the adapter package.
type testCryptoProvider struct {
	key *rsa.PrivateKey
}

// newTestCryptoProvider generates a small throwaway RSA key.
func newTestCryptoProvider(t *testing.T) *testCryptoProvider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return &testCryptoProvider{key: key}
}

func (p *testCryptoProvider) Digest(algorithmURI string, data []byte) ([]byte, error) {
	hash, err := DigestHash(algorithmURI)
	if err != nil {
		return nil, err
	}
	hasher := hash.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

func (p *testCryptoProvider) Sign(key ports.SigningKey, signatureMethodURI string, data []byte) ([]byte, error) {
	hash, err := SignatureHash(signatureMethodURI)
	if err != nil {
		return nil, err
	}
	hasher := hash.New()
	hasher.Write(data)
	return rsa.SignPKCS1v15(rand.Reader, p.key, hash, hasher.Sum(nil))
}

// verify checks an engine-produced signature against the test key.
func (p *testCryptoProvider) verify(hash stdcrypto.Hash, signed, signature []byte) error {
	hasher := hash.New()
	hasher.Write(signed)
	return rsa.VerifyPKCS1v15(&p.key.PublicKey, hash, hasher.Sum(nil), signature)
}

// parseDoc parses an XML string into a document, failing the test on error.
func parseDoc(t *testing.T, xml string) *etree.Document {
	t.Helper()

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return doc
}

// mustFind returns the first element matching the qualified name under the
// document root, failing the test if absent.
func mustFind(t *testing.T, doc *etree.Document, localName, namespaceURI string) *etree.Element {
	t.Helper()

	el, err := FindByQualifiedName(doc.Root(), localName, namespaceURI)
	if err != nil {
		t.Fatalf("FindByQualifiedName(%s, %s) returned error: %v", localName, namespaceURI, err)
	}
	if el == nil {
		t.Fatalf("FindByQualifiedName(%s, %s) found nothing", localName, namespaceURI)
	}
	return el
}

// wantCode fails the test unless err carries the given error code.
func wantCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if !IsCode(err, code) {
		t.Fatalf("expected error code %s, got %s (%v)", code, CodeOf(err), err)
	}
}
