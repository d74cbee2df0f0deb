//go:build unit

package xmlsec

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

const signedEnvelopeDoc = `<Envelope xmlns="urn:envelope">
  <Data id="data1">Hello, World!</Data>
  <Signature xmlns="http://www.w3.org/2000/09/xmldsig#">
    <SignedInfo>
      <CanonicalizationMethod Algorithm="http://www.w3.org/2001/10/xml-exc-c14n#"/>
      <SignatureMethod Algorithm="http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"/>
      <Reference URI="#data1">
        <Transforms>
          <Transform Algorithm="http://www.w3.org/2001/10/xml-exc-c14n#"/>
        </Transforms>
        <DigestMethod Algorithm="http://www.w3.org/2001/04/xmlenc#sha256"/>
        <DigestValue/>
      </Reference>
    </SignedInfo>
    <SignatureValue/>
    <KeyInfo>
      <KeyName/>
    </KeyInfo>
  </Signature>
</Envelope>`

func testSigningKey(t *testing.T, name string) *PrivateKey {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	key, err := NewPrivateKey(rsaKey, name)
	if err != nil {
		t.Fatalf("NewPrivateKey() returned error: %v", err)
	}
	return key
}

func TestSignBytes(t *testing.T) {
	key := testSigningKey(t, "envelope-key")
	cfg := &Config{
		KeyName: "envelope-key",
		IDAttributes: []IDAttribute{
			{Element: "Data", Namespace: "urn:envelope", Attribute: "id"},
		},
	}

	out, report, err := SignBytes([]byte(signedEnvelopeDoc), key, cfg)
	if err != nil {
		t.Fatalf("SignBytes() returned error: %v", err)
	}
	if !report.AllComplete() {
		t.Fatalf("report not complete: %+v", report.Outcomes)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("report has %d outcomes, want 1", len(report.Outcomes))
	}

	signed := etree.NewDocument()
	if err := signed.ReadFromBytes(out); err != nil {
		t.Fatalf("signed output does not parse: %v", err)
	}

	// The written digest must match an independent SHA-256 over the
	// canonical Data subtree of the signed output.
	data, err := FindByQualifiedName(signed.Root(), "Data", "urn:envelope")
	if err != nil || data == nil {
		t.Fatalf("Data element not found in output: %v", err)
	}
	canonical, err := CanonicalizeSubtree(data, "http://www.w3.org/2001/10/xml-exc-c14n#")
	if err != nil {
		t.Fatalf("CanonicalizeSubtree() returned error: %v", err)
	}
	sum := sha256.Sum256(canonical)
	wantDigest := base64.StdEncoding.EncodeToString(sum[:])

	digestEl, err := FindByQualifiedName(signed.Root(), "DigestValue", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || digestEl == nil {
		t.Fatalf("DigestValue not found in output: %v", err)
	}
	if digestEl.Text() != wantDigest {
		t.Errorf("DigestValue = %q, want %q", digestEl.Text(), wantDigest)
	}

	sigValueEl, err := FindByQualifiedName(signed.Root(), "SignatureValue", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || sigValueEl == nil {
		t.Fatalf("SignatureValue not found in output: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(sigValueEl.Text()); err != nil {
		t.Errorf("SignatureValue is not valid base64: %v", err)
	}
	if sigValueEl.Text() == "" {
		t.Error("SignatureValue is empty")
	}

	keyNameEl, err := FindByQualifiedName(signed.Root(), "KeyName", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || keyNameEl == nil {
		t.Fatalf("KeyName not found in output: %v", err)
	}
	if keyNameEl.Text() != "envelope-key" {
		t.Errorf("KeyName = %q, want envelope-key", keyNameEl.Text())
	}
}

func TestSignBytes_MalformedXML(t *testing.T) {
	key := testSigningKey(t, "")

	_, _, err := SignBytes([]byte("<unclosed"), key, &Config{})
	if !IsCode(err, ErrCodeMalformedInput) {
		t.Errorf("SignBytes() error = %v, want malformed input", err)
	}
}

func TestSignDocument_NoTemplates(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<Envelope xmlns="urn:envelope"/>`); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	key := testSigningKey(t, "")

	_, err := SignDocument(doc, key, &Config{})
	if !IsCode(err, ErrCodeNoTemplatesFound) {
		t.Errorf("SignDocument() error = %v, want no templates found", err)
	}
}

func TestSignDocument_IDAttributeWithoutMatch(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(signedEnvelopeDoc); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	key := testSigningKey(t, "")
	cfg := &Config{
		IDAttributes: []IDAttribute{
			{Element: "Absent", Namespace: "urn:envelope", Attribute: "id"},
		},
	}

	_, err := SignDocument(doc, key, cfg)
	if !IsCode(err, ErrCodeEvaluationError) {
		t.Errorf("SignDocument() error = %v, want evaluation error", err)
	}
}

func TestSignDocument_QueryDiscovery(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(signedEnvelopeDoc); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	key := testSigningKey(t, "")
	cfg := &Config{
		NamespaceBindings: "ds=http://www.w3.org/2000/09/xmldsig#",
		TemplateQuery:     "//ds:Signature",
		IDAttributes: []IDAttribute{
			{Element: "Data", Namespace: "urn:envelope", Attribute: "id"},
		},
	}

	report, err := SignDocument(doc, key, cfg)
	if err != nil {
		t.Fatalf("SignDocument() returned error: %v", err)
	}
	if !report.AllComplete() {
		t.Fatalf("report not complete: %+v", report.Outcomes)
	}
}

func TestSignBytes_UnboundQueryPrefix(t *testing.T) {
	key := testSigningKey(t, "")
	cfg := &Config{TemplateQuery: "//ds:Signature"}

	_, _, err := SignBytes([]byte(signedEnvelopeDoc), key, cfg)
	if !IsCode(err, ErrCodeInvalidExpression) {
		t.Errorf("SignBytes() error = %v, want invalid expression", err)
	}
}

func TestSignDocument_EnvelopedTemplateFile(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile("testdata/template.xml"); err != nil {
		t.Fatalf("failed to read template fixture: %v", err)
	}
	key := testSigningKey(t, "fixture-key")

	report, err := SignDocument(doc, key, &Config{})
	if err != nil {
		t.Fatalf("SignDocument() returned error: %v", err)
	}
	if !report.AllComplete() {
		t.Fatalf("report not complete: %+v", report.Outcomes)
	}

	// The digest covers the document with the signature removed, per the
	// enveloped signature transform.
	plain := etree.NewDocument()
	if err := plain.ReadFromFile("testdata/template.xml"); err != nil {
		t.Fatalf("failed to re-read template fixture: %v", err)
	}
	plainSig, err := FindByQualifiedName(plain.Root(), "Signature", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || plainSig == nil {
		t.Fatalf("Signature not found in fixture: %v", err)
	}
	plainSig.Parent().RemoveChild(plainSig)
	canonical, err := CanonicalizeSubtree(plain.Root(), "http://www.w3.org/2001/10/xml-exc-c14n#")
	if err != nil {
		t.Fatalf("CanonicalizeSubtree() returned error: %v", err)
	}
	sum := sha256.Sum256(canonical)
	wantDigest := base64.StdEncoding.EncodeToString(sum[:])

	digestEl, err := FindByQualifiedName(doc.Root(), "DigestValue", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || digestEl == nil {
		t.Fatalf("DigestValue not found: %v", err)
	}
	if digestEl.Text() != wantDigest {
		t.Errorf("DigestValue = %q, want %q", digestEl.Text(), wantDigest)
	}

	// The signature verifies against the key's public half over the
	// canonical SignedInfo bytes.
	signedInfo, err := FindByQualifiedName(doc.Root(), "SignedInfo", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || signedInfo == nil {
		t.Fatalf("SignedInfo not found: %v", err)
	}
	signedInfoCanonical, err := CanonicalizeSubtree(signedInfo, "http://www.w3.org/2001/10/xml-exc-c14n#")
	if err != nil {
		t.Fatalf("CanonicalizeSubtree(SignedInfo) returned error: %v", err)
	}
	sigValueEl, err := FindByQualifiedName(doc.Root(), "SignatureValue", "http://www.w3.org/2000/09/xmldsig#")
	if err != nil || sigValueEl == nil {
		t.Fatalf("SignatureValue not found: %v", err)
	}
	signature, err := base64.StdEncoding.DecodeString(sigValueEl.Text())
	if err != nil {
		t.Fatalf("SignatureValue is not valid base64: %v", err)
	}
	signedInfoSum := sha256.Sum256(signedInfoCanonical)
	pub := key.Signer().Public().(*rsa.PublicKey)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, signedInfoSum[:], signature); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestSignBytes_OutputParsesBack(t *testing.T) {
	key := testSigningKey(t, "")
	cfg := &Config{
		IDAttributes: []IDAttribute{
			{Element: "Data", Namespace: "urn:envelope", Attribute: "id"},
		},
	}

	out, _, err := SignBytes([]byte(signedEnvelopeDoc), key, cfg)
	if err != nil {
		t.Fatalf("SignBytes() returned error: %v", err)
	}
	if !strings.Contains(string(out), "urn:envelope") {
		t.Error("output lost the envelope namespace declaration")
	}
}
