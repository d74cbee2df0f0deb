package domain

import "crypto"

// XML Digital Signature namespace and element names.
const (
	DSigNamespace = "http://www.w3.org/2000/09/xmldsig#"
	DSigPrefix    = "ds"

	SignatureTag              = "Signature"
	SignedInfoTag             = "SignedInfo"
	CanonicalizationMethodTag = "CanonicalizationMethod"
	SignatureMethodTag        = "SignatureMethod"
	ReferenceTag              = "Reference"
	TransformsTag             = "Transforms"
	TransformTag              = "Transform"
	DigestMethodTag           = "DigestMethod"
	DigestValueTag            = "DigestValue"
	SignatureValueTag         = "SignatureValue"
	KeyInfoTag                = "KeyInfo"
	KeyNameTag                = "KeyName"
	InclusiveNamespacesTag    = "InclusiveNamespaces"

	AlgorithmAttr  = "Algorithm"
	URIAttr        = "URI"
	PrefixListAttr = "PrefixList"
)

// Canonicalization algorithm identifiers.
const (
	AlgorithmExcC14N             = "http://www.w3.org/2001/10/xml-exc-c14n#"
	AlgorithmExcC14NWithComments = "http://www.w3.org/2001/10/xml-exc-c14n#WithComments"
	AlgorithmC14N10              = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgorithmC14N10WithComments  = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315#WithComments"
	AlgorithmC14N11              = "http://www.w3.org/2006/12/xml-c14n11"
	AlgorithmC14N11WithComments  = "http://www.w3.org/2006/12/xml-c14n11#WithComments"
)

// Transform algorithm identifiers implemented natively by the engine.
const (
	AlgorithmEnvelopedSignature = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	AlgorithmBase64             = "http://www.w3.org/2000/09/xmldsig#base64"
)

// Digest algorithm identifiers.
const (
	AlgorithmSHA1   = "http://www.w3.org/2000/09/xmldsig#sha1"
	AlgorithmSHA256 = "http://www.w3.org/2001/04/xmlenc#sha256"
	AlgorithmSHA384 = "http://www.w3.org/2001/04/xmldsig-more#sha384"
	AlgorithmSHA512 = "http://www.w3.org/2001/04/xmlenc#sha512"
)

// Signature method identifiers.
const (
	AlgorithmRSASHA1     = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgorithmRSASHA256   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgorithmRSASHA384   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha384"
	AlgorithmRSASHA512   = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha512"
	AlgorithmECDSASHA256 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha256"
	AlgorithmECDSASHA384 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha384"
	AlgorithmECDSASHA512 = "http://www.w3.org/2001/04/xmldsig-more#ecdsa-sha512"
)

// digestHashes maps digest method identifiers to Go hash functions.
var digestHashes = map[string]crypto.Hash{
	AlgorithmSHA1:   crypto.SHA1,
	AlgorithmSHA256: crypto.SHA256,
	AlgorithmSHA384: crypto.SHA384,
	AlgorithmSHA512: crypto.SHA512,
}

// signatureHashes maps signature method identifiers to the hash function
// applied before the asymmetric sign operation.
var signatureHashes = map[string]crypto.Hash{
	AlgorithmRSASHA1:     crypto.SHA1,
	AlgorithmRSASHA256:   crypto.SHA256,
	AlgorithmRSASHA384:   crypto.SHA384,
	AlgorithmRSASHA512:   crypto.SHA512,
	AlgorithmECDSASHA256: crypto.SHA256,
	AlgorithmECDSASHA384: crypto.SHA384,
	AlgorithmECDSASHA512: crypto.SHA512,
}

// signatureKeyFamilies maps signature method identifiers to the key
// algorithm family they require.
var signatureKeyFamilies = map[string]string{
	AlgorithmRSASHA1:     "RSA",
	AlgorithmRSASHA256:   "RSA",
	AlgorithmRSASHA384:   "RSA",
	AlgorithmRSASHA512:   "RSA",
	AlgorithmECDSASHA256: "ECDSA",
	AlgorithmECDSASHA384: "ECDSA",
	AlgorithmECDSASHA512: "ECDSA",
}

// DigestHash returns the hash function for a digest method identifier.
func DigestHash(uri string) (crypto.Hash, error) {
	h, ok := digestHashes[uri]
	if !ok {
		return 0, UnsupportedAlgorithmError(uri)
	}
	return h, nil
}

// SignatureHash returns the hash function for a signature method identifier.
func SignatureHash(uri string) (crypto.Hash, error) {
	h, ok := signatureHashes[uri]
	if !ok {
		return 0, UnsupportedAlgorithmError(uri)
	}
	return h, nil
}

// SignatureKeyFamily returns the key algorithm family ("RSA", "ECDSA")
// required by a signature method identifier.
func SignatureKeyFamily(uri string) (string, error) {
	f, ok := signatureKeyFamilies[uri]
	if !ok {
		return "", UnsupportedAlgorithmError(uri)
	}
	return f, nil
}
