package domain

import (
	"github.com/beevik/etree"
)

// Reference is the parsed view of one Reference element inside a
// signature template: the data it covers, how to transform it, how to
// digest it, and where the computed digest is written back.
type Reference struct {
	// URI names the covered data: "" for the whole document, "#id" for a
	// registered same-document identifier.
	URI string

	// Transforms is the ordered transform chain, possibly empty.
	Transforms []TransformSpec

	// DigestMethod is the digest algorithm URI.
	DigestMethod string

	el            *etree.Element
	digestValueEl *etree.Element
}

// Template is a view over a Signature element conforming to the expected
// template shape. Templates are discovered, never constructed, by the
// engine; ParseTemplate validates the shape and exposes the slots that
// signing fills in.
type Template struct {
	sig              *etree.Element
	signedInfo       *etree.Element
	c14nMethod       string
	c14nPrefixList   string
	signatureMethod  string
	references       []*Reference
	signatureValueEl *etree.Element
	keyNameEl        *etree.Element
}

// ParseTemplate validates sig as a signature template and returns its
// parsed view. Structural violations (missing SignedInfo, methods,
// references or value slots) fail with MalformedInput; missing Algorithm
// attributes fail with MissingAttribute.
func ParseTemplate(sig *etree.Element) (*Template, error) {
	if sig == nil || sig.Tag != SignatureTag || sig.NamespaceURI() != DSigNamespace {
		return nil, MalformedInputError("template root is not a dsig Signature element", nil)
	}

	t := &Template{sig: sig}

	t.signedInfo = childDSig(sig, SignedInfoTag)
	if t.signedInfo == nil {
		return nil, MalformedInputError("template has no SignedInfo element", nil)
	}

	c14n := childDSig(t.signedInfo, CanonicalizationMethodTag)
	if c14n == nil {
		return nil, MalformedInputError("SignedInfo has no CanonicalizationMethod element", nil)
	}
	t.c14nMethod = c14n.SelectAttrValue(AlgorithmAttr, "")
	if t.c14nMethod == "" {
		return nil, MissingAttributeError(AlgorithmAttr)
	}
	t.c14nPrefixList = inclusivePrefixList(c14n)

	sigMethod := childDSig(t.signedInfo, SignatureMethodTag)
	if sigMethod == nil {
		return nil, MalformedInputError("SignedInfo has no SignatureMethod element", nil)
	}
	t.signatureMethod = sigMethod.SelectAttrValue(AlgorithmAttr, "")
	if t.signatureMethod == "" {
		return nil, MissingAttributeError(AlgorithmAttr)
	}

	for _, refEl := range childrenDSig(t.signedInfo, ReferenceTag) {
		ref, err := parseReference(refEl)
		if err != nil {
			return nil, err
		}
		t.references = append(t.references, ref)
	}
	if len(t.references) == 0 {
		return nil, MalformedInputError("SignedInfo has no Reference elements", nil)
	}

	t.signatureValueEl = childDSig(sig, SignatureValueTag)
	if t.signatureValueEl == nil {
		return nil, MalformedInputError("template has no SignatureValue element", nil)
	}

	if keyInfo := childDSig(sig, KeyInfoTag); keyInfo != nil {
		t.keyNameEl = childDSig(keyInfo, KeyNameTag)
	}

	return t, nil
}

// parseReference parses one Reference element.
func parseReference(refEl *etree.Element) (*Reference, error) {
	ref := &Reference{
		el:  refEl,
		URI: refEl.SelectAttrValue(URIAttr, ""),
	}

	if transforms := childDSig(refEl, TransformsTag); transforms != nil {
		for _, transformEl := range childrenDSig(transforms, TransformTag) {
			algorithm := transformEl.SelectAttrValue(AlgorithmAttr, "")
			if algorithm == "" {
				return nil, MissingAttributeError(AlgorithmAttr)
			}
			ref.Transforms = append(ref.Transforms, TransformSpec{
				Algorithm:  algorithm,
				PrefixList: inclusivePrefixList(transformEl),
			})
		}
	}

	digestMethod := childDSig(refEl, DigestMethodTag)
	if digestMethod == nil {
		return nil, MalformedInputError("Reference has no DigestMethod element", nil)
	}
	ref.DigestMethod = digestMethod.SelectAttrValue(AlgorithmAttr, "")
	if ref.DigestMethod == "" {
		return nil, MissingAttributeError(AlgorithmAttr)
	}

	ref.digestValueEl = childDSig(refEl, DigestValueTag)
	if ref.digestValueEl == nil {
		return nil, MalformedInputError("Reference has no DigestValue element", nil)
	}

	return ref, nil
}

// Element returns the underlying Signature element.
func (t *Template) Element() *etree.Element {
	return t.sig
}

// SignedInfo returns the SignedInfo element.
func (t *Template) SignedInfo() *etree.Element {
	return t.signedInfo
}

// CanonicalizationMethod returns the declared SignedInfo canonicalization
// algorithm URI.
func (t *Template) CanonicalizationMethod() string {
	return t.c14nMethod
}

// SignatureMethod returns the declared signature algorithm URI.
func (t *Template) SignatureMethod() string {
	return t.signatureMethod
}

// References returns the parsed references in document order.
func (t *Template) References() []*Reference {
	return t.references
}

// childDSig returns the first direct child of el with the given local
// name in the dsig namespace, or nil.
func childDSig(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag && child.NamespaceURI() == DSigNamespace {
			return child
		}
	}
	return nil
}

// childrenDSig returns all direct children of el with the given local
// name in the dsig namespace, in document order.
func childrenDSig(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag && child.NamespaceURI() == DSigNamespace {
			out = append(out, child)
		}
	}
	return out
}

// inclusivePrefixList reads the PrefixList of an InclusiveNamespaces
// child (exclusive canonicalization parameter), or "".
func inclusivePrefixList(el *etree.Element) string {
	for _, child := range el.ChildElements() {
		if child.Tag == InclusiveNamespacesTag && child.NamespaceURI() == AlgorithmExcC14N {
			return child.SelectAttrValue(PrefixListAttr, "")
		}
	}
	return ""
}
