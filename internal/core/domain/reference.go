package domain

import (
	"encoding/base64"
	"strings"

	"github.com/beevik/etree"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// ReferenceResolver turns Reference declarations into digest values.
// Resolution is pure: it never writes into the document, so a failed
// resolution leaves no trace and can safely be retried by a caller.
type ReferenceResolver struct {
	ids        *IDRegistry
	crypto     ports.CryptoProvider
	transforms *TransformRegistry
}

// NewReferenceResolver creates a resolver over the given identifier
// registry (which binds it to one document), crypto provider, and
// transform registry.
func NewReferenceResolver(ids *IDRegistry, crypto ports.CryptoProvider, transforms *TransformRegistry) *ReferenceResolver {
	return &ReferenceResolver{
		ids:        ids,
		crypto:     crypto,
		transforms: transforms,
	}
}

// Resolve computes the base64-encoded digest for ref.
//
// sig is the Signature element the reference belongs to; the enveloped
// signature transform removes it from the covered subtree. URI
// interpretation: "" covers the whole document, "#id" covers the subtree
// registered for id (ReferenceNotFound if unregistered), and any other
// scheme fails with UnsupportedReferenceScheme.
func (r *ReferenceResolver) Resolve(ref *Reference, sig *etree.Element) (string, error) {
	target, err := r.resolveTarget(ref.URI)
	if err != nil {
		return "", err
	}

	data, err := applyTransformChain(target, sig, ref.Transforms, r.transforms, ref.URI)
	if err != nil {
		return "", err
	}

	digest, err := r.crypto.Digest(ref.DigestMethod, data)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(digest), nil
}

// resolveTarget maps a reference URI to the element whose subtree the
// reference covers.
func (r *ReferenceResolver) resolveTarget(uri string) (*etree.Element, error) {
	switch {
	case uri == "":
		root := r.ids.Document().Root()
		if root == nil {
			return nil, MalformedInputError("document has no root element", nil)
		}
		return root, nil

	case strings.HasPrefix(uri, "#"):
		id := strings.TrimPrefix(uri, "#")
		el := r.ids.Resolve(id)
		if el == nil {
			return nil, ReferenceNotFoundError(id)
		}
		return el, nil

	default:
		return nil, UnsupportedReferenceSchemeError(uri)
	}
}
