package domain

import (
	"github.com/beevik/etree"

	"github.com/aristanemi/xmlsec/internal/core/ports"
)

// TransformSpec describes one step of a reference's transform chain, as
// declared by a Transform element.
type TransformSpec struct {
	// Algorithm is the transform algorithm URI.
	Algorithm string

	// PrefixList carries the InclusiveNamespaces PrefixList parameter for
	// exclusive canonicalization steps; empty otherwise.
	PrefixList string
}

// TransformRegistry holds the opaque byte-transform providers available
// to reference resolution, keyed by algorithm URI. Canonicalization and
// the enveloped-signature transform are built in and need no provider.
type TransformRegistry struct {
	providers map[string]ports.TransformProvider
}

// NewTransformRegistry creates an empty registry.
func NewTransformRegistry() *TransformRegistry {
	return &TransformRegistry{providers: make(map[string]ports.TransformProvider)}
}

// Register adds a provider, replacing any previous provider registered
// for the same algorithm URI.
func (r *TransformRegistry) Register(p ports.TransformProvider) {
	r.providers[p.Algorithm()] = p
}

// provider looks up the provider for an algorithm URI.
func (r *TransformRegistry) provider(uri string) (ports.TransformProvider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.providers[uri]
	return p, ok
}

// transformData is the typed value flowing through a transform chain:
// either a live node-set (here always a single detached subtree) or a
// byte sequence.
type transformData struct {
	node     *etree.Element
	bytes    []byte
	isOctets bool
}

// applyTransformChain resolves a reference target into digestible octets.
//
// The target subtree is detached with its inherited namespace context
// before any step runs, so resolution never mutates the source document.
// sig identifies the Signature element being processed; the enveloped
// signature transform removes its copy from the working subtree. refURI
// is used for error reporting only.
//
// The chain must end in octets: a chain that leaves a live node-set
// (including an empty chain) fails with TransformChainEmpty.
func applyTransformChain(target, sig *etree.Element, specs []TransformSpec, registry *TransformRegistry, refURI string) ([]byte, error) {
	// The path must be computed against the live tree; pointer identity
	// does not survive detaching.
	sigPath, sigInTarget := elementPath(target, sig)

	detached, err := detachSubtree(target)
	if err != nil {
		return nil, err
	}

	data := transformData{node: detached}
	for _, spec := range specs {
		switch {
		case spec.Algorithm == AlgorithmEnvelopedSignature:
			if data.isOctets {
				return nil, MalformedInputError("enveloped signature transform requires a node-set, got octets", nil)
			}
			if !sigInTarget {
				break
			}
			if len(sigPath) == 0 {
				return nil, MalformedInputError("enveloped signature transform would remove the entire node-set", nil)
			}
			removeAtPath(data.node, sigPath)

		case IsCanonicalizationAlgorithm(spec.Algorithm):
			if data.isOctets {
				return nil, MalformedInputError("canonicalization requires a node-set, got octets", nil)
			}
			out, err := canonicalizeDetached(data.node, spec.Algorithm, spec.PrefixList)
			if err != nil {
				return nil, err
			}
			data = transformData{bytes: out, isOctets: true}

		default:
			p, ok := registry.provider(spec.Algorithm)
			if !ok {
				return nil, UnknownTransformError(spec.Algorithm)
			}
			if !data.isOctets {
				return nil, MalformedInputError("transform "+spec.Algorithm+" requires octet input", nil)
			}
			out, err := p.Apply(data.bytes)
			if err != nil {
				return nil, MalformedInputError("transform "+spec.Algorithm+" failed", err)
			}
			data = transformData{bytes: out, isOctets: true}
		}
	}

	if !data.isOctets {
		return nil, TransformChainEmptyError(refURI)
	}
	return data.bytes, nil
}

// elementPath returns el's position under ancestor as a chain of
// child-element indexes. The second return is false when el is not in
// ancestor's subtree; an empty path means el == ancestor.
func elementPath(ancestor, el *etree.Element) ([]int, bool) {
	if el == nil {
		return nil, false
	}
	var reversed []int
	for cur := el; cur != ancestor; {
		parent := cur.Parent()
		if parent == nil {
			return nil, false
		}
		idx := -1
		for i, child := range parent.ChildElements() {
			if child == cur {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		reversed = append(reversed, idx)
		cur = parent
	}

	path := make([]int, len(reversed))
	for i, idx := range reversed {
		path[len(reversed)-1-i] = idx
	}
	return path, true
}

// removeAtPath removes the element addressed by path from root's copy.
// The detached copy mirrors the live tree's element structure, so index
// paths carry over.
func removeAtPath(root *etree.Element, path []int) {
	cur := root
	for i, idx := range path {
		children := cur.ChildElements()
		if idx >= len(children) {
			return
		}
		if i == len(path)-1 {
			cur.RemoveChild(children[idx])
			return
		}
		cur = children[idx]
	}
}
