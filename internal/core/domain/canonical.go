package domain

import (
	"bytes"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/russellhaering/goxmldsig/etreeutils"
)

// newCanonicalizer maps a canonicalization algorithm identifier to a
// goxmldsig canonicalizer. The exclusive variants honor an
// InclusiveNamespaces prefix list; the inclusive variants ignore it.
func newCanonicalizer(algorithmURI, prefixList string) (dsig.Canonicalizer, error) {
	switch algorithmURI {
	case AlgorithmExcC14N:
		return dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList(prefixList), nil
	case AlgorithmExcC14NWithComments:
		return dsig.MakeC14N10ExclusiveWithCommentsCanonicalizerWithPrefixList(prefixList), nil
	case AlgorithmC14N10:
		return dsig.MakeC14N10RecCanonicalizer(), nil
	case AlgorithmC14N10WithComments:
		return dsig.MakeC14N10WithCommentsCanonicalizer(), nil
	case AlgorithmC14N11:
		return dsig.MakeC14N11Canonicalizer(), nil
	case AlgorithmC14N11WithComments:
		return dsig.MakeC14N11WithCommentsCanonicalizer(), nil
	default:
		return nil, UnsupportedAlgorithmError(algorithmURI)
	}
}

// IsCanonicalizationAlgorithm reports whether uri names a supported
// canonicalization algorithm.
func IsCanonicalizationAlgorithm(uri string) bool {
	_, err := newCanonicalizer(uri, "")
	return err == nil
}

// detachSubtree copies el into a standalone element carrying all
// namespace declarations that were in scope at its original position.
// The source document is left untouched.
func detachSubtree(el *etree.Element) (*etree.Element, error) {
	ctx, err := etreeutils.NSBuildParentContext(el)
	if err != nil {
		return nil, MalformedInputError("cannot resolve in-scope namespaces", err)
	}
	ctx, err = ctx.SubContext(el)
	if err != nil {
		return nil, MalformedInputError("cannot resolve in-scope namespaces", err)
	}
	detached, err := etreeutils.NSDetatch(ctx, el)
	if err != nil {
		return nil, MalformedInputError("cannot detach subtree", err)
	}
	return detached, nil
}

// CanonicalizeSubtree produces the canonical byte serialization of the
// subtree rooted at el, per the named algorithm. Namespace declarations
// inherited from ancestors outside the subtree are preserved.
func CanonicalizeSubtree(el *etree.Element, algorithmURI string) ([]byte, error) {
	return canonicalizeSubtreeWithPrefixList(el, algorithmURI, "")
}

func canonicalizeSubtreeWithPrefixList(el *etree.Element, algorithmURI, prefixList string) ([]byte, error) {
	canonicalizer, err := newCanonicalizer(algorithmURI, prefixList)
	if err != nil {
		return nil, err
	}

	detached, err := detachSubtree(el)
	if err != nil {
		return nil, err
	}

	out, err := canonicalizer.Canonicalize(detached)
	if err != nil {
		return nil, MalformedInputError("canonicalization failed", err)
	}
	return out, nil
}

// canonicalizeDetached canonicalizes an already-detached element.
func canonicalizeDetached(el *etree.Element, algorithmURI, prefixList string) ([]byte, error) {
	canonicalizer, err := newCanonicalizer(algorithmURI, prefixList)
	if err != nil {
		return nil, err
	}
	out, err := canonicalizer.Canonicalize(el)
	if err != nil {
		return nil, MalformedInputError("canonicalization failed", err)
	}
	return out, nil
}

// CanonicalizeNodeSet canonicalizes a possibly-discontiguous node-set.
//
// The set is reduced to its outermost subtree roots (a selected element
// nested under another selected element contributes nothing on its own),
// ordered by document position, and each subtree is canonicalized with
// its inherited namespace context. The per-subtree serializations are
// concatenated.
func CanonicalizeNodeSet(set NodeSet, algorithmURI string) ([]byte, error) {
	if _, err := newCanonicalizer(algorithmURI, ""); err != nil {
		return nil, err
	}

	roots := outermostRoots(set)
	var buf bytes.Buffer
	for _, el := range roots {
		out, err := canonicalizeSubtreeWithPrefixList(el, algorithmURI, "")
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// outermostRoots filters set down to elements that have no ancestor also
// in the set, preserving the set's order.
func outermostRoots(set NodeSet) NodeSet {
	members := make(map[*etree.Element]bool, len(set))
	for _, el := range set {
		members[el] = true
	}

	var roots NodeSet
	for _, el := range set {
		nested := false
		for p := el.Parent(); p != nil; p = p.Parent() {
			if members[p] {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, el)
		}
	}
	return roots
}
