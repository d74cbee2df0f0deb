//go:build unit

package domain

import (
	"bytes"
	"testing"
)

func TestCanonicalizeSubtree_UnsupportedAlgorithm(t *testing.T) {
	doc := parseDoc(t, `<Root/>`)

	_, err := CanonicalizeSubtree(doc.Root(), "urn:not-a-c14n-algorithm")
	wantCode(t, err, ErrCodeUnsupportedAlgorithm)
}

func TestCanonicalizeSubtree_TrivialDocument(t *testing.T) {
	// A namespace-free, attribute-free subtree canonicalizes to its own
	// serialization under every supported algorithm.
	const input = `<Root><Child>value</Child></Root>`

	for _, algorithm := range []string{
		AlgorithmExcC14N,
		AlgorithmExcC14NWithComments,
		AlgorithmC14N10,
		AlgorithmC14N10WithComments,
		AlgorithmC14N11,
		AlgorithmC14N11WithComments,
	} {
		t.Run(algorithm, func(t *testing.T) {
			doc := parseDoc(t, input)
			out, err := CanonicalizeSubtree(doc.Root(), algorithm)
			if err != nil {
				t.Fatalf("CanonicalizeSubtree() returned error: %v", err)
			}
			if string(out) != input {
				t.Errorf("canonical form = %q, want %q", out, input)
			}
		})
	}
}

func TestCanonicalizeSubtree_Idempotent(t *testing.T) {
	// canonicalize(parse(canonicalize(X))) == canonicalize(X)
	inputs := []string{
		`<Root attr="v"><Child>value</Child><Empty/></Root>`,
		`<e:Root xmlns:e="urn:envelope"><e:Child a="1" b="2">x</e:Child></e:Root>`,
		`<Root xmlns="urn:default"><Child>x&amp;y</Child></Root>`,
	}

	for _, algorithm := range []string{AlgorithmExcC14N, AlgorithmC14N10, AlgorithmC14N11} {
		for _, input := range inputs {
			doc := parseDoc(t, input)
			first, err := CanonicalizeSubtree(doc.Root(), algorithm)
			if err != nil {
				t.Fatalf("first canonicalization of %q failed: %v", input, err)
			}

			redoc := parseDoc(t, string(first))
			second, err := CanonicalizeSubtree(redoc.Root(), algorithm)
			if err != nil {
				t.Fatalf("second canonicalization of %q failed: %v", input, err)
			}

			if !bytes.Equal(first, second) {
				t.Errorf("algorithm %s not idempotent for %q:\nfirst  %q\nsecond %q",
					algorithm, input, first, second)
			}
		}
	}
}

func TestCanonicalizeSubtree_Invariance(t *testing.T) {
	// Structurally equivalent inputs differing in superficial syntax must
	// produce byte-identical canonical output.
	testCases := []struct {
		name string
		a, b string
	}{
		{
			name: "attribute order",
			a:    `<Root b="2" a="1"><Child/></Root>`,
			b:    `<Root a="1" b="2"><Child/></Root>`,
		},
		{
			name: "whitespace inside tags",
			a:    `<Root a="1"  ><Child /></Root>`,
			b:    `<Root a="1"><Child/></Root>`,
		},
		{
			name: "entity versus literal",
			a:    `<Root><Child>a&#x26;b</Child></Root>`,
			b:    `<Root><Child>a&amp;b</Child></Root>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, algorithm := range []string{AlgorithmExcC14N, AlgorithmC14N10} {
				docA := parseDoc(t, tc.a)
				docB := parseDoc(t, tc.b)

				outA, err := CanonicalizeSubtree(docA.Root(), algorithm)
				if err != nil {
					t.Fatalf("canonicalize a: %v", err)
				}
				outB, err := CanonicalizeSubtree(docB.Root(), algorithm)
				if err != nil {
					t.Fatalf("canonicalize b: %v", err)
				}
				if !bytes.Equal(outA, outB) {
					t.Errorf("algorithm %s: %q != %q", algorithm, outA, outB)
				}
			}
		})
	}
}

func TestCanonicalizeSubtree_InheritedNamespace(t *testing.T) {
	// A subtree whose namespace is declared on an ancestor must carry the
	// declaration into its canonical form.
	doc := parseDoc(t, `<e:Root xmlns:e="urn:envelope"><e:Inner><e:Leaf>x</e:Leaf></e:Inner></e:Root>`)
	inner := mustFind(t, doc, "Inner", "urn:envelope")

	out, err := CanonicalizeSubtree(inner, AlgorithmExcC14N)
	if err != nil {
		t.Fatalf("CanonicalizeSubtree() returned error: %v", err)
	}
	if !bytes.Contains(out, []byte(`xmlns:e="urn:envelope"`)) {
		t.Errorf("canonical form %q is missing the inherited namespace declaration", out)
	}

	// The source document must be untouched: Inner still has no local
	// namespace declaration of its own.
	if inner.SelectAttr("xmlns:e") != nil {
		t.Error("canonicalization mutated the source document")
	}
}

func TestCanonicalizeNodeSet(t *testing.T) {
	doc := parseDoc(t, `<Root><A>1</A><B>2</B></Root>`)
	a := mustFind(t, doc, "A", "")
	b := mustFind(t, doc, "B", "")

	out, err := CanonicalizeNodeSet(NodeSet{a, b}, AlgorithmExcC14N)
	if err != nil {
		t.Fatalf("CanonicalizeNodeSet() returned error: %v", err)
	}
	if string(out) != `<A>1</A><B>2</B>` {
		t.Errorf("CanonicalizeNodeSet() = %q", out)
	}
}

func TestCanonicalizeNodeSet_NestedSelectionCollapses(t *testing.T) {
	// A selected element nested under another selected element must not
	// be serialized twice.
	doc := parseDoc(t, `<Root><A><B>2</B></A></Root>`)
	a := mustFind(t, doc, "A", "")
	b := mustFind(t, doc, "B", "")

	out, err := CanonicalizeNodeSet(NodeSet{a, b}, AlgorithmExcC14N)
	if err != nil {
		t.Fatalf("CanonicalizeNodeSet() returned error: %v", err)
	}
	if string(out) != `<A><B>2</B></A>` {
		t.Errorf("CanonicalizeNodeSet() = %q", out)
	}
}

func TestCanonicalizeNodeSet_UnsupportedAlgorithm(t *testing.T) {
	doc := parseDoc(t, `<Root/>`)

	_, err := CanonicalizeNodeSet(NodeSet{doc.Root()}, "urn:bogus")
	wantCode(t, err, ErrCodeUnsupportedAlgorithm)
}
