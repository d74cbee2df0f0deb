package domain

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/russellhaering/goxmldsig/etreeutils"
)

// NodeSet is an ordered sequence of elements in document order without
// duplicates, as produced by query evaluation.
type NodeSet []*etree.Element

// NamespaceBinding binds a query prefix to a namespace URI.
type NamespaceBinding struct {
	Prefix string
	URI    string
}

// NamespaceBindings is an ordered prefix-binding list.
type NamespaceBindings []NamespaceBinding

// ParseNamespaceBindings parses a whitespace-separated list of
// "prefix=uri" pairs, e.g. "ds=http://www.w3.org/2000/09/xmldsig#".
// Pairs without an "=" or with an empty prefix or URI fail with
// InvalidNamespaceBinding. An empty list is valid.
func ParseNamespaceBindings(list string) (NamespaceBindings, error) {
	var bindings NamespaceBindings
	for _, pair := range strings.Fields(list) {
		prefix, uri, ok := strings.Cut(pair, "=")
		if !ok || prefix == "" || uri == "" {
			return nil, InvalidNamespaceBindingError(pair)
		}
		bindings = append(bindings, NamespaceBinding{Prefix: prefix, URI: uri})
	}
	return bindings, nil
}

// lookup returns the URI bound to prefix. Later bindings shadow earlier
// ones, matching XPath context registration order.
func (b NamespaceBindings) lookup(prefix string) (string, bool) {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Prefix == prefix {
			return b[i].URI, true
		}
	}
	return "", false
}

// queryStep is one location step of a compiled query.
type queryStep struct {
	descendant bool   // preceded by "//" rather than "/"
	nsURI      string // resolved namespace URI; "" means no namespace
	local      string // local name, or "*" for any
	anyNS      bool   // "*" name test without prefix matches any namespace
}

// CompiledQuery is a compiled node-set selection expression.
//
// The supported grammar is the namespace-qualified subset needed for
// template discovery: absolute paths of child ("/") and descendant ("//")
// steps, each step a "prefix:local", "local", "prefix:*" or "*" name test.
// Prefixes must be bound at compile time.
type CompiledQuery struct {
	expr  string
	steps []queryStep
}

// String returns the source expression.
func (q *CompiledQuery) String() string {
	return q.expr
}

// CompileQuery compiles expr against the given prefix bindings. Unknown
// prefixes and grammar violations fail with InvalidExpression.
func CompileQuery(bindings NamespaceBindings, expr string) (*CompiledQuery, error) {
	if expr == "" {
		return nil, InvalidExpressionError(expr, "empty expression")
	}
	if !strings.HasPrefix(expr, "/") {
		return nil, InvalidExpressionError(expr, "only absolute paths are supported")
	}

	q := &CompiledQuery{expr: expr}
	rest := expr
	for rest != "" {
		step := queryStep{}
		if strings.HasPrefix(rest, "//") {
			step.descendant = true
			rest = rest[2:]
		} else {
			rest = rest[1:]
		}

		name, remainder, _ := strings.Cut(rest, "/")
		if remainder != "" || strings.HasSuffix(rest, "/") {
			rest = rest[len(name):]
		} else {
			rest = ""
		}
		if name == "" {
			return nil, InvalidExpressionError(expr, "empty location step")
		}

		prefix, local, qualified := strings.Cut(name, ":")
		if qualified {
			if local == "" {
				return nil, InvalidExpressionError(expr, "empty local name in step "+name)
			}
			uri, ok := bindings.lookup(prefix)
			if !ok {
				return nil, InvalidExpressionError(expr, "unbound namespace prefix "+prefix)
			}
			step.nsURI = uri
			step.local = local
		} else {
			step.local = name
			step.anyNS = name == "*"
		}

		q.steps = append(q.steps, step)
	}

	return q, nil
}

// Evaluate runs the query against doc and returns the matching elements
// in document order, without duplicates. A document with no root element
// fails with EvaluationError.
func (q *CompiledQuery) Evaluate(doc *etree.Document) (NodeSet, error) {
	root := doc.Root()
	if root == nil {
		return nil, EvaluationError("document has no root element")
	}

	// Context starts at the document node; the root element is its only
	// element child.
	contexts := []*etree.Element{nil}
	for _, step := range q.steps {
		seen := make(map[*etree.Element]bool)
		var next []*etree.Element
		for _, ctx := range contexts {
			for _, el := range stepCandidates(root, ctx, step.descendant) {
				if !step.matches(el) || seen[el] {
					continue
				}
				seen[el] = true
				next = append(next, el)
			}
		}
		contexts = next
		if len(contexts) == 0 {
			break
		}
	}

	sortDocumentOrder(doc, contexts)
	return NodeSet(contexts), nil
}

// matches reports whether el satisfies the step's name test.
func (s queryStep) matches(el *etree.Element) bool {
	if s.local != "*" && el.Tag != s.local {
		return false
	}
	if s.anyNS {
		return true
	}
	return el.NamespaceURI() == s.nsURI
}

// stepCandidates returns the elements reachable from ctx by one child or
// descendant step. A nil ctx means the document node.
func stepCandidates(root, ctx *etree.Element, descendant bool) []*etree.Element {
	if ctx == nil {
		if !descendant {
			return []*etree.Element{root}
		}
		return collectDescendants(root, true)
	}
	if !descendant {
		return ctx.ChildElements()
	}
	return collectDescendants(ctx, false)
}

// collectDescendants gathers descendants of el in document order,
// optionally including el itself.
func collectDescendants(el *etree.Element, includeSelf bool) []*etree.Element {
	var out []*etree.Element
	if includeSelf {
		out = append(out, el)
	}
	for _, child := range el.ChildElements() {
		out = append(out, collectDescendants(child, true)...)
	}
	return out
}

// sortDocumentOrder sorts els in place by their position in doc.
func sortDocumentOrder(doc *etree.Document, els []*etree.Element) {
	if len(els) < 2 {
		return
	}
	pos := make(map[*etree.Element]int)
	if root := doc.Root(); root != nil {
		for i, el := range collectDescendants(root, true) {
			pos[el] = i
		}
	}
	sort.SliceStable(els, func(i, j int) bool {
		return pos[els[i]] < pos[els[j]]
	})
}

// FindByQualifiedName performs an anchored depth-first, document-order
// search from root for the first element with the given local name and
// namespace URI. It returns nil if no element matches.
func FindByQualifiedName(root *etree.Element, localName, namespaceURI string) (*etree.Element, error) {
	el, err := etreeutils.NSFindOne(root, namespaceURI, localName)
	if err != nil {
		return nil, EvaluationError("qualified-name search failed: " + err.Error())
	}
	return el, nil
}

// FindAllByQualifiedName collects every element under root (including
// root itself) matching the given local name and namespace URI, in
// document order.
func FindAllByQualifiedName(root *etree.Element, localName, namespaceURI string) (NodeSet, error) {
	var out NodeSet
	err := etreeutils.NSFindIterate(root, namespaceURI, localName, func(_ etreeutils.NSContext, el *etree.Element) error {
		out = append(out, el)
		return nil
	})
	if err != nil {
		return nil, EvaluationError("qualified-name search failed: " + err.Error())
	}
	return out, nil
}
