package domain

import (
	"github.com/beevik/etree"
)

// registeredID records which attribute declared an identifier and the
// element carrying that attribute.
type registeredID struct {
	attr *etree.Attr
	el   *etree.Element
}

// IDRegistry is a per-document mapping from identifier value to the
// attribute that declared it. It replaces DTD/schema ID typing for
// same-document "#fragment" reference resolution: callers explicitly
// register the attributes that act as identifiers.
//
// An IDRegistry is bound to a single document and is not safe for
// concurrent use, matching the single-writer ownership of the document
// itself.
type IDRegistry struct {
	doc *etree.Document
	ids map[string]registeredID
}

// NewIDRegistry creates an empty registry bound to doc.
func NewIDRegistry(doc *etree.Document) *IDRegistry {
	return &IDRegistry{
		doc: doc,
		ids: make(map[string]registeredID),
	}
}

// Document returns the document this registry is bound to.
func (r *IDRegistry) Document() *etree.Document {
	return r.doc
}

// Register reads the attribute named attrLocalName off el and registers
// its value as an identifier for el.
//
// Registering the same attribute twice is a no-op. Registering a value
// already owned by a different attribute fails with DuplicateIdentifier;
// a missing or empty attribute fails with MissingAttribute.
func (r *IDRegistry) Register(el *etree.Element, attrLocalName string) error {
	attr := el.SelectAttr(attrLocalName)
	if attr == nil || attr.Value == "" {
		return MissingAttributeError(attrLocalName)
	}

	if existing, ok := r.ids[attr.Value]; ok {
		if existing.attr == attr {
			return nil
		}
		return DuplicateIdentifierError(attr.Value)
	}

	r.ids[attr.Value] = registeredID{attr: attr, el: el}
	return nil
}

// Resolve returns the element owning the attribute registered for id,
// or nil if the identifier is unregistered.
func (r *IDRegistry) Resolve(id string) *etree.Element {
	entry, ok := r.ids[id]
	if !ok {
		return nil
	}
	return entry.el
}

// Len returns the number of registered identifiers.
func (r *IDRegistry) Len() int {
	return len(r.ids)
}
