// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package domxml is the XML tree collaborator the core drives through a
// small interface (spec.md §6): iterate element children, read an
// attribute, read/set text content, serialize a subtree, replace a node
// (or its children, or a raw byte fragment), and register an ID-typed
// attribute with the owning document. The xmlenc package never imports
// an XML library directly; it only sees Node/Document.
package domxml

import "io"

// Node is a weak, lifetime-bounded handle into a caller-owned XML tree.
// Nothing on this side frees or outlives the document that produced it.
type Node interface {
	// Tag is the local (unprefixed) element name.
	Tag() string
	// NamespaceURI resolves the element's namespace through in-scope
	// xmlns declarations, not through its literal prefix.
	NamespaceURI() string
	// Attr returns an attribute's value and whether it was present.
	Attr(name string) (string, bool)
	// Text returns the concatenated character data of the node.
	Text() string
	// SetTextBytes replaces the node's text content with an explicit
	// byte range (may contain arbitrary bytes once Base64-decoded
	// upstream; the DOM layer stores it as the node's sole text child).
	SetTextBytes(data []byte)
	// ChildElements returns the direct element children, in document
	// order, skipping text/comment/processing-instruction siblings.
	ChildElements() []Node
	// Parent returns the enclosing element, or nil at the document root.
	Parent() Node
	// Serialize writes the subtree rooted at this node to w without
	// adding indentation. Empty elements are written self-closing,
	// attribute values double-quoted, and namespace declarations made on
	// ancestors are not repeated.
	Serialize(w io.Writer) error
	// ReplaceWith substitutes this node, in its parent, with n.
	ReplaceWith(n Node) error
	// ReplaceChildrenWith removes this node's children and makes n its
	// sole child (n is moved out of its previous parent, if any).
	ReplaceChildrenWith(n Node) error
	// ReplaceWithBytes reparses data as an XML fragment in the context
	// of this node's parent and substitutes it for this node. Used for
	// decrypt-in-place, which — mirroring the observed xmlsec behavior —
	// always replaces the node itself, never only its children; see the
	// EncContent decrypt open question in SPEC_FULL.md §Open Questions.
	ReplaceWithBytes(data []byte) error
}

// Document owns the XML tree that Nodes are borrowed from.
type Document interface {
	// Root returns the document element.
	Root() Node
	// AddID registers node's named attributes as ID-typed, so that
	// ResolveID can look intra-document "#id" references up. The
	// transform package's URI input does not consult this index.
	AddID(node Node, attrNames []string)
	// ResolveID looks up a previously registered ID-typed attribute
	// value, returning the node it was registered on.
	ResolveID(id string) (Node, bool)
}
