// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package domxml

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// etreeDoc is the Document implementation backed by beevik/etree, the
// DOM-style XML library used the same way by other_examples' goxmldsig
// (sign.go) and virtengine encryption.go.
type etreeDoc struct {
	doc *etree.Document
	ids map[string]*etree.Element
}

// NewDocument wraps an already-parsed etree.Document.
func NewDocument(doc *etree.Document) Document {
	return &etreeDoc{doc: doc, ids: make(map[string]*etree.Element)}
}

// ReadDocument parses an XML document from r into a Document.
func ReadDocument(r io.Reader) (Document, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("domxml: parse document: %w", err)
	}
	return NewDocument(doc), nil
}

func (d *etreeDoc) Root() Node {
	if d.doc.Root() == nil {
		return nil
	}
	return &etreeNode{el: d.doc.Root(), doc: d}
}

func (d *etreeDoc) AddID(node Node, attrNames []string) {
	en, ok := node.(*etreeNode)
	if !ok {
		return
	}
	for _, name := range attrNames {
		if v, ok := en.Attr(name); ok && v != "" {
			d.ids[v] = en.el
		}
	}
}

func (d *etreeDoc) ResolveID(id string) (Node, bool) {
	el, ok := d.ids[id]
	if !ok {
		return nil, false
	}
	return &etreeNode{el: el, doc: d}, true
}

// etreeNode is the Node implementation wrapping a single *etree.Element.
type etreeNode struct {
	el  *etree.Element
	doc *etreeDoc
}

// WrapElement exposes an *etree.Element as a Node for callers that
// build templates directly with etree before handing them to the
// xmlenc core.
func WrapElement(doc Document, el *etree.Element) Node {
	ed, _ := doc.(*etreeDoc)
	return &etreeNode{el: el, doc: ed}
}

// Element returns the underlying *etree.Element for callers that need to
// keep building on the tree with etree directly (e.g. CreateElement).
func Element(n Node) *etree.Element {
	en, ok := n.(*etreeNode)
	if !ok {
		return nil
	}
	return en.el
}

func (n *etreeNode) Tag() string { return n.el.Tag }

func (n *etreeNode) NamespaceURI() string { return n.el.NamespaceURI() }

func (n *etreeNode) Attr(name string) (string, bool) {
	a := n.el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func (n *etreeNode) Text() string { return n.el.Text() }

func (n *etreeNode) SetTextBytes(data []byte) {
	n.el.SetText(string(data))
}

func (n *etreeNode) ChildElements() []Node {
	children := n.el.ChildElements()
	out := make([]Node, len(children))
	for i, c := range children {
		out[i] = &etreeNode{el: c, doc: n.doc}
	}
	return out
}

func (n *etreeNode) Parent() Node {
	p := n.el.Parent()
	if p == nil {
		return nil
	}
	return &etreeNode{el: p, doc: n.doc}
}

func (n *etreeNode) Serialize(w io.Writer) error {
	return serializeElement(w, n.el)
}

func (n *etreeNode) ReplaceWith(other Node) error {
	o, ok := other.(*etreeNode)
	if !ok {
		return fmt.Errorf("domxml: ReplaceWith requires an etree-backed node")
	}
	parent := n.el.Parent()
	if parent == nil {
		return fmt.Errorf("domxml: cannot replace the document root")
	}
	idx := tokenIndex(parent, n.el)
	if idx < 0 {
		return fmt.Errorf("domxml: node not found among its parent's children")
	}
	if p := o.el.Parent(); p != nil {
		p.RemoveChild(o.el)
	}
	parent.RemoveChild(n.el)
	parent.InsertChildAt(idx, o.el)
	return nil
}

func (n *etreeNode) ReplaceChildrenWith(other Node) error {
	o, ok := other.(*etreeNode)
	if !ok {
		return fmt.Errorf("domxml: ReplaceChildrenWith requires an etree-backed node")
	}
	if p := o.el.Parent(); p != nil {
		p.RemoveChild(o.el)
	}
	n.el.Child = nil
	n.el.AddChild(o.el)
	return nil
}

func (n *etreeNode) ReplaceWithBytes(data []byte) error {
	parent := n.el.Parent()
	if parent == nil {
		return fmt.Errorf("domxml: cannot replace the document root")
	}
	idx := tokenIndex(parent, n.el)
	if idx < 0 {
		return fmt.Errorf("domxml: node not found among its parent's children")
	}
	tokens, err := parseFragment(data)
	if err != nil {
		return fmt.Errorf("domxml: reparse fragment: %w", err)
	}
	parent.RemoveChild(n.el)
	for i, t := range tokens {
		parent.InsertChildAt(idx+i, t)
	}
	return nil
}

// tokenIndex locates el's position among parent's children.
func tokenIndex(parent *etree.Element, el *etree.Element) int {
	for i, t := range parent.Child {
		if t == etree.Token(el) {
			return i
		}
	}
	return -1
}

// fragmentWrapperTag is a synthetic element used only to give a
// well-formed root to otherwise-rootless decrypted fragments (plain
// text, multiple sibling elements, or a mix of both).
const fragmentWrapperTag = "xmlenc-fragment-wrapper"

func parseFragment(data []byte) ([]etree.Token, error) {
	wrapped := make([]byte, 0, len(data)+2*len(fragmentWrapperTag)+6)
	wrapped = append(wrapped, []byte("<"+fragmentWrapperTag+">")...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, []byte("</"+fragmentWrapperTag+">")...)

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(wrapped); err != nil {
		return nil, err
	}
	root := doc.Root()
	tokens := make([]etree.Token, len(root.Child))
	copy(tokens, root.Child)
	return tokens, nil
}

func serializeElement(w io.Writer, e *etree.Element) error {
	tag := qualifiedName(e.Space, e.Tag)
	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	for _, a := range e.Attr {
		name := qualifiedName(a.Space, a.Key)
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	if len(e.Child) == 0 {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if err := serializeTokens(w, e.Child); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+tag+">")
	return err
}

func serializeTokens(w io.Writer, tokens []etree.Token) error {
	for _, t := range tokens {
		if err := serializeToken(w, t); err != nil {
			return err
		}
	}
	return nil
}

func serializeToken(w io.Writer, t etree.Token) error {
	switch v := t.(type) {
	case *etree.Element:
		return serializeElement(w, v)
	case *etree.CharData:
		_, err := io.WriteString(w, escapeText(v.Data))
		return err
	case *etree.Comment:
		_, err := fmt.Fprintf(w, "<!--%s-->", v.Data)
		return err
	case *etree.Directive:
		_, err := fmt.Fprintf(w, "<!%s>", v.Data)
		return err
	case *etree.ProcInst:
		_, err := fmt.Fprintf(w, "<?%s %s?>", v.Target, v.Inst)
		return err
	default:
		return nil
	}
}

func qualifiedName(space, local string) string {
	if space == "" {
		return local
	}
	return space + ":" + local
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

func escapeText(s string) string { return textEscaper.Replace(s) }
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
