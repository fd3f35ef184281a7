// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc

import (
	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

// readTemplate is the Template Reader (C1). It walks node's attributes
// and direct element children in strict document order, records the
// weak references C2/C6 need, and leaves the pipeline with its
// encryption-method stage wired (direction set, key bound) and, for an
// encrypt operation writing into CipherValue, its trailing Base64
// stage appended.
func (c *Context) readTemplate(node domxml.Node) error {
	c.id, _ = node.Attr(AttrID)
	c.typ, _ = node.Attr(AttrType)
	c.mimeType, _ = node.Attr(AttrMimeType)
	c.encoding, _ = node.Attr(AttrEncoding)
	if c.mode == ModeEncryptedKey {
		c.recipient, _ = node.Attr(AttrRecipient)
	}

	children := node.ChildElements()
	idx := 0
	next := func() domxml.Node {
		if idx >= len(children) {
			return nil
		}
		n := children[idx]
		idx++
		return n
	}
	peek := func() domxml.Node {
		if idx >= len(children) {
			return nil
		}
		return children[idx]
	}

	if n := peek(); n != nil && n.Tag() == ElemEncryptionMethod && n.NamespaceURI() == NsEnc {
		c.encMethodNode = n
		next()
	}

	if n := peek(); n != nil && n.Tag() == ElemKeyInfo && n.NamespaceURI() == NsDSig {
		c.keyInfoNode = n
		next()
	}

	cipherData := next()
	if cipherData == nil || cipherData.Tag() != ElemCipherData || cipherData.NamespaceURI() != NsEnc {
		return newErr(KindStructural, StageTemplateReader, "required CipherData element missing")
	}
	if err := c.readCipherData(cipherData); err != nil {
		return err
	}

	if n := peek(); n != nil && n.Tag() == ElemEncryptionProperties && n.NamespaceURI() == NsEnc {
		next()
	}

	if c.mode == ModeEncryptedKey {
		if n := peek(); n != nil && n.Tag() == ElemReferenceList && n.NamespaceURI() == NsEnc {
			next()
		}
		if n := peek(); n != nil && n.Tag() == ElemCarriedKeyName && n.NamespaceURI() == NsEnc {
			if n.Text() == "" {
				return newErr(KindInvalidNodeContent, StageTemplateReader, "CarriedKeyName is empty")
			}
			c.carriedKeyName = n.Text()
			next()
		}
	}

	if idx != len(children) {
		return newErr(KindStructural, StageTemplateReader,
			"unexpected element after the last recognized child")
	}

	if err := c.wireEncryptionMethod(); err != nil {
		return err
	}
	if err := c.resolveKey(); err != nil {
		return err
	}

	if c.direction == DirEncrypt && c.cipherValueNode != nil {
		if _, err := c.pipeline.CreateAndAppend(transform.AlgBase64); err != nil {
			return wrapErr(KindAlgorithm, StageTemplateReader, "append Base64 encode stage", err)
		}
		c.resultBase64Encoded = true
	}

	c.state = statePiped
	return nil
}

// wireEncryptionMethod binds c.method (built from encMethodNode, or
// the caller-supplied prebound transform) into the pipeline by
// appending it, so it sits after the Base64-decode or inline
// Transforms stages C2 has already added.
func (c *Context) wireEncryptionMethod() error {
	switch {
	case c.method.transform != nil:
		c.pipeline.Append(c.method.transform)
	case c.encMethodNode != nil:
		t, err := c.pipeline.NodeRead(c.encMethodNode, transform.UsageEncryptionMethod)
		if err != nil {
			return wrapErr(KindAlgorithm, StageTemplateReader, "build encryption method transform", err)
		}
		c.method = methodHandle{transform: t, owned: true}
	default:
		return newErr(KindAlgorithm, StageTemplateReader, "encryption method not specified")
	}
	c.method.transform.SetDirection(c.direction.transformDir())
	return nil
}

// resolveKey derives a requirement from the bound method, resolves a
// key via keyInfoNode, validates it, and binds it to the method.
func (c *Context) resolveKey() error {
	req := c.method.transform.KeyRequirement()
	c.keyInfoReadCtx = keyinfo.Context{Requirement: req}
	k, ok, err := c.keyResolver.Resolve(c.keyInfoNode, c.keyInfoReadCtx)
	if err != nil {
		return wrapErr(KindKeyNotFound, StageKeyResolution, "key-info resolver failed", err)
	}
	if !ok || !k.Satisfies(req) {
		return newErr(KindKeyNotFound, StageKeyResolution, "no key satisfying the requirement was resolved")
	}
	if err := c.method.transform.SetKey(k); err != nil {
		return wrapErr(KindKeyNotFound, StageKeyResolution, "bind resolved key to transform", err)
	}
	c.key = k
	c.hasKey = true
	return nil
}
