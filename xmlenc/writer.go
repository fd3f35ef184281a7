// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc

import "github.com/readium/xmlenc-core/xmlenc/domxml"

// writeCipherValueAndKeyInfo is the encrypt half of the Writer /
// Replacer (C6): deposit the pipeline's result into cipherValueNode
// and, if present, serialize the resolved key into keyInfoNode using
// the write key-info context, which is always PublicOnly.
func (c *Context) writeCipherValueAndKeyInfo() error {
	if c.cipherValueNode != nil {
		c.cipherValueNode.SetTextBytes(c.result)
	}
	if c.keyInfoNode != nil {
		if err := c.keyWriter.Write(c.keyInfoNode, c.key, c.keyInfoWriteCtx); err != nil {
			return wrapErr(KindDocumentMutation, StageWriter, "write KeyInfo", err)
		}
	}
	c.replaced = true
	return nil
}

// replaceTemplateInto substitutes the source node (EncElement) or its
// children (EncContent) with templateNode, the EncryptedData/
// EncryptedKey element the pipeline just finished populating. Any
// other Type value is a structural error: spec.md §4.5 treats it as
// fatal for the XML-encrypt operation, unlike the decrypt side where
// an unknown Type is merely non-fatal and leaves the document alone.
func (c *Context) replaceTemplateInto(source, templateNode domxml.Node) error {
	switch c.typ {
	case TypeElement:
		return source.ReplaceWith(templateNode)
	case TypeContent:
		return source.ReplaceChildrenWith(templateNode)
	default:
		return newErr(KindStructural, StageWriter, "invalid Type attribute for XML replacement")
	}
}

// replaceWithDecryptedBytes is the decrypt-in-place half of C6: the
// recovered bytes are reparsed as an XML fragment in the context of
// source's parent and substituted for source itself — for both
// EncElement and EncContent, mirroring the observed xmlsec behavior
// that always calls the node-level replace regardless of Type (see
// SPEC_FULL.md Open Questions: this is carried as-is, not "fixed").
// An unrecognized Type leaves the document untouched and is non-fatal.
func (c *Context) replaceWithDecryptedBytes(source domxml.Node, raw []byte) error {
	switch c.typ {
	case TypeElement, TypeContent:
		if err := source.ReplaceWithBytes(raw); err != nil {
			return wrapErr(KindDocumentMutation, StageWriter, "reparse decrypted fragment", err)
		}
		c.replaced = true
		return nil
	default:
		return nil
	}
}
