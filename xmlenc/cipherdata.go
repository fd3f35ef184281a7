// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc

import (
	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

// readCipherData is the CipherData Reader (C2): exactly one of
// CipherValue or CipherReference must be the sole child.
func (c *Context) readCipherData(cipherData domxml.Node) error {
	children := cipherData.ChildElements()
	if len(children) == 0 {
		return newErr(KindStructural, StageCipherData, "CipherData has neither CipherValue nor CipherReference")
	}
	first := children[0]
	switch {
	case first.Tag() == ElemCipherValue && first.NamespaceURI() == NsEnc:
		if len(children) != 1 {
			return newErr(KindStructural, StageCipherData, "CipherValue must have no sibling under CipherData")
		}
		c.cipherValueNode = first
		if c.direction == DirDecrypt {
			if _, err := c.pipeline.CreateAndPrepend(transform.AlgBase64); err != nil {
				return wrapErr(KindAlgorithm, StageCipherData, "prepend Base64 decode stage", err)
			}
		}
		return nil
	case first.Tag() == ElemCipherReference && first.NamespaceURI() == NsEnc:
		if len(children) != 1 {
			return newErr(KindStructural, StageCipherData, "CipherReference must have no sibling under CipherData")
		}
		if c.direction == DirEncrypt {
			// The reference only describes shape on encrypt; the caller
			// supplies plaintext through the driver operation instead.
			return nil
		}
		return c.readCipherReference(first)
	default:
		return newErr(KindStructural, StageCipherData, "unrecognized CipherData child")
	}
}

// readCipherReference is the CipherReference Reader: installs a
// URI-sourced pipeline head and, if present, an inline DSig transform
// chain read from the Transforms child.
func (c *Context) readCipherReference(ref domxml.Node) error {
	if uri, ok := ref.Attr(AttrURI); ok && uri != "" {
		if err := c.pipeline.SetURI(uri, c.doc); err != nil {
			return wrapErr(KindStructural, StageCipherData, "install CipherReference URI", err)
		}
	}

	children := ref.ChildElements()
	if len(children) == 0 {
		return nil
	}
	if len(children) != 1 || children[0].Tag() != ElemTransforms || children[0].NamespaceURI() != NsEnc {
		return newErr(KindStructural, StageCipherData, "CipherReference has an unexpected trailing child")
	}
	if err := c.pipeline.NodesListRead(children[0], transform.UsageDSigTransform); err != nil {
		return wrapErr(KindAlgorithm, StageCipherData, "parse CipherReference Transforms chain", err)
	}
	return nil
}
