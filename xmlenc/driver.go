// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc

import (
	"bytes"

	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

// EncryptBinary is the Binary-encrypt operation: the caller supplies
// plaintext directly, C1/C2/C3 wire the pipeline from template, the
// pipeline runs over data in one shot, and C6 writes CipherValue/
// KeyInfo into template.
func (c *Context) EncryptBinary(template domxml.Node, data []byte) error {
	if err := c.beginOperation(DirEncrypt); err != nil {
		return c.fail(err)
	}
	c.registerID(template)
	if err := c.readTemplate(template); err != nil {
		return c.fail(err)
	}
	if err := c.pipeline.BinaryExecute(data); err != nil {
		return c.fail(wrapErr(KindPipeline, StagePipeline, "binary encrypt pipeline", err))
	}
	c.result = c.pipeline.Result()
	c.state = stateExecuted
	if err := c.writeCipherValueAndKeyInfo(); err != nil {
		return c.fail(err)
	}
	c.state = stateDone
	return nil
}

// EncryptXML is the Xml-encrypt operation: serialize target (the
// whole element for TypeElement, each child in document order for
// TypeContent) through an output sink feeding the pipeline head, then
// splice the populated template in place of target.
func (c *Context) EncryptXML(template domxml.Node, target domxml.Node) error {
	if err := c.beginOperation(DirEncrypt); err != nil {
		return c.fail(err)
	}
	c.registerID(template)
	if err := c.readTemplate(template); err != nil {
		return c.fail(err)
	}

	sink := c.pipeline.CreateOutputSink()
	if c.typ == TypeContent {
		for _, child := range target.ChildElements() {
			if err := child.Serialize(sink); err != nil {
				return c.fail(wrapErr(KindPipeline, StageDriver, "serialize content child", err))
			}
		}
	} else {
		if err := target.Serialize(sink); err != nil {
			return c.fail(wrapErr(KindPipeline, StageDriver, "serialize target element", err))
		}
	}
	if err := sink.Close(); err != nil {
		return c.fail(wrapErr(KindPipeline, StagePipeline, "xml encrypt pipeline", err))
	}
	c.result = c.pipeline.Result()
	c.state = stateExecuted

	if err := c.writeCipherValueAndKeyInfo(); err != nil {
		return c.fail(err)
	}
	if err := c.replaceTemplateInto(target, template); err != nil {
		if xerr, ok := err.(*Error); ok {
			return c.fail(xerr)
		}
		return c.fail(wrapErr(KindDocumentMutation, StageWriter, "splice EncryptedData template", err))
	}
	c.state = stateDone
	return nil
}

// EncryptURI is the Uri-encrypt operation: the plaintext lives behind
// a remote/local URI the caller names directly (template's own
// CipherReference, if any, only describes where the *ciphertext* will
// live and is ignored by C2 on encrypt per the CipherReference Reader
// rule); the pipeline fetches the plaintext itself once run to
// completion.
func (c *Context) EncryptURI(template domxml.Node, uri string) error {
	if err := c.beginOperation(DirEncrypt); err != nil {
		return c.fail(err)
	}
	c.registerID(template)
	if err := c.readTemplate(template); err != nil {
		return c.fail(err)
	}
	if err := c.pipeline.SetURI(uri, c.doc); err != nil {
		return c.fail(wrapErr(KindStructural, StagePipeline, "install uri encrypt input", err))
	}
	if err := c.pipeline.Execute(); err != nil {
		return c.fail(wrapErr(KindPipeline, StagePipeline, "uri encrypt pipeline", err))
	}
	c.result = c.pipeline.Result()
	c.state = stateExecuted
	if err := c.writeCipherValueAndKeyInfo(); err != nil {
		return c.fail(err)
	}
	c.state = stateDone
	return nil
}

// DecryptToBuffer parses instance as a template, runs the pipeline in
// the decrypt direction, and returns the recovered bytes without
// touching the document.
func (c *Context) DecryptToBuffer(instance domxml.Node) ([]byte, error) {
	if err := c.beginOperation(DirDecrypt); err != nil {
		return nil, c.fail(err)
	}
	c.registerID(instance)
	if err := c.readTemplate(instance); err != nil {
		return nil, c.fail(err)
	}
	if err := c.runDecryptPipeline(); err != nil {
		return nil, c.fail(err)
	}
	c.state = stateDone
	return c.result, nil
}

// Decrypt is decrypt-in-place: like DecryptToBuffer, but the recovered
// bytes are reparsed and substituted for instance itself, for both the
// EncElement and EncContent Type (see replaceWithDecryptedBytes).
func (c *Context) Decrypt(instance domxml.Node) error {
	if err := c.beginOperation(DirDecrypt); err != nil {
		return c.fail(err)
	}
	c.registerID(instance)
	if err := c.readTemplate(instance); err != nil {
		return c.fail(err)
	}
	if err := c.runDecryptPipeline(); err != nil {
		return c.fail(err)
	}
	if err := c.replaceWithDecryptedBytes(instance, c.result); err != nil {
		return c.fail(err)
	}
	c.state = stateDone
	return nil
}

// runDecryptPipeline sources input from cipherValueNode's text when
// present, otherwise runs the pipeline end to end against the
// URI/reference input readCipherReference already installed.
func (c *Context) runDecryptPipeline() error {
	if c.cipherValueNode != nil {
		data := bytes.TrimSpace([]byte(c.cipherValueNode.Text()))
		if err := c.pipeline.BinaryExecute(data); err != nil {
			return wrapErr(KindPipeline, StagePipeline, "decrypt pipeline", err)
		}
	} else {
		if err := c.pipeline.Execute(); err != nil {
			return wrapErr(KindPipeline, StagePipeline, "decrypt pipeline", err)
		}
	}
	c.result = c.pipeline.Result()
	c.state = stateExecuted
	return nil
}
