// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package xmlenc is the encryption-context state machine at the core of
// an XML Encryption Syntax and Processing implementation: it parses an
// EncryptedData/EncryptedKey template, wires a transform pipeline from
// it, resolves the content-encryption key, runs the pipeline in either
// direction, and writes the result back into the caller's XML tree.
// Grounded on the teacher's xmlenc/encryption.go (wire shape) and
// original_source/src/xmlenc.c (xmlSecEncCtx, the state machine this
// package is a direct port of the design of, not the code of).
package xmlenc

import (
	"github.com/readium/xmlenc-core/internal/grohllog"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
	"github.com/readium/xmlenc-core/xmlenc/keys"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

// Mode selects which template root this context was built for, which
// determines which optional children C1 recognizes.
type Mode int

const (
	ModeEncryptedData Mode = iota
	ModeEncryptedKey
)

// Direction is the operation this context performs. It exists
// separately from transform.Direction because the two vocabularies
// diverge slightly at the edges (this one is "what the caller asked
// for", that one is "what a single pipeline stage does").
type Direction int

const (
	DirEncrypt Direction = iota
	DirDecrypt
)

func (d Direction) transformDir() transform.Direction {
	if d == DirEncrypt {
		return transform.DirEncode
	}
	return transform.DirDecode
}

// state is the forward-only lifecycle spec.md §4.4 names:
// Fresh -> Reading -> Piped -> Executed -> Written/Returned, with any
// error moving to Failed (terminal until the context is discarded).
type state int

const (
	stateFresh state = iota
	stateReading
	statePiped
	stateExecuted
	stateDone
	stateFailed
)

// methodHandle models the Owned(T) | Borrowed(&T) ownership-polarity
// design note (spec.md §9): owned means the context built the
// transform itself and is free to discard it; borrowed means the
// caller supplied it via UsePreboundMethod and retains ownership
// (dontDestroyEncMethod in the source design). Go's GC means "discard"
// never needs an explicit free; the context calls SetDirection and
// SetKey on the method in both cases, and owned is only recorded.
type methodHandle struct {
	transform transform.Transform
	owned     bool
}

// Context is the single-use encryption context: spec.md's
// EncryptionContext entity, created for exactly one encrypt or decrypt
// operation, then discarded.
type Context struct {
	mode      Mode
	direction Direction
	state     state

	doc domxml.Document

	id             string
	typ            string
	mimeType       string
	encoding       string
	recipient      string
	carriedKeyName string

	encMethodNode   domxml.Node
	keyInfoNode     domxml.Node
	cipherValueNode domxml.Node

	method methodHandle
	hasKey bool
	key    keys.Key

	pipeline *transform.Context

	keyResolver keyinfo.Resolver
	keyWriter   keyinfo.Writer

	keyInfoReadCtx  keyinfo.Context
	keyInfoWriteCtx keyinfo.Context

	result              []byte
	resultBase64Encoded bool
	replaced            bool
}

// NewContext allocates a fresh context bound to doc (the document any
// weak node references will be taken from) and a key manager
// implementing both Resolver and Writer roles.
func NewContext(mode Mode, doc domxml.Document, keyManager interface {
	keyinfo.Resolver
	keyinfo.Writer
}) *Context {
	return &Context{
		mode:            mode,
		state:           stateFresh,
		doc:             doc,
		pipeline:        transform.NewContext(),
		keyResolver:     keyManager,
		keyWriter:       keyManager,
		keyInfoWriteCtx: keyinfo.Context{PublicOnly: true},
	}
}

// UsePreboundMethod installs a caller-owned transform in place of one
// C1 would otherwise build from encMethodNode. The context never
// discards it; spec.md's dontDestroyEncMethod polarity.
func (c *Context) UsePreboundMethod(t transform.Transform) {
	c.method = methodHandle{transform: t, owned: false}
}

// Result returns the final output buffer once an operation has
// succeeded (borrowed from the transform pipeline's own buffer).
func (c *Context) Result() []byte { return c.result }

// Replaced reports whether C6 mutated the caller's document.
func (c *Context) Replaced() bool { return c.replaced }

// beginOperation enforces the single-use precondition (spec.md
// invariant 2: encResult == nil) and moves Fresh -> Reading.
func (c *Context) beginOperation(dir Direction) error {
	if c.state != stateFresh || c.result != nil {
		return wrapErr(KindStructural, StageDriver,
			"context already used: a single Context performs exactly one operation", nil)
	}
	c.direction = dir
	c.state = stateReading
	return nil
}

func (c *Context) fail(err error) error {
	c.state = stateFailed
	if err != nil {
		grohllog.Error("xmlenc", "operation failed", "err", err)
	}
	return err
}

// registerID registers the template/instance node's Id attribute (if
// any) with the document's id index, so intra-document "#id"
// references resolve during this operation (spec.md §4.4).
func (c *Context) registerID(node domxml.Node) {
	c.doc.AddID(node, idAttrNames)
}
