// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package transform is the transform-pipeline runtime the core drives
// but does not define (spec.md §1): a chain of binary transforms fed
// either a byte blob, a URI-sourced input, or an output sink written to
// by the caller, and drained into a single result buffer.
package transform

import (
	"fmt"
	"io"

	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// Direction selects whether a Transform encodes (encrypts) or decodes
// (decrypts) the bytes it is given.
type Direction int

const (
	DirDecode Direction = iota
	DirEncode
)

// Usage records why a transform was built, mirroring
// xmlSecTransformUsageEncryptionMethod / xmlSecTransformUsageDSigTransform.
type Usage int

const (
	UsageEncryptionMethod Usage = iota
	UsageDSigTransform
)

// Transform is one stage of the pipeline.
type Transform interface {
	// Algorithm is the URI identifying this transform.
	Algorithm() string
	// SetDirection fixes whether Process encodes or decodes.
	SetDirection(d Direction)
	// KeyRequirement describes what SetKey needs, or the zero value if
	// this transform does not consume a key (e.g. Base64, identity).
	KeyRequirement() keys.Requirement
	// SetKey binds key material; only called when KeyRequirement is non-zero.
	SetKey(k keys.Key) error
	// Process runs the whole input through this stage in one shot.
	Process(in []byte) ([]byte, error)
}

// uriSource loads input bytes from a URI, used as the head of the
// pipeline in place of a pushed binary blob.
type uriSource struct {
	uri string
}

// Context is one pipeline: zero or one URI/Base64 head stage, zero or
// more inline transforms, the encryption method, an optional trailing
// Base64 stage, executed front-to-back exactly once.
type Context struct {
	stages []Transform
	uri    *uriSource
	result []byte
}

func NewContext() *Context {
	return &Context{}
}

// Append adds t at the tail of the pipeline.
func (c *Context) Append(t Transform) {
	c.stages = append(c.stages, t)
}

// Prepend adds t at the head of the pipeline (after any URI source).
func (c *Context) Prepend(t Transform) {
	c.stages = append([]Transform{t}, c.stages...)
}

// CreateAndAppend builds a transform by algorithm URI and appends it.
func (c *Context) CreateAndAppend(algorithm string) (Transform, error) {
	t, err := Build(algorithm)
	if err != nil {
		return nil, err
	}
	c.Append(t)
	return t, nil
}

// CreateAndPrepend builds a transform by algorithm URI and prepends it.
func (c *Context) CreateAndPrepend(algorithm string) (Transform, error) {
	t, err := Build(algorithm)
	if err != nil {
		return nil, err
	}
	c.Prepend(t)
	return t, nil
}

// SetURI installs a URI-sourced input at the head of the pipeline. base
// is not used: same-document fragment URIs ("#id") are not resolved
// against it, and fetchURI treats every URI as a file or http(s)
// location.
func (c *Context) SetURI(uri string, base domxml.Document) error {
	if uri == "" {
		return fmt.Errorf("transform: empty URI")
	}
	c.uri = &uriSource{uri: uri}
	return nil
}

// NodeRead builds the encryption-method transform from an
// EncryptionMethod node: reads its Algorithm attribute and appends it
// (the caller is responsible for binding direction/key afterward).
func (c *Context) NodeRead(methodNode domxml.Node, usage Usage) (Transform, error) {
	alg, ok := methodNode.Attr("Algorithm")
	if !ok || alg == "" {
		return nil, fmt.Errorf("transform: EncryptionMethod missing Algorithm attribute")
	}
	t, err := Build(alg)
	if err != nil {
		return nil, err
	}
	c.Append(t)
	return t, nil
}

// NodesListRead parses a Transforms node's Transform children and
// appends each one in order (DSig transform chain from CipherReference).
func (c *Context) NodesListRead(transformsNode domxml.Node, usage Usage) error {
	for _, child := range transformsNode.ChildElements() {
		if child.Tag() != "Transform" {
			continue
		}
		alg, ok := child.Attr("Algorithm")
		if !ok || alg == "" {
			return fmt.Errorf("transform: Transform node missing Algorithm attribute")
		}
		if _, err := c.CreateAndAppend(alg); err != nil {
			return err
		}
	}
	return nil
}

// BinaryExecute pushes data through every stage in order and stores the
// final bytes as Result().
func (c *Context) BinaryExecute(data []byte) error {
	out := data
	for _, s := range c.stages {
		var err error
		out, err = s.Process(out)
		if err != nil {
			return fmt.Errorf("transform: stage %s: %w", s.Algorithm(), err)
		}
	}
	c.result = out
	return nil
}

// Execute runs the pipeline end to end, sourcing input from the
// installed URI (if any) rather than a pushed blob.
func (c *Context) Execute() error {
	if c.uri == nil {
		return fmt.Errorf("transform: Execute called with no URI input installed")
	}
	data, err := fetchURI(c.uri.uri)
	if err != nil {
		return fmt.Errorf("transform: fetch %s: %w", c.uri.uri, err)
	}
	return c.BinaryExecute(data)
}

// Result returns the pipeline's final output buffer.
func (c *Context) Result() []byte { return c.result }

// CreateOutputSink returns a writer tied to the head of the pipeline:
// every Write is buffered, and Close runs the full pipeline over the
// accumulated bytes. This mirrors xmlSecTransformCreateOutputBuffer,
// used by the xml-encrypt driver operation to push serialized XML
// content through the pipeline without building an intermediate
// io.Pipe.
func (c *Context) CreateOutputSink() io.WriteCloser {
	return &outputSink{ctx: c}
}

type outputSink struct {
	ctx *Context
	buf []byte
}

func (s *outputSink) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

func (s *outputSink) Close() error {
	return s.ctx.BinaryExecute(s.buf)
}
