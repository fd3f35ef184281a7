// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import (
	"fmt"

	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// xsltTransform occupies the registry slot for the XSLT transform that
// xmlsec's CipherReference Transforms chain allows (original xslt.c).
// No XSLT engine appears anywhere in the retrieved corpus; rather than
// hand-roll one, this stays a structural stub so a document naming the
// algorithm fails when the pipeline runs (surfacing from the core as a
// PipelineError) instead of silently passing data through unmodified.
// See DESIGN.md.
type xsltTransform struct{}

func newXSLT() Transform { return &xsltTransform{} }

func (t *xsltTransform) Algorithm() string                { return AlgXSLT }
func (t *xsltTransform) SetDirection(Direction)            {}
func (t *xsltTransform) KeyRequirement() keys.Requirement { return keys.Requirement{} }
func (t *xsltTransform) SetKey(keys.Key) error             { return nil }

func (t *xsltTransform) Process([]byte) ([]byte, error) {
	return nil, fmt.Errorf("transform: xslt stage requires an XSLT engine, none configured")
}
