// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import (
	"encoding/base64"
	"fmt"

	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// base64Transform is the mandatory CipherValue codec (spec.md §4.1/§4.2):
// appended on encrypt (raw ciphertext -> Base64 text), prepended on
// decrypt (Base64 text -> raw ciphertext).
type base64Transform struct {
	dir Direction
}

func newBase64() Transform { return &base64Transform{} }

func (t *base64Transform) Algorithm() string                { return AlgBase64 }
func (t *base64Transform) SetDirection(d Direction)         { t.dir = d }
func (t *base64Transform) KeyRequirement() keys.Requirement { return keys.Requirement{} }
func (t *base64Transform) SetKey(keys.Key) error            { return nil }

func (t *base64Transform) Process(in []byte) ([]byte, error) {
	if t.dir == DirEncode {
		out := make([]byte, base64.StdEncoding.EncodedLen(len(in)))
		base64.StdEncoding.Encode(out, in)
		return out, nil
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(in)))
	n, err := base64.StdEncoding.Decode(out, in)
	if err != nil {
		// CipherValue content may carry the whitespace/newlines a
		// conforming XML serializer is free to insert; fall back to a
		// decoder that tolerates it rather than failing the pipeline.
		n2, err2 := decodeLenient(in)
		if err2 != nil {
			return nil, fmt.Errorf("base64 decode: %w", err)
		}
		return n2, nil
	}
	return out[:n], nil
}

func decodeLenient(in []byte) ([]byte, error) {
	clean := make([]byte, 0, len(in))
	for _, b := range in {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			clean = append(clean, b)
		}
	}
	return base64.StdEncoding.DecodeString(string(clean))
}
