// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"fmt"

	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// rsaOAEPTransform implements rsa-oaep-mgf1p, the EncryptedKey wrapping
// algorithm used when the recipient's KeyInfo carries an RSA public key
// rather than a shared KEK. No ecosystem RSA-OAEP library beyond the
// standard one appears anywhere in the corpus, so this stays on
// crypto/rsa; see DESIGN.md.
type rsaOAEPTransform struct {
	dir  Direction
	pub  *rsa.PublicKey
	priv *rsa.PrivateKey
}

func newRSAOAEP() Transform { return &rsaOAEPTransform{} }

func (t *rsaOAEPTransform) Algorithm() string        { return AlgRSAOAEP }
func (t *rsaOAEPTransform) SetDirection(d Direction) { t.dir = d }

func (t *rsaOAEPTransform) KeyRequirement() keys.Requirement {
	return keys.Requirement{Algorithm: AlgRSAOAEP, NeedRSA: true}
}

func (t *rsaOAEPTransform) SetKey(k keys.Key) error {
	if t.dir == DirEncode {
		if k.RSAPublic == nil {
			return fmt.Errorf("rsa-oaep: encrypt requires an RSA public key")
		}
		t.pub = k.RSAPublic
		return nil
	}
	if k.RSAPrivate == nil {
		return fmt.Errorf("rsa-oaep: decrypt requires an RSA private key")
	}
	t.priv = k.RSAPrivate
	return nil
}

func (t *rsaOAEPTransform) Process(in []byte) ([]byte, error) {
	if t.dir == DirEncode {
		return rsa.EncryptOAEP(sha1.New(), rand.Reader, t.pub, in, nil)
	}
	return rsa.DecryptOAEP(sha1.New(), rand.Reader, t.priv, in, nil)
}
