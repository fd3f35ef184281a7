// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package keys defines the key handle and key-requirement descriptor
// shared between the transform runtime (xmlenc/transform) and the
// key-info resolver (xmlenc/keyinfo), so neither package needs to
// import the other.
package keys

import "crypto/rsa"

// Requirement is what an encryption method transform needs from a
// resolved key: the algorithm family, an exact symmetric key length or
// an RSA key, and whether public material alone may satisfy it. None
// of the transforms in xmlenc/transform sets PublicOnly; the KeyInfo
// write context carries its own flag on keyinfo.Context.
type Requirement struct {
	Algorithm    string
	SymmetricLen int  // required symmetric key length in bytes, 0 if n/a
	NeedRSA      bool // true if an RSA key pair is required instead
	PublicOnly   bool
}

// Key is an opaque handle to key material, resolved by a KeyInfo
// resolver and bound to a transform. Exactly one of Symmetric or the
// RSA fields is populated for a given key.
type Key struct {
	Name       string
	Symmetric  []byte
	RSAPublic  *rsa.PublicKey
	RSAPrivate *rsa.PrivateKey
	// Public is true when this handle carries only public material —
	// either an RSA public key with no private half, or a symmetric key
	// explicitly marked non-exportable in its requirement-checking role.
	Public bool
}

// Satisfies reports whether k meets requirement r, mirroring
// xmlSecKeyMatch's requirement check in xmlenc.c.
func (k Key) Satisfies(r Requirement) bool {
	if r.NeedRSA {
		if k.RSAPublic == nil {
			return false
		}
		if r.PublicOnly {
			return true
		}
		return k.RSAPrivate != nil || !r.PublicOnly
	}
	if len(k.Symmetric) == 0 {
		return false
	}
	if r.SymmetricLen != 0 && len(k.Symmetric) != r.SymmetricLen {
		return false
	}
	return true
}

// AsPublicOnly returns a copy of k with any private material stripped,
// used by the KeyInfo write context so private keys are never
// serialized into an outgoing KeyInfo (spec.md invariant 3).
func (k Key) AsPublicOnly() Key {
	k.RSAPrivate = nil
	k.Public = true
	return k
}
