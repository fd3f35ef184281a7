// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/readium/xmlenc-core/xmlenc/keys"
)

// aesGCMTransform implements the XML Encryption 1.1 aes{128,192,256}-gcm
// algorithms, grounded on guided-traffic-s3-encryption-proxy's
// pkg/encryption/providers/aes_gcm.go: a 12-byte random nonce followed
// by the sealed ciphertext (tag included by crypto/cipher.AEAD.Seal).
type aesGCMTransform struct {
	keyLen int
	dir    Direction
	key    []byte
}

func newAESGCM(keyLen int) Transform {
	return &aesGCMTransform{keyLen: keyLen}
}

func (t *aesGCMTransform) Algorithm() string {
	switch t.keyLen {
	case 16:
		return AlgAES128GCM
	case 24:
		return AlgAES192GCM
	default:
		return AlgAES256GCM
	}
}

func (t *aesGCMTransform) SetDirection(d Direction) { t.dir = d }

func (t *aesGCMTransform) KeyRequirement() keys.Requirement {
	return keys.Requirement{Algorithm: t.Algorithm(), SymmetricLen: t.keyLen}
}

func (t *aesGCMTransform) SetKey(k keys.Key) error {
	if len(k.Symmetric) != t.keyLen {
		return fmt.Errorf("aes-gcm: key must be %d bytes, got %d", t.keyLen, len(k.Symmetric))
	}
	t.key = k.Symmetric
	return nil
}

func (t *aesGCMTransform) Process(in []byte) ([]byte, error) {
	block, err := aes.NewCipher(t.key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if t.dir == DirEncode {
		nonce := make([]byte, gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		return gcm.Seal(nonce, nonce, in, nil), nil
	}
	if len(in) < gcm.NonceSize() {
		return nil, fmt.Errorf("aes-gcm: ciphertext shorter than nonce")
	}
	nonce, body := in[:gcm.NonceSize()], in[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
