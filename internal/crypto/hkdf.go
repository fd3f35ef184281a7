// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package crypto derives per-resource content-encryption keys from a
// package master key, ported in style from
// guided-traffic-s3-encryption-proxy's internal/crypto/hkdf.go.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/hkdf"
)

// resourceKeyInfo is the fixed HKDF info label distinguishing
// per-resource content keys from any other key this master key might
// be used to derive.
const resourceKeyInfo = "xmlenc-core-resource-content-key"

// DeriveResourceKey derives a keyLen-byte content-encryption key for
// the resource at archivePath from a package's master key, so each
// resource gets a distinct key without storing one per resource.
func DeriveResourceKey(masterKey []byte, archivePath string, keyLen int) ([]byte, error) {
	if len(masterKey) == 0 {
		return nil, fmt.Errorf("crypto: master key is empty")
	}
	reader := hkdf.New(sha256.New, masterKey, []byte(archivePath), []byte(resourceKeyInfo))
	out := make([]byte, keyLen)
	if _, err := reader.Read(out); err != nil {
		return nil, fmt.Errorf("crypto: derive resource key: %w", err)
	}
	return out, nil
}
