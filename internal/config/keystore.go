// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package config

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
)

// BuildKeyStore materializes a keyinfo.Store from a KeyStoreConfig:
// hex-decoded symmetric keys and PEM-encoded RSA private keys, each
// registered under its configured KeyName.
func BuildKeyStore(cfg KeyStoreConfig) (*keyinfo.Store, error) {
	store := keyinfo.NewStore()

	for name, hexKey := range cfg.Symmetric {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("config: symmetric key %q is not valid hex: %w", name, err)
		}
		store.AddSymmetric(name, key)
	}

	for name, path := range cfg.RSA {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read RSA key %q: %w", name, err)
		}
		block, _ := pem.Decode(data)
		if block == nil {
			return nil, fmt.Errorf("config: %q is not PEM-encoded", path)
		}
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("config: parse RSA key %q: %w", name, err)
		}
		store.AddRSAKeyPair(name, priv)
	}

	return store, nil
}
