// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc/keys"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

func roundTrip(t *testing.T, algorithm string, key keys.Key, plaintext []byte) {
	t.Helper()

	enc, err := transform.Build(algorithm)
	require.NoError(t, err)
	enc.SetDirection(transform.DirEncode)
	require.NoError(t, enc.SetKey(key))
	ciphertext, err := enc.Process(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	dec, err := transform.Build(algorithm)
	require.NoError(t, err)
	dec.SetDirection(transform.DirDecode)
	require.NoError(t, dec.SetKey(key))
	recovered, err := dec.Process(ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestAESCBCRoundTrip(t *testing.T) {
	roundTrip(t, transform.AlgAES256CBC, keys.Key{Symmetric: make([]byte, 32)}, []byte("a short message"))
}

func TestAESGCMRoundTrip(t *testing.T) {
	roundTrip(t, transform.AlgAES128GCM, keys.Key{Symmetric: make([]byte, 16)}, []byte("authenticated message"))
}

func TestKeyWrapRoundTrip(t *testing.T) {
	roundTrip(t, transform.AlgKWAES256, keys.Key{Symmetric: make([]byte, 32)}, make([]byte, 32))
}

func TestBase64RoundTrip(t *testing.T) {
	enc, err := transform.Build(transform.AlgBase64)
	require.NoError(t, err)
	enc.SetDirection(transform.DirEncode)
	encoded, err := enc.Process([]byte("round trip me"))
	require.NoError(t, err)

	dec, err := transform.Build(transform.AlgBase64)
	require.NoError(t, err)
	dec.SetDirection(transform.DirDecode)
	decoded, err := dec.Process(encoded)
	require.NoError(t, err)
	require.Equal(t, []byte("round trip me"), decoded)
}

func TestRSAOAEPRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	enc, err := transform.Build(transform.AlgRSAOAEP)
	require.NoError(t, err)
	enc.SetDirection(transform.DirEncode)
	require.NoError(t, enc.SetKey(keys.Key{RSAPublic: &priv.PublicKey}))
	ciphertext, err := enc.Process([]byte("a content key"))
	require.NoError(t, err)

	dec, err := transform.Build(transform.AlgRSAOAEP)
	require.NoError(t, err)
	dec.SetDirection(transform.DirDecode)
	require.NoError(t, dec.SetKey(keys.Key{RSAPrivate: priv, RSAPublic: &priv.PublicKey}))
	recovered, err := dec.Process(ciphertext)
	require.NoError(t, err)
	require.Equal(t, []byte("a content key"), recovered)
}

func TestUnknownAlgorithmFails(t *testing.T) {
	_, err := transform.Build("http://example.com/not-an-algorithm")
	require.Error(t, err)
}

func TestXSLTIsUnconfigured(t *testing.T) {
	xslt, err := transform.Build(transform.AlgXSLT)
	require.NoError(t, err)
	_, err = xslt.Process([]byte("<stylesheet/>"))
	require.Error(t, err)
}
