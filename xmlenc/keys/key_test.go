// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package keys_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc/keys"
)

func TestSatisfiesSymmetricLength(t *testing.T) {
	k := keys.Key{Name: "k1", Symmetric: make([]byte, 32)}
	require.True(t, k.Satisfies(keys.Requirement{SymmetricLen: 32}))
	require.False(t, k.Satisfies(keys.Requirement{SymmetricLen: 16}))
	require.True(t, k.Satisfies(keys.Requirement{}))
}

func TestSatisfiesRejectsEmptySymmetricKey(t *testing.T) {
	k := keys.Key{Name: "k1"}
	require.False(t, k.Satisfies(keys.Requirement{SymmetricLen: 32}))
}

func TestSatisfiesRSARequiresPublicKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	withPrivate := keys.Key{RSAPublic: &priv.PublicKey, RSAPrivate: priv}
	require.True(t, withPrivate.Satisfies(keys.Requirement{NeedRSA: true}))
	require.True(t, withPrivate.Satisfies(keys.Requirement{NeedRSA: true, PublicOnly: true}))

	publicOnly := keys.Key{RSAPublic: &priv.PublicKey}
	require.True(t, publicOnly.Satisfies(keys.Requirement{NeedRSA: true, PublicOnly: true}))

	noKey := keys.Key{}
	require.False(t, noKey.Satisfies(keys.Requirement{NeedRSA: true}))
}

func TestAsPublicOnlyStripsPrivateMaterial(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	k := keys.Key{Name: "k1", RSAPublic: &priv.PublicKey, RSAPrivate: priv}
	pub := k.AsPublicOnly()

	require.Nil(t, pub.RSAPrivate)
	require.True(t, pub.Public)
	require.NotNil(t, pub.RSAPublic)
	require.NotNil(t, k.RSAPrivate, "original key must be unaffected")
}
