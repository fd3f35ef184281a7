// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package keyinfo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
	"github.com/readium/xmlenc-core/xmlenc/keys"
)

func keyInfoNode(t *testing.T, xml string) (domxml.Node, domxml.Document) {
	t.Helper()
	doc, err := domxml.ReadDocument(strings.NewReader(xml))
	require.NoError(t, err)
	return doc.Root(), doc
}

func TestResolveByKeyName(t *testing.T) {
	store := keyinfo.NewStore()
	store.AddSymmetric("k1", make([]byte, 32))

	node, _ := keyInfoNode(t, `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><ds:KeyName>k1</ds:KeyName></ds:KeyInfo>`)

	k, ok, err := store.Resolve(node, keyinfo.Context{Requirement: keys.Requirement{SymmetricLen: 32}})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "k1", k.Name)
}

func TestResolveByRetrievalMethodIndirection(t *testing.T) {
	store := keyinfo.NewStore()
	store.AddSymmetric("real-key", make([]byte, 32))

	node, _ := keyInfoNode(t, `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#">
		<ds:RetrievalMethod URI="real-key"/>
	</ds:KeyInfo>`)

	k, ok, err := store.Resolve(node, keyinfo.Context{Requirement: keys.Requirement{SymmetricLen: 32}})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "real-key", k.Name)
}

func TestResolveFailsWhenRequirementUnmet(t *testing.T) {
	store := keyinfo.NewStore()
	store.AddSymmetric("k1", make([]byte, 16))

	node, _ := keyInfoNode(t, `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"><ds:KeyName>k1</ds:KeyName></ds:KeyInfo>`)

	_, ok, err := store.Resolve(node, keyinfo.Context{Requirement: keys.Requirement{SymmetricLen: 32}})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriteCreatesKeyNameWhenAbsent(t *testing.T) {
	store := keyinfo.NewStore()
	node, doc := keyInfoNode(t, `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"></ds:KeyInfo>`)

	err := store.Write(node, keys.Key{Name: "new-key", Symmetric: make([]byte, 32)}, keyinfo.Context{PublicOnly: true})
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, doc.Root().Serialize(&out))
	require.Contains(t, out.String(), "new-key")
}

func TestWriteRejectsUnnamedKey(t *testing.T) {
	store := keyinfo.NewStore()
	node, _ := keyInfoNode(t, `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#"></ds:KeyInfo>`)

	err := store.Write(node, keys.Key{}, keyinfo.Context{PublicOnly: true})
	require.Error(t, err)
}
