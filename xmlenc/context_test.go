// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

const encryptTemplate = `<xenc:EncryptedData Type="http://www.w3.org/2001/04/xmlenc#Element"
  xmlns:xenc="http://www.w3.org/2001/04/xmlenc#" xmlns:ds="http://www.w3.org/2000/09/xmldsig#">
  <xenc:EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes256-cbc"/>
  <ds:KeyInfo><ds:KeyName>k1</ds:KeyName></ds:KeyInfo>
  <xenc:CipherData><xenc:CipherValue></xenc:CipherValue></xenc:CipherData>
</xenc:EncryptedData>`

func newTestStore(t *testing.T) *keyinfo.Store {
	t.Helper()
	store := keyinfo.NewStore()
	store.AddSymmetric("k1", make([]byte, 32))
	return store
}

func TestEncryptBinaryThenDecryptToBuffer(t *testing.T) {
	store := newTestStore(t)
	plaintext := []byte("hello, encrypted world")

	doc, err := domxml.ReadDocument(strings.NewReader(encryptTemplate))
	require.NoError(t, err)

	encCtx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	require.NoError(t, encCtx.EncryptBinary(doc.Root(), plaintext))
	require.True(t, encCtx.Replaced())
	require.NotEmpty(t, encCtx.Result())

	var serialized strings.Builder
	require.NoError(t, doc.Root().Serialize(&serialized))

	decDoc, err := domxml.ReadDocument(strings.NewReader(serialized.String()))
	require.NoError(t, err)

	decCtx := xmlenc.NewContext(xmlenc.ModeEncryptedData, decDoc, store)
	recovered, err := decCtx.DecryptToBuffer(decDoc.Root())
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestContextRejectsReuse(t *testing.T) {
	store := newTestStore(t)
	doc, err := domxml.ReadDocument(strings.NewReader(encryptTemplate))
	require.NoError(t, err)

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	require.NoError(t, ctx.EncryptBinary(doc.Root(), []byte("once")))

	err = ctx.EncryptBinary(doc.Root(), []byte("twice"))
	require.Error(t, err)
	var xerr *xmlenc.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, xmlenc.KindStructural, xerr.Kind)
}

func TestMissingCipherDataIsStructuralError(t *testing.T) {
	store := newTestStore(t)
	const badTemplate = `<xenc:EncryptedData Type="http://www.w3.org/2001/04/xmlenc#Element"
  xmlns:xenc="http://www.w3.org/2001/04/xmlenc#">
  <xenc:EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes256-cbc"/>
</xenc:EncryptedData>`
	doc, err := domxml.ReadDocument(strings.NewReader(badTemplate))
	require.NoError(t, err)

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	err = ctx.EncryptBinary(doc.Root(), []byte("data"))
	require.Error(t, err)
	var xerr *xmlenc.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, xmlenc.KindStructural, xerr.Kind)
}

func TestUnsatisfiedKeyRequirementIsKeyNotFound(t *testing.T) {
	store := keyinfo.NewStore()
	store.AddSymmetric("k1", make([]byte, 16)) // wrong length for aes256-cbc

	doc, err := domxml.ReadDocument(strings.NewReader(encryptTemplate))
	require.NoError(t, err)

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	err = ctx.EncryptBinary(doc.Root(), []byte("data"))
	require.Error(t, err)
	var xerr *xmlenc.Error
	require.ErrorAs(t, err, &xerr)
	require.Equal(t, xmlenc.KindKeyNotFound, xerr.Kind)
}

func TestPreboundMethodIsNotDiscarded(t *testing.T) {
	store := newTestStore(t)
	doc, err := domxml.ReadDocument(strings.NewReader(encryptTemplate))
	require.NoError(t, err)

	preTransform, err := transform.Build(transform.AlgAES256CBC)
	require.NoError(t, err)

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	ctx.UsePreboundMethod(preTransform)
	require.NoError(t, ctx.EncryptBinary(doc.Root(), []byte("prebound method")))
}
