// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

const encryptURITemplate = `<xenc:EncryptedData Type="http://www.w3.org/2001/04/xmlenc#Element"
  xmlns:xenc="http://www.w3.org/2001/04/xmlenc#" xmlns:ds="http://www.w3.org/2000/09/xmldsig#">
  <xenc:EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes256-cbc"/>
  <ds:KeyInfo><ds:KeyName>k1</ds:KeyName></ds:KeyInfo>
  <xenc:CipherData><xenc:CipherReference URI="file:cipher.bin"/></xenc:CipherData>
</xenc:EncryptedData>`

// TestEncryptURIThenDecryptByReference exercises spec.md's own literal
// CipherReference scenario, "file:plain.bin": a relative file: URI with
// no authority parses to an opaque net/url.URL (Opaque set, Path
// empty), which previously fell through fetchURI's fallback and tried
// to read the literal string "file:plain.bin" as an OS path.
func TestEncryptURIThenDecryptByReference(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile("plain.bin", plaintext, 0o600))

	store := newTestStore(t)

	doc, err := domxml.ReadDocument(strings.NewReader(encryptURITemplate))
	require.NoError(t, err)
	encCtx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	require.NoError(t, encCtx.EncryptURI(doc.Root(), "file:plain.bin"))
	require.NotEmpty(t, encCtx.Result())
	require.NoError(t, os.WriteFile("cipher.bin", encCtx.Result(), 0o600))

	decDoc, err := domxml.ReadDocument(strings.NewReader(encryptURITemplate))
	require.NoError(t, err)
	decCtx := xmlenc.NewContext(xmlenc.ModeEncryptedData, decDoc, store)
	recovered, err := decCtx.DecryptToBuffer(decDoc.Root())
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}
