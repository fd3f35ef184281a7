// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package pack_test

import (
	"archive/zip"
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/pack"
)

func TestEncryptResourceThenDecryptResource(t *testing.T) {
	masterKey := bytes.Repeat([]byte{0x42}, 32)

	var archive bytes.Buffer
	w := pack.NewWriter(&archive, masterKey)
	require.NoError(t, w.EncryptResource("chapter1.xhtml", bytes.NewReader([]byte("<p>hello</p>"))))
	require.NoError(t, w.EncryptResource("chapter2.xhtml", bytes.NewReader([]byte("<p>world</p>"))))
	require.NoError(t, w.Close())

	tmp, err := os.CreateTemp(t.TempDir(), "pack-*.zip")
	require.NoError(t, err)
	_, err = tmp.Write(archive.Bytes())
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	zr, err := zip.OpenReader(tmp.Name())
	require.NoError(t, err)
	var manifestPresent bool
	var encryptedMembers []string
	for _, f := range zr.File {
		if f.Name == "xmlenc/encryption.xml" {
			manifestPresent = true
			continue
		}
		encryptedMembers = append(encryptedMembers, f.Name)
	}
	require.NoError(t, zr.Close())
	require.True(t, manifestPresent)
	require.Len(t, encryptedMembers, 2)

	r, err := pack.OpenReader(tmp.Name(), masterKey)
	require.NoError(t, err)
	defer r.Close()

	var found bool
	for _, member := range encryptedMembers {
		plaintext, err := r.DecryptResource(member)
		require.NoError(t, err)
		if string(plaintext) == "<p>hello</p>" {
			found = true
		}
	}
	require.True(t, found)
}
