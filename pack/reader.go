// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package pack

import (
	"archive/zip"
	"encoding/base64"
	"fmt"
	"io/ioutil"

	"github.com/readium/xmlenc-core/internal/crypto"
	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
)

// Reader opens an encrypted zip package written by Writer and recovers
// plaintext resources from it, re-deriving each resource's key from
// masterKey and the resource's zip member path rather than storing keys
// in the archive.
type Reader struct {
	zr        *zip.ReadCloser
	masterKey []byte
	keyLen    int
	manifest  xmlenc.Manifest
	store     *keyinfo.Store
}

// OpenReader opens the zip archive at path and loads its
// xmlenc/encryption.xml manifest.
func OpenReader(path string, masterKey []byte) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("pack: open package %q: %w", path, err)
	}

	r := &Reader{zr: zr, masterKey: masterKey, keyLen: 32, store: keyinfo.NewStore()}

	manifestFile, err := zr.Open("xmlenc/encryption.xml")
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("pack: open manifest in %q: %w", path, err)
	}
	defer manifestFile.Close()

	manifest, err := xmlenc.Read(manifestFile)
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("pack: parse manifest in %q: %w", path, err)
	}
	r.manifest = manifest
	return r, nil
}

// Close releases the underlying zip archive.
func (r *Reader) Close() error { return r.zr.Close() }

// DecryptResource recovers the plaintext of the resource stored at
// archivePath: it looks up the resource's manifest entry, re-derives
// its content key, rebuilds an EncryptedData instance from the raw
// ciphertext bytes, and drives an xmlenc.Context decrypt operation
// over it.
func (r *Reader) DecryptResource(archivePath string) ([]byte, error) {
	entry, ok := r.manifest.DataForFile(archivePath)
	if !ok {
		return nil, fmt.Errorf("pack: no manifest entry for %q", archivePath)
	}
	if entry.KeyInfo == nil || entry.KeyInfo.KeyName == "" {
		return nil, fmt.Errorf("pack: manifest entry for %q has no KeyName", archivePath)
	}

	key, err := crypto.DeriveResourceKey(r.masterKey, archivePath, r.keyLen)
	if err != nil {
		return nil, fmt.Errorf("pack: derive key for %q: %w", archivePath, err)
	}
	r.store.AddSymmetric(entry.KeyInfo.KeyName, key)

	member, err := r.zr.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("pack: open zip member %q: %w", archivePath, err)
	}
	defer member.Close()
	ciphertext, err := ioutil.ReadAll(member)
	if err != nil {
		return nil, fmt.Errorf("pack: read zip member %q: %w", archivePath, err)
	}

	cipherValueText := base64.StdEncoding.EncodeToString(ciphertext)
	instanceXML := buildEncryptedDataXML(string(entry.Method.Algorithm), entry.KeyInfo.KeyName, cipherValueText)
	instanceNode, doc, err := parseEncryptedDataNode(instanceXML)
	if err != nil {
		return nil, err
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, r.store)
	plaintext, err := ctx.DecryptToBuffer(instanceNode)
	if err != nil {
		return nil, fmt.Errorf("pack: decrypt resource %q: %w", archivePath, err)
	}
	return plaintext, nil
}
