// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package pack drives the xmlenc core over the resources of a zip
// archive (spec.md §8's package-level encryption scenario): each
// resource gets its own derived content key and its own EncryptedData
// round trip, and the archive gains an xmlenc/encryption.xml manifest
// recording, per resource, which key and algorithm protect it.
package pack

import (
	"archive/zip"
	"encoding/base64"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/Machiel/slugify"
	uuid "github.com/satori/go.uuid"

	"github.com/readium/xmlenc-core/internal/crypto"
	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
	"github.com/readium/xmlenc-core/xmlenc/transform"
)

// DefaultAlgorithm is the encryption method new resources are
// protected with unless the caller requests another one.
const DefaultAlgorithm = transform.AlgAES256CBC

// Writer builds an encrypted zip package: every resource passed to
// EncryptResource is sealed under a key derived from masterKey and
// appended to the manifest; Close finalizes the archive and writes
// the accumulated xmlenc.Manifest as its last member.
type Writer struct {
	zw        *zip.Writer
	masterKey []byte
	keyLen    int
	algorithm string
	store     *keyinfo.Store
	manifest  xmlenc.Manifest
}

// NewWriter wraps w as a zip archive whose resources will each be
// encrypted under a key derived from masterKey.
func NewWriter(w io.Writer, masterKey []byte) *Writer {
	return &Writer{
		zw:        zip.NewWriter(w),
		masterKey: masterKey,
		keyLen:    32,
		algorithm: DefaultAlgorithm,
		store:     keyinfo.NewStore(),
	}
}

// EncryptResource derives a per-resource key for archivePath, drives
// an xmlenc.Context through a Binary encrypt operation over the
// plaintext read from r, and stores the raw ciphertext as a new zip
// member, recording the entry in the package manifest.
func (w *Writer) EncryptResource(archivePath string, r io.Reader) error {
	plaintext, err := ioutil.ReadAll(r)
	if err != nil {
		return fmt.Errorf("pack: read resource %q: %w", archivePath, err)
	}

	slug := slugify.Slugify(archivePath)
	memberName := "encrypted/" + slug

	// The key is derived from memberName, not archivePath: Reader only
	// ever sees the zip member path when it re-derives the key, so both
	// sides must agree on the same identifying string.
	keyName, err := w.registerResourceKey(memberName)
	if err != nil {
		return err
	}

	templateXML := buildEncryptedDataXML(w.algorithm, keyName, "")
	templateNode, doc, err := parseEncryptedDataNode(templateXML)
	if err != nil {
		return err
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, w.store)
	if err := ctx.EncryptBinary(templateNode, plaintext); err != nil {
		return fmt.Errorf("pack: encrypt resource %q: %w", archivePath, err)
	}

	// EncryptBinary leaves a Base64-encoded CipherValue in ctx.Result();
	// the zip member stores raw ciphertext, so decode it back once.
	ciphertext, err := base64.StdEncoding.DecodeString(string(ctx.Result()))
	if err != nil {
		return fmt.Errorf("pack: decode ciphertext for %q: %w", archivePath, err)
	}

	member, err := w.zw.Create(memberName)
	if err != nil {
		return fmt.Errorf("pack: create zip member for %q: %w", archivePath, err)
	}
	if _, err := member.Write(ciphertext); err != nil {
		return fmt.Errorf("pack: write zip member for %q: %w", archivePath, err)
	}

	w.manifest.AddResource(memberName, keyName, w.algorithm)
	return nil
}

// registerResourceKey derives a content key for memberName (the zip
// entry path, the only identifier Reader has on the decrypt side),
// names it with a fresh UUID, and registers it in the package's
// in-memory key store so the xmlenc.Context built for that resource
// can resolve it.
func (w *Writer) registerResourceKey(memberName string) (string, error) {
	key, err := crypto.DeriveResourceKey(w.masterKey, memberName, w.keyLen)
	if err != nil {
		return "", fmt.Errorf("pack: derive key for %q: %w", memberName, err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("pack: generate key name for %q: %w", memberName, err)
	}
	keyName := id.String()
	w.store.AddSymmetric(keyName, key)
	return keyName, nil
}

// Close writes the accumulated manifest as xmlenc/encryption.xml and
// finalizes the underlying zip archive.
func (w *Writer) Close() error {
	manifestMember, err := w.zw.Create("xmlenc/encryption.xml")
	if err != nil {
		return fmt.Errorf("pack: create manifest member: %w", err)
	}
	if err := w.manifest.Write(manifestMember); err != nil {
		return fmt.Errorf("pack: write manifest: %w", err)
	}
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("pack: finalize archive: %w", err)
	}
	return nil
}
