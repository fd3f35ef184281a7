// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// manifest.go holds the encoding/xml wire representation of an
// encryption.xml manifest: a flat list of EncryptedData entries
// describing, per package resource, how it was encrypted. This is a
// separate, struct-tag-driven codec from the live-DOM Context above —
// used by the pack package to read/write the manifest as a whole
// rather than to drive the state machine node by node (SPEC_FULL.md
// §8). Grounded on the shape of the teacher's own xmlenc/encryption.go,
// pared down to only the EncryptedData fields pack/writer.go and
// pack/reader.go actually populate or read back — this manifest never
// carries an EncryptedKey entry, a RetrievalMethod indirection, or an
// EncryptionProperties/Compression extension, so those wire shapes
// don't belong here.
package xmlenc

import (
	"encoding/xml"
	"io"
	"net/url"

	"golang.org/x/net/html/charset"
)

// Manifest is the xmlenc/encryption.xml root: one Data entry per
// encrypted resource in the package.
type Manifest struct {
	Data    []Data   `xml:"http://www.w3.org/2001/04/xmlenc# EncryptedData"`
	XMLName struct{} `xml:"urn:oasis:names:tc:opendocument:xmlns:container encryption"`
}

// AddResource appends a Data entry describing a resource at archivePath
// encrypted with algorithm under keyName, used by pack.Writer after
// xmlenc.Context.EncryptBinary has produced ciphertext for that
// resource.
func (m *Manifest) AddResource(archivePath, keyName, algorithm string) {
	m.Data = append(m.Data, Data{
		Method:     Method{Algorithm: URI(algorithm)},
		KeyInfo:    &KeyInfo{KeyName: keyName},
		CipherData: CipherData{CipherReference: CipherReference{URI: URI(archivePath)}},
		Type:       URI(TypeElement),
	})
}

// DataForFile returns the EncryptedData item corresponding to a given path
func (m Manifest) DataForFile(path string) (Data, bool) {
	fileUri, err := url.Parse(path)
	if err != nil {
		return Data{}, false
	}

	uri := URI(fileUri.EscapedPath())
	for _, datum := range m.Data {
		if datum.CipherData.CipherReference.URI == uri {
			return datum, true
		}
	}

	return Data{}, false
}

// Write writes the encryption XML structure
func (m Manifest) Write(w io.Writer) error {
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(m)
}

// Read parses the encryption XML structure
func Read(r io.Reader) (Manifest, error) {
	var m Manifest
	dec := xml.NewDecoder(r)
	// deal with non utf-8 xml files
	dec.CharsetReader = charset.NewReaderLabel
	err := dec.Decode(&m)

	return m, err
}

// URI is a string that serializes as an xs:anyURI attribute or element.
type URI string

// Method names the EncryptionMethod algorithm a resource was sealed
// under. AddResource leaves KeySize unset and nothing reads it back to
// drive decryption (the key's own byte length is what the transform
// checks).
type Method struct {
	KeySize   int `xml:"KeySize,omitempty"`
	Algorithm URI `xml:"Algorithm,attr,omitempty"`
}

// CipherReference names the zip member holding a resource's ciphertext.
type CipherReference struct {
	URI URI `xml:"URI,attr"`
}

type CipherData struct {
	CipherReference CipherReference `xml:"http://www.w3.org/2001/04/xmlenc# CipherReference"`
}

// KeyInfo names the symmetric key a resource was encrypted under, by
// the UUID pack.Writer minted for it; the key material itself is never
// serialized here — the reader re-derives it from the master key and
// the resource's archive path (internal/crypto.DeriveResourceKey).
type KeyInfo struct {
	KeyName string `xml:"KeyName,attr,omitempty"`
}

// Data is one manifest entry: how a single package resource was
// encrypted and where its ciphertext lives.
type Data struct {
	Method     Method     `xml:"http://www.w3.org/2001/04/xmlenc# EncryptionMethod"`
	KeyInfo    *KeyInfo   `xml:"http://www.w3.org/2000/09/xmldsig# KeyInfo"`
	CipherData CipherData `xml:"http://www.w3.org/2001/04/xmlenc# CipherData"`
	Type       URI        `xml:"Type,attr,omitempty"`
}
