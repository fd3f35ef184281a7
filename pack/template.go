// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package pack

import (
	"fmt"
	"strings"

	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

// buildEncryptedDataXML renders a minimal, well-formed EncryptedData
// element driving xmlenc.Context: algorithm selects the encryption
// method, keyName names the KeyInfo/KeyName entry the configured
// keyinfo.Store resolves, and cipherValueText is either empty (an
// encrypt template) or the Base64 ciphertext to decrypt.
func buildEncryptedDataXML(algorithm, keyName, cipherValueText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<xenc:EncryptedData Type="%s" xmlns:xenc="%s" xmlns:ds="%s">`,
		xmlenc.TypeElement, xmlenc.NsEnc, xmlenc.NsDSig)
	fmt.Fprintf(&b, `<xenc:EncryptionMethod Algorithm="%s"/>`, algorithm)
	fmt.Fprintf(&b, `<ds:KeyInfo><ds:KeyName>%s</ds:KeyName></ds:KeyInfo>`, keyName)
	b.WriteString(`<xenc:CipherData><xenc:CipherValue>`)
	b.WriteString(cipherValueText)
	b.WriteString(`</xenc:CipherValue></xenc:CipherData>`)
	b.WriteString(`</xenc:EncryptedData>`)
	return b.String()
}

// parseEncryptedDataNode parses a standalone EncryptedData document
// (one rendered by buildEncryptedDataXML) into a domxml.Node the core
// can drive directly.
func parseEncryptedDataNode(xmlText string) (domxml.Node, domxml.Document, error) {
	doc, err := domxml.ReadDocument(strings.NewReader(xmlText))
	if err != nil {
		return nil, nil, fmt.Errorf("pack: parse EncryptedData template: %w", err)
	}
	return doc.Root(), doc, nil
}
