// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package xmlenc

// Wire namespaces and element/attribute names, per the XML Encryption
// Syntax and Processing recommendation (http://www.w3.org/TR/xmlenc-core).
const (
	NsEnc  = "http://www.w3.org/2001/04/xmlenc#"
	NsDSig = "http://www.w3.org/2000/09/xmldsig#"

	ElemEncryptedData         = "EncryptedData"
	ElemEncryptedKey          = "EncryptedKey"
	ElemEncryptionMethod      = "EncryptionMethod"
	ElemCipherData            = "CipherData"
	ElemCipherValue           = "CipherValue"
	ElemCipherReference       = "CipherReference"
	ElemTransforms            = "Transforms"
	ElemTransform             = "Transform"
	ElemEncryptionProperties  = "EncryptionProperties"
	ElemReferenceList         = "ReferenceList"
	ElemCarriedKeyName        = "CarriedKeyName"
	ElemKeyInfo               = "KeyInfo"

	AttrID        = "Id"
	AttrType      = "Type"
	AttrMimeType  = "MimeType"
	AttrEncoding  = "Encoding"
	AttrRecipient = "Recipient"
	AttrURI       = "URI"
	AttrAlgorithm = "Algorithm"
)

// Type attribute values distinguishing whole-element from content-only
// replacement, per spec.md §3 and §4.5.
const (
	TypeElement = NsEnc + "Element"
	TypeContent = NsEnc + "Content"
)

// idAttrNames is the set of ID-typed attributes this package registers
// with a document's id index, mirroring xmlSecEncIds in xmlenc.c (the
// single attribute "Id").
var idAttrNames = []string{AttrID}
