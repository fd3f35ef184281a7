// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import "fmt"

// Algorithm URIs recognized by this transform runtime, grounded on
// SPEC_FULL.md §4.6.
const (
	AlgAES128CBC = "http://www.w3.org/2001/04/xmlenc#aes128-cbc"
	AlgAES192CBC = "http://www.w3.org/2001/04/xmlenc#aes192-cbc"
	AlgAES256CBC = "http://www.w3.org/2001/04/xmlenc#aes256-cbc"

	AlgAES128GCM = "http://www.w3.org/2009/xmlenc11#aes128-gcm"
	AlgAES192GCM = "http://www.w3.org/2009/xmlenc11#aes192-gcm"
	AlgAES256GCM = "http://www.w3.org/2009/xmlenc11#aes256-gcm"

	AlgKWAES128 = "http://www.w3.org/2001/04/xmlenc#kw-aes128"
	AlgKWAES192 = "http://www.w3.org/2001/04/xmlenc#kw-aes192"
	AlgKWAES256 = "http://www.w3.org/2001/04/xmlenc#kw-aes256"

	AlgRSAOAEP = "http://www.w3.org/2001/04/xmlenc#rsa-oaep-mgf1p"

	AlgBase64 = "http://www.w3.org/2000/09/xmldsig#base64"

	AlgXSLT = "http://www.w3.org/TR/1999/REC-xslt-19991116"
)

type constructor func() (Transform, error)

var registry = map[string]constructor{
	AlgAES128CBC: func() (Transform, error) { return newAESCBC(16), nil },
	AlgAES192CBC: func() (Transform, error) { return newAESCBC(24), nil },
	AlgAES256CBC: func() (Transform, error) { return newAESCBC(32), nil },

	AlgAES128GCM: func() (Transform, error) { return newAESGCM(16), nil },
	AlgAES192GCM: func() (Transform, error) { return newAESGCM(24), nil },
	AlgAES256GCM: func() (Transform, error) { return newAESGCM(32), nil },

	AlgKWAES128: func() (Transform, error) { return newKeyWrap(16), nil },
	AlgKWAES192: func() (Transform, error) { return newKeyWrap(24), nil },
	AlgKWAES256: func() (Transform, error) { return newKeyWrap(32), nil },

	AlgRSAOAEP: func() (Transform, error) { return newRSAOAEP(), nil },

	AlgBase64: func() (Transform, error) { return newBase64(), nil },

	AlgXSLT: func() (Transform, error) { return newXSLT(), nil },
}

// Build constructs a Transform for algorithm, or an AlgorithmError-class
// failure ("unknown algorithm" per spec.md §7) if it is not registered.
func Build(algorithm string) (Transform, error) {
	ctor, ok := registry[algorithm]
	if !ok {
		return nil, fmt.Errorf("transform: unknown algorithm %q", algorithm)
	}
	return ctor()
}
