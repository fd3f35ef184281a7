// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	auth "github.com/abbot/go-http-auth"
	"github.com/rickb777/date"

	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

// keyFreshnessDays is the freshness window surfaced in the /encrypt
// response's KeyValidUntil field, mirroring the teacher's LCP license
// carrying a structured validity period.
const keyFreshnessDays = 7

// encryptRequest is the POST /encrypt body: an EncryptedData template
// (EncryptionMethod/KeyInfo already filled in, CipherValue empty) plus
// the Base64 plaintext payload to seal into it.
type encryptRequest struct {
	Template string `json:"template"`
	Payload  string `json:"payload"`
}

// encryptResponse carries the populated template back to the caller,
// along with a freshness window for the KeyInfo it names.
type encryptResponse struct {
	Result        string `json:"result"`
	KeyValidUntil string `json:"keyValidUntil"`
}

// decryptRequest is the POST /decrypt body: a complete EncryptedData
// instance to recover plaintext from.
type decryptRequest struct {
	Instance string `json:"instance"`
}

type decryptResponse struct {
	Payload string `json:"payload"`
}

type errorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// handleEncrypt drives xmlenc.Context.EncryptBinary over the request's
// template and payload, returning the serialized template, whose
// CipherValue now holds the Base64 ciphertext.
func (s *Server) handleEncrypt(w http.ResponseWriter, r *auth.AuthenticatedRequest) {
	var req encryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}
	payload, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	doc, err := domxml.ReadDocument(stringsReader(req.Template))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, s.Store)
	if err := ctx.EncryptBinary(doc.Root(), payload); err != nil {
		writeXMLEncError(w, err)
		return
	}

	var out strings.Builder
	if err := doc.Root().Serialize(&out); err != nil {
		writeError(w, http.StatusInternalServerError, err, "")
		return
	}

	freshness := date.Today().AddDate(0, 0, keyFreshnessDays)

	writeJSON(w, http.StatusOK, encryptResponse{
		Result:        out.String(),
		KeyValidUntil: freshness.String(),
	})
}

// handleDecrypt drives xmlenc.Context.DecryptToBuffer over the
// request's EncryptedData instance, returning the recovered plaintext
// as Base64.
func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req decryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	doc, err := domxml.ReadDocument(stringsReader(req.Instance))
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "")
		return
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, s.Store)
	plaintext, err := ctx.DecryptToBuffer(doc.Root())
	if err != nil {
		writeXMLEncError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, decryptResponse{
		Payload: base64.StdEncoding.EncodeToString(plaintext),
	})
}

// writeXMLEncError maps an *xmlenc.Error to an HTTP status and a
// localized JSON body (localize, i18n.go).
func writeXMLEncError(w http.ResponseWriter, err error) {
	xerr, ok := err.(*xmlenc.Error)
	if !ok {
		writeError(w, http.StatusInternalServerError, err, "")
		return
	}
	status := http.StatusUnprocessableEntity
	if xerr.Kind == xmlenc.KindKeyNotFound {
		status = http.StatusForbidden
	}
	writeError(w, status, err, xerr.Kind.String())
}

func writeError(w http.ResponseWriter, status int, err error, kind string) {
	writeJSON(w, status, errorResponse{Message: localize(err), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
