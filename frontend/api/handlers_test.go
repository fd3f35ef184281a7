// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auth "github.com/abbot/go-http-auth"
	"github.com/stretchr/testify/require"

	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
)

const handlerTestTemplate = `<xenc:EncryptedData Type="http://www.w3.org/2001/04/xmlenc#Element"
  xmlns:xenc="http://www.w3.org/2001/04/xmlenc#" xmlns:ds="http://www.w3.org/2000/09/xmldsig#">
  <xenc:EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes256-cbc"/>
  <ds:KeyInfo><ds:KeyName>k1</ds:KeyName></ds:KeyInfo>
  <xenc:CipherData><xenc:CipherValue></xenc:CipherValue></xenc:CipherData>
</xenc:EncryptedData>`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := keyinfo.NewStore()
	store.AddSymmetric("k1", make([]byte, 32))
	return &Server{Store: store}
}

func postJSON(body interface{}) *http.Request {
	b, _ := json.Marshal(body)
	return httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
}

func TestHandleEncryptThenHandleDecryptRoundTrip(t *testing.T) {
	s := newTestServer(t)

	payload := base64.StdEncoding.EncodeToString([]byte("hello, api"))
	req := &auth.AuthenticatedRequest{Request: *postJSON(encryptRequest{Template: handlerTestTemplate, Payload: payload})}
	rec := httptest.NewRecorder()
	s.handleEncrypt(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var encResp encryptResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&encResp))
	require.NotEmpty(t, encResp.Result)
	require.NotEmpty(t, encResp.KeyValidUntil)

	decReq := postJSON(decryptRequest{Instance: encResp.Result})
	decRec := httptest.NewRecorder()
	s.handleDecrypt(decRec, decReq)

	require.Equal(t, http.StatusOK, decRec.Code)
	var decResp decryptResponse
	require.NoError(t, json.NewDecoder(decRec.Body).Decode(&decResp))
	plaintext, err := base64.StdEncoding.DecodeString(decResp.Payload)
	require.NoError(t, err)
	require.Equal(t, "hello, api", string(plaintext))
}

func TestHandleEncryptRejectsBadPayload(t *testing.T) {
	s := newTestServer(t)
	req := &auth.AuthenticatedRequest{Request: *postJSON(encryptRequest{Template: handlerTestTemplate, Payload: "not base64!!"})}
	rec := httptest.NewRecorder()
	s.handleEncrypt(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDecryptUnsatisfiedKeyReturnsForbidden(t *testing.T) {
	s := newTestServer(t)
	s.Store = keyinfo.NewStore() // no keys registered

	instance := strings.Replace(handlerTestTemplate, "<xenc:CipherValue></xenc:CipherValue>",
		"<xenc:CipherValue>aGVsbG8=</xenc:CipherValue>", 1)
	req := postJSON(decryptRequest{Instance: instance})
	rec := httptest.NewRecorder()
	s.handleDecrypt(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	var errResp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	require.NotEmpty(t, errResp.Kind)
}
