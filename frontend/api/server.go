// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package api is the HTTP surface driving xmlenc.Context over the
// network, adapted from the teacher's frontend/api publication
// handlers: the same gorilla/mux + negroni + rs/cors wiring, now
// fronting two endpoints instead of a publication catalog.
package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"

	auth "github.com/abbot/go-http-auth"
	"github.com/claudiu/gocron"
	"github.com/gorilla/mux"
	"github.com/jeffbmartinez/delay"
	"github.com/rs/cors"
	"github.com/urfave/negroni"

	"github.com/readium/xmlenc-core/internal/config"
	"github.com/readium/xmlenc-core/internal/grohllog"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
)

// Server holds the collaborators the encrypt/decrypt handlers need:
// the key store driving KeyInfo resolution, and the configured basic
// auth credentials guarding /encrypt.
type Server struct {
	Store  *keyinfo.Store
	Config *config.Config
}

// Router builds the full middleware chain and route table: CORS, the
// request logger, optional artificial latency, basic auth on
// /encrypt, and the encrypt/decrypt handlers themselves.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	authenticator := auth.NewBasicAuthenticator("xmlenc-core", s.secretProvider)
	r.HandleFunc("/encrypt", authenticator.Wrap(s.handleEncrypt)).Methods(http.MethodPost)
	r.HandleFunc("/decrypt", s.handleDecrypt).Methods(http.MethodPost)

	n := negroni.New(negroni.NewRecovery(), negroni.NewLogger())
	if s.Config != nil && s.Config.Server.DebugDelayMillis > 0 {
		n.Use(negroni.HandlerFunc(delayMiddleware))
	}
	n.UseHandler(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return corsHandler.Handler(n)
}

func (s *Server) corsOrigins() []string {
	if s.Config == nil || len(s.Config.Server.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.Config.Server.CORSOrigins
}

// secretProvider implements abbot/go-http-auth's SecretProvider,
// returning the MD5-crypted configured password for the configured
// user and the empty string (deny) otherwise.
func (s *Server) secretProvider(user, realm string) string {
	if s.Config == nil || user != s.Config.Server.BasicAuthUser {
		return ""
	}
	sum := md5.Sum([]byte(s.Config.Server.BasicAuthPass))
	return hex.EncodeToString(sum[:])
}

// delayMiddleware calls jeffbmartinez/delay's artificial-latency hook,
// which sleeps according to its own DELAY_FIXED/DELAY_MIN/DELAY_MAX
// environment variables, for load-testing deployments that opt in via
// configuration.
func delayMiddleware(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	delay.Delay()
	next(w, r)
}

// StartKeyFreshnessCheck schedules an hourly job (via claudiu/gocron)
// that logs, through grohl, how many keys the store holds; it does not
// inspect key files or their age. The core never calls this itself; it
// is a deployment-
// level diagnostic spec.md explicitly keeps out of the processing core.
func StartKeyFreshnessCheck(store *keyinfo.Store) {
	gocron.Every(1).Hour().Do(func() {
		grohllog.Info("frontend", "key store freshness check", "keys", store.Len())
	})
	gocron.Start()
}
