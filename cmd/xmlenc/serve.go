// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/readium/xmlenc-core/frontend/api"
	"github.com/readium/xmlenc-core/internal/config"
	"github.com/readium/xmlenc-core/internal/grohllog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP encrypt/decrypt endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath := viper.GetString("config_path")
	if cfgFile != "" {
		cfgPath = cfgFile
	}
	var cfg *config.Config
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{Server: config.ServerConfig{Addr: ":8989"}}
	}

	store, err := config.BuildKeyStore(cfg.KeyStore)
	if err != nil {
		return err
	}

	server := &api.Server{Store: store, Config: cfg}
	api.StartKeyFreshnessCheck(store)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8989"
	}
	grohllog.Info("xmlenc-serve", "listening", "addr", addr)
	return http.ListenAndServe(addr, server.Router())
}
