// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package config loads the YAML configuration the server and CLI
// entry points use to construct xmlenc core collaborators: key-store
// definitions, database connection settings and the HTTP server's own
// knobs. The xmlenc core package itself never reads a file; everything
// here exists to build the things that are passed into it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the top-level document read from a YAML file, e.g.
//
//	keystore:
//	  symmetric:
//	    k1: "000102030405060708090a0b0c0d0e0f"
//	  rsa:
//	    signer: "/etc/xmlenc/signer.pem"
//	database:
//	  driver: sqlite3
//	  dsn: "file:transactions.db"
//	server:
//	  addr: ":8989"
//	  debug_delay_ms: 0
type Config struct {
	KeyStore KeyStoreConfig `yaml:"keystore"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
}

// KeyStoreConfig names the key material the server-side key manager
// should load at startup.
type KeyStoreConfig struct {
	// Symmetric maps a KeyName to a hex-encoded symmetric key.
	Symmetric map[string]string `yaml:"symmetric"`
	// RSA maps a KeyName to a PEM file path holding an RSA private key.
	RSA map[string]string `yaml:"rsa"`
}

// DatabaseConfig selects the SQL driver and DSN the transactions
// package's audit log connects with.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ServerConfig holds the HTTP frontend's own settings.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	DebugDelayMillis int    `yaml:"debug_delay_ms"`
	BasicAuthUser    string `yaml:"basic_auth_user"`
	BasicAuthPass    string `yaml:"basic_auth_pass"`
	CORSOrigins      []string `yaml:"cors_origins"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}
