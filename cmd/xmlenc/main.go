// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Command xmlenc is the CLI entry point: serve fronts the HTTP
// encrypt/decrypt surface, encrypt/decrypt drive a one-shot
// xmlenc.Context operation over files, grounded in style on
// guided-traffic-s3-encryption-proxy's cmd/s3-encryption-proxy/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "xmlenc",
	Short: "xmlenc drives an XML Encryption Syntax and Processing core",
	Long: `xmlenc is a standalone command line front end for the xmlenc core:
it can serve the HTTP encrypt/decrypt endpoints, or drive a single
encrypt/decrypt operation directly against files on disk.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to configuration file (YAML format)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xmlenc")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/xmlenc")
	}
	viper.SetEnvPrefix("XMLENC")
	viper.AutomaticEnv()
	// A missing config file is not fatal here; each subcommand surfaces
	// its own error if it actually needs values viper couldn't find.
	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "xmlenc: %v\n", err)
		os.Exit(1)
	}
}
