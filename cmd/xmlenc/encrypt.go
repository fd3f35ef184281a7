// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readium/xmlenc-core/internal/config"
	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
	"github.com/readium/xmlenc-core/xmlenc/keyinfo"
)

var (
	encryptTemplatePath string
	encryptInputPath    string
	encryptOutputPath   string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a file into an EncryptedData template",
	RunE:  runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVar(&encryptTemplatePath, "template", "", "path to an EncryptedData template (required)")
	encryptCmd.Flags().StringVar(&encryptInputPath, "in", "", "plaintext input file (required)")
	encryptCmd.Flags().StringVar(&encryptOutputPath, "out", "", "path to write the populated template (required)")
	encryptCmd.MarkFlagRequired("template")
	encryptCmd.MarkFlagRequired("in")
	encryptCmd.MarkFlagRequired("out")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	store, err := loadKeyStore()
	if err != nil {
		return err
	}

	templateFile, err := os.Open(encryptTemplatePath)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer templateFile.Close()

	doc, err := domxml.ReadDocument(templateFile)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	plaintext, err := os.ReadFile(encryptInputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	if err := ctx.EncryptBinary(doc.Root(), plaintext); err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	out, err := os.Create(encryptOutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	return doc.Root().Serialize(out)
}

func loadKeyStore() (*keyinfo.Store, error) {
	if cfgFile == "" {
		return nil, fmt.Errorf("--config is required to resolve key material")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return config.BuildKeyStore(cfg.KeyStore)
}
