// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/readium/xmlenc-core/xmlenc"
	"github.com/readium/xmlenc-core/xmlenc/domxml"
)

var (
	decryptInputPath  string
	decryptOutputPath string
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an EncryptedData instance to its plaintext",
	RunE:  runDecrypt,
}

func init() {
	decryptCmd.Flags().StringVar(&decryptInputPath, "in", "", "path to an EncryptedData instance (required)")
	decryptCmd.Flags().StringVar(&decryptOutputPath, "out", "", "path to write the recovered plaintext (required)")
	decryptCmd.MarkFlagRequired("in")
	decryptCmd.MarkFlagRequired("out")
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	store, err := loadKeyStore()
	if err != nil {
		return err
	}

	instanceFile, err := os.Open(decryptInputPath)
	if err != nil {
		return fmt.Errorf("open instance: %w", err)
	}
	defer instanceFile.Close()

	doc, err := domxml.ReadDocument(instanceFile)
	if err != nil {
		return fmt.Errorf("parse instance: %w", err)
	}

	ctx := xmlenc.NewContext(xmlenc.ModeEncryptedData, doc, store)
	plaintext, err := ctx.DecryptToBuffer(doc.Root())
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	return os.WriteFile(decryptOutputPath, plaintext, 0o644)
}
