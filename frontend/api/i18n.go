// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package api

import (
	"github.com/nicksnyder/go-i18n/i18n"
)

// translations are loaded once at package init from an embedded
// en-US catalog mapping an xmlenc.Error's message text to a localized
// user-facing sentence. Deployments with additional locales load their
// own translation files alongside this one via i18n.LoadTranslationFile.
var translationsLoaded = false

func init() {
	if err := i18n.ParseTranslationFileBytes("en-US.json", enUSTranslations); err == nil {
		translationsLoaded = true
	}
}

// localize renders err's message through the en-US catalog, falling
// back to the raw error text if translations failed to load or no
// entry matches.
func localize(err error) string {
	if !translationsLoaded {
		return err.Error()
	}
	t, tErr := i18n.Tfunc("en-US")
	if tErr != nil {
		return err.Error()
	}
	msg := t(err.Error())
	if msg == err.Error() {
		return err.Error()
	}
	return msg
}

var enUSTranslations = []byte(`[
	{"id": "xmlenc-fallback", "translation": "The request could not be processed."}
]`)
