// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

package transform

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// uriFetchClient is the HTTP client used to resolve CipherReference URIs
// that name a remote resource. A bounded timeout keeps a malformed or
// hostile reference from hanging the pipeline indefinitely.
var uriFetchClient = &http.Client{Timeout: 30 * time.Second}

// fetchURI loads the bytes a CipherReference URI points at
// (xmlSecTransformUriTypeEmpty is rejected upstream by SetURI). Only
// file and http(s) schemes are resolved; a bare path with no scheme is
// treated as a local file path, matching libxml2's default URI loader
// behavior for unprefixed references.
func fetchURI(uri string) ([]byte, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("uri: parse %q: %w", uri, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "file":
		// "file:plain.bin" parses as an opaque URI (Scheme="file",
		// Opaque="plain.bin", Path=""), not a hierarchical one; only
		// fall back to the raw input when neither Path nor Opaque is
		// set, i.e. a bare unprefixed path with no scheme at all.
		path := parsed.Path
		if path == "" {
			path = parsed.Opaque
		}
		if path == "" {
			path = uri
		}
		return os.ReadFile(path)
	case "http", "https":
		resp, err := uriFetchClient.Get(uri)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("uri: %s returned status %d", uri, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	default:
		return nil, fmt.Errorf("uri: unsupported scheme %q", parsed.Scheme)
	}
}
