// Copyright 2020 Readium Foundation. All rights reserved.
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE file exposed on Github (readium) in the project repository.

// Package grohllog wraps github.com/technoweenie/grohl (already a
// teacher dependency) with the small structured-logging surface the
// xmlenc core uses to report a failed operation (with the failing
// stage carried in the error, mirroring the way xmlSecError localizes
// a failing function name in the original implementation this
// processor is modeled on), and that the HTTP server and CLI use for
// their own events.
package grohllog

import "github.com/technoweenie/grohl"

// kv builds a grohl.Data from alternating key/value pairs, skipping a
// trailing unpaired key rather than panicking on it.
func kv(pairs ...interface{}) grohl.Data {
	d := grohl.Data{}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		d[key] = pairs[i+1]
	}
	return d
}

// Info logs a normal-path event: component ("xmlenc", "transform",
// "pack", ...), a short message, and optional key/value context.
func Info(component, msg string, pairs ...interface{}) {
	d := kv(pairs...)
	d["component"] = component
	d["msg"] = msg
	grohl.Log(d)
}

// Error logs a failure. Pass the error itself among pairs as
// ("err", err) for it to be rendered.
func Error(component, msg string, pairs ...interface{}) {
	d := kv(pairs...)
	d["component"] = component
	d["msg"] = msg
	d["level"] = "error"
	grohl.Log(d)
}
