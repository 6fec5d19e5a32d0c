// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package web bundles the dashboard frontend into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static returns the dashboard asset tree rooted at its index.html.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The static directory is embedded at build time; a failure here
		// means a broken build, not a runtime condition.
		panic(err)
	}
	return sub
}
