// Copyright (c) 2026 ZimFiction. All rights reserved.

// Package web embeds the build stage's static assets — HTML templates,
// stylesheets, scripts, and images — so the resulting binary never reads
// a template directory off disk at runtime.
package web

import "embed"

// TemplatesFS holds layout.tmpl and every pages/*.tmpl content template.
//
//go:embed templates
var TemplatesFS embed.FS

// AssetsFS holds everything emitted verbatim into the ZIM as a global
// asset job (spec §4.1 phase 6): stylesheets, scripts, favicon.
//
//go:embed assets
var AssetsFS embed.FS
