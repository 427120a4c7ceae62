// Package web embeds the HTML templates and static assets of the web UI.
package web

import "embed"

// TemplatesFS holds the server-side templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets and other static assets.
//
//go:embed static/*
var StaticFS embed.FS
