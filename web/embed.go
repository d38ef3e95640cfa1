// Package web embeds the static single-page shell served at the site root.
// All real functionality lives behind the JSON API; the shell only boots
// the client.
package web

import "embed"

// Static embeds the shell and its assets.
//
//go:embed static/*
var Static embed.FS
