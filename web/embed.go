package web

import "embed"

// StaticFS embeds the single-page frontend.
//
//go:embed static/*
var StaticFS embed.FS
