package web

import "embed"

// Templates embeds the HTML templates.
//
//go:embed templates
var Templates embed.FS

// Static embeds CSS and JavaScript assets.
//
//go:embed static
var Static embed.FS
