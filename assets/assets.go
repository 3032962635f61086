// Package assets embeds the default catalog shipped with the bot.
package assets

import _ "embed"

// Catalog is the built-in catalog definition used when no catalog file is configured.
//
//go:embed catalog.yaml
var Catalog []byte
