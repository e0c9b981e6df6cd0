package maps

import "embed"

// FS holds the bundled maps and their tileset images under img/.
//
//go:embed *.json img/*.png
var FS embed.FS
