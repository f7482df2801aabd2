package assets

import "embed"

// DemoFS embeds the static demo playground served at /demo/.
//
// NOTE: go:embed patterns must not use ".." and must be relative to this
// file. Keeping the embed source here (repo-root assets/) allows the
// serve command to ship the page inside the binary.
//
//go:embed demo
var DemoFS embed.FS
