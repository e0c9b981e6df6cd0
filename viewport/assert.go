//go:build !debug

package viewport

// strictBounds turns window violations into panics. Enabled with -tags debug.
const strictBounds = false
