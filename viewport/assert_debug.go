//go:build debug

package viewport

const strictBounds = true
