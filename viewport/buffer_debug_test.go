//go:build debug

package viewport

import "testing"

func TestLoadTileOutsideWindowPanics(t *testing.T) {
	b := NewBuffer(numberedGrid(10, 10), nil, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 3, ViewHeight: 3, Margin: 1})
	b.Populate(2, 2)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic in debug builds")
		}
	}()
	_ = b.LoadTile(0, 2)
}
