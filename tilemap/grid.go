package tilemap

// Grid is the immutable world grid of one loaded map.
type Grid struct {
	TileWidth  int
	TileHeight int
	// Width is the number of tiles per row.
	Width int

	data []int
}

// NewGrid builds a grid over data. The slice is copied.
func NewGrid(tileW, tileH, width int, data []int) *Grid {
	return &Grid{
		TileWidth:  tileW,
		TileHeight: tileH,
		Width:      width,
		data:       append([]int(nil), data...),
	}
}

// Len returns the total layer length.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.data)
}

// Index returns the flat index of (x, y). It is only meaningful for in-range coordinates.
func (g *Grid) Index(x, y int) int {
	return x + y*g.Width
}

// ResolveTile returns the tile gid at world coordinate (x, y). Anything off the
// grid is empty (0). There is no explicit upper bound on y; the layer length
// is the only vertical limit.
func (g *Grid) ResolveTile(x, y int) int {
	if g == nil || g.Width <= 0 {
		return 0
	}
	if x < 0 || y < 0 || x >= g.Width {
		return 0
	}
	// rows past the layer length would overflow x + y*Width
	if x >= len(g.data) || y > (len(g.data)-1-x)/g.Width {
		return 0
	}
	idx := g.Index(x, y)
	if idx >= len(g.data) {
		return 0
	}
	return g.data[idx]
}

// Rows returns the number of complete or partial rows in the layer.
func (g *Grid) Rows() int {
	if g == nil || g.Width <= 0 {
		return 0
	}
	return (len(g.data) + g.Width - 1) / g.Width
}
