package viewport

import (
	"image"
	"testing"

	"github.com/milk9111/tilestream/tilemap"
)

// countingResolver records every ResolveTile call.
type countingResolver struct {
	grid  *tilemap.Grid
	calls int
}

func (r *countingResolver) ResolveTile(x, y int) int {
	r.calls++
	return r.grid.ResolveTile(x, y)
}

// gidImages hands out one distinct 1x1 image per gid; gid 0 gets empty.
type gidImages struct {
	empty image.Image
	imgs  map[int]image.Image
}

func newGIDImages() *gidImages {
	return &gidImages{
		empty: image.NewRGBA(image.Rect(0, 0, 1, 1)),
		imgs:  map[int]image.Image{},
	}
}

func (g *gidImages) Image(gid int) image.Image {
	if gid == 0 {
		return g.empty
	}
	img, ok := g.imgs[gid]
	if !ok {
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
		g.imgs[gid] = img
	}
	return img
}

// numberedGrid returns a w x h grid whose tile at (x, y) is x+y*w+1.
func numberedGrid(w, h int) *tilemap.Grid {
	data := make([]int, w*h)
	for i := range data {
		data[i] = i + 1
	}
	return tilemap.NewGrid(16, 16, w, data)
}

type recorder struct {
	frames []image.Point
	slots  int
}

func (r *recorder) Translated(p image.Point) { r.frames = append(r.frames, p) }
func (r *recorder) SlotsChanged()            { r.slots++ }

// checkRing verifies that every world tile in the window sits in the slot the
// ring mapping names and holds the tile the grid resolves.
func checkRing(t *testing.T, b *Buffer, grid TileResolver) {
	t.Helper()
	w := b.Window()
	seen := map[*Slot]bool{}
	for x := w.LeftColX; x < w.LeftColX+w.Width; x++ {
		for y := w.TopRowY; y < w.TopRowY+w.Height; y++ {
			i, j, ok := b.SlotOf(x, y)
			if !ok {
				t.Fatalf("(%d,%d) should be inside window %+v", x, y, w)
			}
			if i < 0 || i >= w.Width || j < 0 || j >= w.Height {
				t.Fatalf("(%d,%d) mapped out of range to (%d,%d)", x, y, i, j)
			}
			if wx, wy := w.WorldOf(i, j); wx != x || wy != y {
				t.Fatalf("WorldOf(%d,%d) = (%d,%d), want (%d,%d)", i, j, wx, wy, x, y)
			}
			s := b.Slot(i, j)
			if s == nil {
				t.Fatalf("slot (%d,%d) for (%d,%d) not allocated", i, j, x, y)
			}
			if seen[s] {
				t.Fatalf("slot (%d,%d) mapped twice", i, j)
			}
			seen[s] = true
			if s.TileX != x || s.TileY != y {
				t.Fatalf("slot for (%d,%d) holds (%d,%d)", x, y, s.TileX, s.TileY)
			}
			if want := grid.ResolveTile(x, y); s.Tile != want {
				t.Fatalf("slot for (%d,%d) has tile %d, want %d", x, y, s.Tile, want)
			}
			if s.X != x*16 || s.Y != y*16 {
				t.Fatalf("slot for (%d,%d) at pixel (%d,%d)", x, y, s.X, s.Y)
			}
		}
	}
}
