package viewport

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/tilestream/tilemap"
)

func TestPopulateSmallMap(t *testing.T) {
	grid := tilemap.NewGrid(16, 16, 3, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	images := newGIDImages()
	vw, vh := ViewSize(32, 32, 16, 16)
	b := NewBuffer(grid, images, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: vw, ViewHeight: vh, Margin: 1})
	b.Populate(0, 0)

	w := b.Window()
	if w.LeftColX != -1 || w.TopRowY != -1 {
		t.Fatalf("expected window origin (-1,-1), got (%d,%d)", w.LeftColX, w.TopRowY)
	}
	if w.Width != vw+2 || w.Height != vh+2 {
		t.Fatalf("expected %dx%d buffer, got %dx%d", vw+2, vh+2, w.Width, w.Height)
	}
	if !w.Contains(-1, 0) || !w.Contains(vw, 0) || w.Contains(vw+1, 0) || w.Contains(-2, 0) {
		t.Fatalf("window should cover x in [-1,%d]", vw)
	}

	s := b.SlotAt(1, 1)
	if s == nil || s.Tile != 5 {
		t.Fatalf("expected tile 5 at (1,1), got %+v", s)
	}
	if s.Image != images.Image(5) {
		t.Fatalf("slot image should come from the atlas")
	}
	if edge := b.SlotAt(-1, -1); edge == nil || edge.Tile != 0 || edge.Image != images.empty {
		t.Fatalf("expected empty tile outside the grid, got %+v", edge)
	}
	if b.Allocated() != w.Width*w.Height {
		t.Fatalf("expected %d slots, got %d", w.Width*w.Height, b.Allocated())
	}
	if got := b.Target(); got.X != 0 || got.Y != 0 {
		t.Fatalf("expected zero translation, got %v", got)
	}
	checkRing(t, b, grid)
}

func TestPopulateIdempotent(t *testing.T) {
	grid := numberedGrid(20, 20)
	b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 4, ViewHeight: 3, Margin: 1})
	b.Populate(5, 6)
	first := map[[2]int]int{}
	b.Slots(func(s *Slot) { first[[2]int{s.TileX, s.TileY}] = s.Tile })
	allocated := b.Allocated()

	b.Shift(Right)
	b.Shift(Down)
	b.Populate(5, 6)

	second := map[[2]int]int{}
	b.Slots(func(s *Slot) { second[[2]int{s.TileX, s.TileY}] = s.Tile })
	if len(first) != len(second) {
		t.Fatalf("slot count changed: %d vs %d", len(first), len(second))
	}
	for k, v := range first {
		if second[k] != v {
			t.Fatalf("tile at %v changed from %d to %d", k, v, second[k])
		}
	}
	if b.Allocated() != allocated {
		t.Fatalf("populate should reuse slots, allocated %d -> %d", allocated, b.Allocated())
	}
	checkRing(t, b, grid)
}

func TestSlotOfStable(t *testing.T) {
	b := NewBuffer(numberedGrid(10, 10), nil, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 3, ViewHeight: 3, Margin: 1})
	b.Populate(2, 2)
	for x := 1; x < 6; x++ {
		for y := 1; y < 6; y++ {
			i1, j1, ok1 := b.SlotOf(x, y)
			i2, j2, ok2 := b.SlotOf(x, y)
			if !ok1 || !ok2 || i1 != i2 || j1 != j2 {
				t.Fatalf("SlotOf(%d,%d) unstable: (%d,%d,%v) vs (%d,%d,%v)", x, y, i1, j1, ok1, i2, j2, ok2)
			}
		}
	}
	if _, _, ok := b.SlotOf(0, 2); ok {
		t.Fatalf("(0,2) is outside the window")
	}
}

func TestShiftRepopulatesOneLine(t *testing.T) {
	cases := []struct {
		dir  Direction
		want func(bw, bh int) int
	}{
		{Left, func(bw, bh int) int { return bh }},
		{Right, func(bw, bh int) int { return bh }},
		{Up, func(bw, bh int) int { return bw }},
		{Down, func(bw, bh int) int { return bw }},
	}
	for _, c := range cases {
		t.Run(c.dir.String(), func(t *testing.T) {
			grid := &countingResolver{grid: numberedGrid(30, 30)}
			// non-square so width/height mixups show up
			b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 5, ViewHeight: 2, Margin: 1})
			b.Populate(10, 10)
			bw, bh := b.Size()

			before := map[*Slot][3]int{}
			b.Slots(func(s *Slot) { before[s] = [3]int{s.Tile, s.TileX, s.TileY} })
			allocated := b.Allocated()
			grid.calls = 0

			loaded := b.Shift(c.dir)
			want := c.want(bw, bh)
			if grid.calls != want || loaded != want {
				t.Fatalf("expected %d resolves, got %d calls and %d loaded", want, grid.calls, loaded)
			}
			if b.Allocated() != allocated {
				t.Fatalf("shift allocated new slots: %d -> %d", allocated, b.Allocated())
			}

			changed := 0
			b.Slots(func(s *Slot) {
				if before[s] != [3]int{s.Tile, s.TileX, s.TileY} {
					changed++
				}
			})
			if changed != want {
				t.Fatalf("expected %d reassigned slots, got %d", want, changed)
			}
			checkRing(t, b, grid.grid)
		})
	}
}

func TestShiftRightFromOrigin(t *testing.T) {
	grid := tilemap.NewGrid(16, 16, 3, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 2, ViewHeight: 2, Margin: 1})
	b.Populate(0, 0)
	oldLeft := b.Window().LeftColX
	bw, _ := b.Size()

	b.Shift(Right)
	if v := b.View(); v.X != 1 || v.Y != 0 {
		t.Fatalf("expected view (1,0), got (%d,%d)", v.X, v.Y)
	}
	newCol := oldLeft + bw
	for y := b.Window().TopRowY; y < b.Window().TopRowY+b.Window().Height; y++ {
		s := b.SlotAt(newCol, y)
		if s == nil || s.TileX != newCol || s.TileY != y {
			t.Fatalf("column %d not repopulated at y=%d: %+v", newCol, y, s)
		}
		if s.Tile != grid.ResolveTile(newCol, y) {
			t.Fatalf("column %d y=%d: tile %d, want %d", newCol, y, s.Tile, grid.ResolveTile(newCol, y))
		}
	}
	if got := b.Target(); got.X != -16 || got.Y != 0 {
		t.Fatalf("expected target (-16,0), got %v", got)
	}
	checkRing(t, b, grid)
}

func TestShiftWrapsRingIndices(t *testing.T) {
	b := NewBuffer(numberedGrid(10, 10), nil, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 4, ViewHeight: 2, Margin: 1})
	b.Populate(3, 3)
	bw, bh := b.Size()

	b.Shift(Left)
	b.Shift(Up)
	w := b.Window()
	if w.LeftColI != bw-1 || w.TopRowJ != bh-1 {
		t.Fatalf("expected ring origin (%d,%d), got (%d,%d)", bw-1, bh-1, w.LeftColI, w.TopRowJ)
	}

	for i := 0; i < bh; i++ {
		b.Shift(Down)
	}
	if got := b.Window().TopRowJ; got != bh-1 {
		t.Fatalf("a full cycle of %d downs should return TopRowJ to %d, got %d", bh, bh-1, got)
	}
}

func TestShiftRandomWalkKeepsRing(t *testing.T) {
	grid := numberedGrid(12, 9)
	b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 4, ViewHeight: 3, Margin: 2})
	b.Populate(0, 0)
	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 300; step++ {
		b.Shift(Directions[rng.Intn(len(Directions))])
		checkRing(t, b, grid)
	}
	if b.Rejected() != 0 {
		t.Fatalf("no load should fall outside the window, got %d", b.Rejected())
	}
}

func TestShiftPastWorldEdge(t *testing.T) {
	grid := numberedGrid(3, 3)
	b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 2, ViewHeight: 2, Margin: 1})
	b.Populate(0, 0)
	for i := 0; i < 10; i++ {
		b.Shift(Left)
		b.Shift(Up)
	}
	b.Slots(func(s *Slot) {
		if s.Tile != 0 {
			t.Fatalf("expected only empty tiles beyond the world edge, got %d at (%d,%d)", s.Tile, s.TileX, s.TileY)
		}
	})
	if v := b.View(); v.X != -10 || v.Y != -10 {
		t.Fatalf("expected view (-10,-10), got (%d,%d)", v.X, v.Y)
	}
}

func TestPopulateFarBelowWorld(t *testing.T) {
	grid := numberedGrid(3, 3)
	b := NewBuffer(grid, newGIDImages(), BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 2, ViewHeight: 2, Margin: 1})
	b.Populate(0, math.MaxInt/4)
	b.Slots(func(s *Slot) {
		if s.Tile != 0 {
			t.Fatalf("expected empty tiles far below the world, got %d at (%d,%d)", s.Tile, s.TileX, s.TileY)
		}
	})
}

func TestShiftInvalidDirection(t *testing.T) {
	b := NewBuffer(numberedGrid(3, 3), nil, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 2, ViewHeight: 2, Margin: 1})
	b.Populate(0, 0)
	before := b.Window()
	if n := b.Shift(None); n != 0 {
		t.Fatalf("expected no loads, got %d", n)
	}
	if b.Window() != before {
		t.Fatalf("window changed on invalid shift")
	}
}

func TestNewBufferClampsConfig(t *testing.T) {
	b := NewBuffer(nil, nil, BufferConfig{TileWidth: 16, TileHeight: 16, ViewWidth: 0, ViewHeight: -3, Margin: -1})
	if w, h := b.Size(); w != 1 || h != 1 {
		t.Fatalf("expected 1x1 buffer, got %dx%d", w, h)
	}
	b.Populate(4, 4)
	if s := b.SlotAt(4, 4); s == nil || s.Tile != 0 {
		t.Fatalf("nil grid should populate empty tiles, got %+v", s)
	}
}

func TestViewSize(t *testing.T) {
	cases := []struct {
		sw, sh, tw, th int
		w, h           int
	}{
		{640, 480, 16, 16, 40, 30},
		{650, 481, 16, 16, 41, 31},
		{15, 15, 16, 16, 1, 1},
		{100, 100, 0, 16, 0, 0},
	}
	for _, c := range cases {
		if w, h := ViewSize(c.sw, c.sh, c.tw, c.th); w != c.w || h != c.h {
			t.Fatalf("ViewSize(%d,%d,%d,%d) = %d,%d, want %d,%d", c.sw, c.sh, c.tw, c.th, w, h, c.w, c.h)
		}
	}
}
