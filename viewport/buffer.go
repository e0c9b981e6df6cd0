// Package viewport keeps the tiles around the visible view resident in a fixed
// size ring buffer and scrolls it one tile at a time.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"log"
)

// DefaultMargin is the number of tiles buffered beyond each edge of the view.
const DefaultMargin = 1

var ErrOutsideWindow = errors.New("viewport: tile outside buffer window")

// TileResolver resolves a world tile coordinate to a tile gid, 0 for empty.
type TileResolver interface {
	ResolveTile(x, y int) int
}

// ImageSource returns the image for a tile gid.
type ImageSource interface {
	Image(gid int) image.Image
}

// Slot is one resident tile. Slots are created on first use and then
// reassigned in place as the buffer scrolls.
type Slot struct {
	Tile  int
	Image image.Image
	// TileX/TileY is the world tile held by the slot.
	TileX, TileY int
	// X/Y is the tile's world pixel position.
	X, Y int
}

// BufferConfig sizes a Buffer.
type BufferConfig struct {
	TileWidth  int
	TileHeight int
	ViewWidth  int
	ViewHeight int
	Margin     int
}

// Buffer is the ring buffer of slots covering the view plus margin.
type Buffer struct {
	grid   TileResolver
	images ImageSource

	tileW, tileH int
	margin       int

	view  View
	win   Window
	slots [][]*Slot

	loads     int
	rejected  int
	allocated int
}

// NewBuffer allocates an empty ring of (ViewWidth+2*Margin) x (ViewHeight+2*Margin)
// slots. The size never changes afterwards. Call Populate before use.
func NewBuffer(grid TileResolver, images ImageSource, cfg BufferConfig) *Buffer {
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	if cfg.ViewWidth < 1 {
		cfg.ViewWidth = 1
	}
	if cfg.ViewHeight < 1 {
		cfg.ViewHeight = 1
	}

	bw := cfg.ViewWidth + 2*cfg.Margin
	bh := cfg.ViewHeight + 2*cfg.Margin
	slots := make([][]*Slot, bw)
	for i := range slots {
		slots[i] = make([]*Slot, bh)
	}

	return &Buffer{
		grid:   grid,
		images: images,
		tileW:  cfg.TileWidth,
		tileH:  cfg.TileHeight,
		margin: cfg.Margin,
		view:   View{Width: cfg.ViewWidth, Height: cfg.ViewHeight},
		win:    Window{Width: bw, Height: bh},
		slots:  slots,
	}
}

// Populate loads every slot for a view whose top-left tile is (x, y).
func (b *Buffer) Populate(x, y int) {
	b.view.X = x
	b.view.Y = y
	b.win.LeftColX = x - b.margin
	b.win.TopRowY = y - b.margin
	b.win.LeftColI = 0
	b.win.TopRowJ = 0

	for tx := b.win.LeftColX; tx < b.win.LeftColX+b.win.Width; tx++ {
		for ty := b.win.TopRowY; ty < b.win.TopRowY+b.win.Height; ty++ {
			_ = b.LoadTile(tx, ty)
		}
	}
}

// Shift moves the window one tile in dir and reloads only the row or column
// that entered it. It returns the number of slots loaded.
func (b *Buffer) Shift(dir Direction) int {
	newCol, newRow := false, false
	var colX, rowY int

	switch dir {
	case Left:
		b.view.X--
		b.win.LeftColX--
		b.win.LeftColI = wrap(b.win.LeftColI-1, b.win.Width)
		newCol, colX = true, b.win.LeftColX
	case Right:
		b.view.X++
		b.win.LeftColX++
		b.win.LeftColI = wrap(b.win.LeftColI+1, b.win.Width)
		newCol, colX = true, b.win.LeftColX+b.win.Width-1
	case Up:
		b.view.Y--
		b.win.TopRowY--
		b.win.TopRowJ = wrap(b.win.TopRowJ-1, b.win.Height)
		newRow, rowY = true, b.win.TopRowY
	case Down:
		b.view.Y++
		b.win.TopRowY++
		b.win.TopRowJ = wrap(b.win.TopRowJ+1, b.win.Height)
		newRow, rowY = true, b.win.TopRowY+b.win.Height-1
	default:
		return 0
	}

	loaded := 0
	if newCol {
		for y := b.win.TopRowY; y < b.win.TopRowY+b.win.Height; y++ {
			if b.LoadTile(colX, y) == nil {
				loaded++
			}
		}
	}
	if newRow {
		for x := b.win.LeftColX; x < b.win.LeftColX+b.win.Width; x++ {
			if b.LoadTile(x, rowY) == nil {
				loaded++
			}
		}
	}
	return loaded
}

func wrap(i, n int) int {
	return (i + n) % n
}

// LoadTile (re)loads world tile (x, y) into its slot, creating the slot on
// first use. Coordinates outside the window are rejected: logged and counted,
// or a panic when built with -tags debug.
func (b *Buffer) LoadTile(x, y int) error {
	i, j, ok := b.win.SlotOf(x, y)
	if !ok {
		b.rejected++
		if strictBounds {
			panic(fmt.Sprintf("viewport: load (%d,%d) outside window %+v", x, y, b.win))
		}
		log.Printf("viewport: attempt to load tile (%d,%d) outside buffer window", x, y)
		return ErrOutsideWindow
	}

	s := b.slots[i][j]
	if s == nil {
		s = &Slot{}
		b.slots[i][j] = s
		b.allocated++
	}

	gid := 0
	if b.grid != nil {
		gid = b.grid.ResolveTile(x, y)
	}
	b.loads++

	s.Tile = gid
	if b.images != nil {
		s.Image = b.images.Image(gid)
	}
	s.TileX, s.TileY = x, y
	s.X, s.Y = x*b.tileW, y*b.tileH
	return nil
}

// SlotOf returns the ring indices holding world tile (x, y).
func (b *Buffer) SlotOf(x, y int) (i, j int, ok bool) {
	return b.win.SlotOf(x, y)
}

// SlotAt returns the slot for world tile (x, y), or nil outside the window.
func (b *Buffer) SlotAt(x, y int) *Slot {
	i, j, ok := b.win.SlotOf(x, y)
	if !ok {
		return nil
	}
	return b.slots[i][j]
}

// Slot returns the slot at ring indices (i, j).
func (b *Buffer) Slot(i, j int) *Slot {
	if i < 0 || i >= b.win.Width || j < 0 || j >= b.win.Height {
		return nil
	}
	return b.slots[i][j]
}

// Slots calls fn for every allocated slot.
func (b *Buffer) Slots(fn func(s *Slot)) {
	for _, col := range b.slots {
		for _, s := range col {
			if s != nil {
				fn(s)
			}
		}
	}
}

// Target returns the pixel translation that shows the current view.
func (b *Buffer) Target() image.Point {
	return image.Pt(-b.view.X*b.tileW, -b.view.Y*b.tileH)
}

func (b *Buffer) View() View           { return b.view }
func (b *Buffer) Window() Window       { return b.win }
func (b *Buffer) Margin() int          { return b.margin }
func (b *Buffer) Size() (int, int)     { return b.win.Width, b.win.Height }
func (b *Buffer) TileSize() (int, int) { return b.tileW, b.tileH }

// Loads returns how many tiles have been resolved since the buffer was created.
func (b *Buffer) Loads() int { return b.loads }

// Rejected returns how many loads fell outside the window.
func (b *Buffer) Rejected() int { return b.rejected }

// Allocated returns how many slot objects exist.
func (b *Buffer) Allocated() int { return b.allocated }
