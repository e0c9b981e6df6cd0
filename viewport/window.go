package viewport

import "github.com/milk9111/tilestream/common"

// View is the visible window onto the world, in tiles.
type View struct {
	X, Y          int
	Width, Height int
}

// ViewSize returns how many tiles are needed to cover a screen of the given
// pixel size, rounding partial tiles up.
func ViewSize(screenW, screenH, tileW, tileH int) (int, int) {
	if tileW <= 0 || tileH <= 0 {
		return 0, 0
	}
	return (screenW + tileW - 1) / tileW, (screenH + tileH - 1) / tileH
}

// Window is the buffered region: the view plus a margin on every side.
// LeftColX/TopRowY are the world coordinates of its left/top edge and
// LeftColI/TopRowJ the ring indices that edge currently occupies.
type Window struct {
	LeftColX, TopRowY int
	LeftColI, TopRowJ int
	Width, Height     int
}

// Contains reports whether world tile (x, y) is inside the window.
func (w Window) Contains(x, y int) bool {
	return x >= w.LeftColX && x < w.LeftColX+w.Width &&
		y >= w.TopRowY && y < w.TopRowY+w.Height
}

// SlotOf maps world tile (x, y) to its ring slot.
func (w Window) SlotOf(x, y int) (i, j int, ok bool) {
	if !w.Contains(x, y) {
		return 0, 0, false
	}
	i = common.Mod(x-w.LeftColX+w.LeftColI, w.Width)
	j = common.Mod(y-w.TopRowY+w.TopRowJ, w.Height)
	return i, j, true
}

// WorldOf is the inverse of SlotOf: the world tile currently held by slot (i, j).
func (w Window) WorldOf(i, j int) (x, y int) {
	x = w.LeftColX + common.Mod(i-w.LeftColI, w.Width)
	y = w.TopRowY + common.Mod(j-w.TopRowJ, w.Height)
	return x, y
}
