package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilestream/viewport"
)

// Placement is where a slot lands on screen for a given translation.
func Placement(s *viewport.Slot, tileW, tileH int, translation image.Point) image.Rectangle {
	p := image.Pt(s.X+translation.X, s.Y+translation.Y)
	return image.Rectangle{Min: p, Max: p.Add(image.Pt(tileW, tileH))}
}

// DrawTiles draws every slot that overlaps screen and returns how many were drawn.
func DrawTiles(screen *ebiten.Image, slots func(func(*viewport.Slot)), tileW, tileH int, translation image.Point, cache *Cache) int {
	if screen == nil || slots == nil || cache == nil {
		return 0
	}
	bounds := screen.Bounds()
	drawn := 0
	op := &ebiten.DrawImageOptions{}
	slots(func(s *viewport.Slot) {
		if s.Image == nil {
			return
		}
		r := Placement(s, tileW, tileH, translation)
		if !r.Overlaps(bounds) {
			return
		}
		img := cache.Image(s.Image)
		if img == nil {
			return
		}
		op.GeoM.Reset()
		op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		screen.DrawImage(img, op)
		drawn++
	})
	return drawn
}
