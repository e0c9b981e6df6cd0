package render

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilestream/atlas"
)

// Loader uploads tileset sheets as they load, so the atlas slices them with
// SubImage and every tile of a sheet shares one texture.
type Loader struct {
	Next atlas.Loader
}

func (l Loader) LoadImage(ctx context.Context, name string) (image.Image, error) {
	img, err := l.Next.LoadImage(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, ok := img.(*ebiten.Image); ok {
		return img, nil
	}
	return ebiten.NewImageFromImage(img), nil
}
