// Package atlas builds the per-map tile atlas: every tileset image is loaded,
// then sliced into one image per global tile id.
package atlas

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/milk9111/tilestream/tilemap"
	"golang.org/x/sync/errgroup"
)

// Atlas maps tile gids to drawable fragments. It is immutable once built.
type Atlas struct {
	tiles []image.Image
	empty image.Image
	count int
}

// Options tune Build.
type Options struct {
	// Empty is returned for gid 0 and any gid without a fragment.
	Empty image.Image
	// Parallelism bounds concurrent tileset loads. <= 0 means unbounded.
	Parallelism int
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Build loads every tileset image through loader and slices them. Slicing only
// starts after all loads finished; the first load error cancels the remaining
// loads and is returned.
func Build(ctx context.Context, loader Loader, tilesets []tilemap.Tileset, opts Options) (*Atlas, error) {
	images, err := loadAll(ctx, loader, tilesets, opts.Parallelism)
	if err != nil {
		return nil, err
	}

	a := &Atlas{empty: opts.Empty}
	for i, ts := range tilesets {
		a.slice(ts, images[i])
	}
	return a, nil
}

func loadAll(ctx context.Context, loader Loader, tilesets []tilemap.Tileset, limit int) ([]image.Image, error) {
	if loader == nil && len(tilesets) > 0 {
		return nil, fmt.Errorf("atlas: nil loader")
	}

	images := make([]image.Image, len(tilesets))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ts := range tilesets {
		g.Go(func() error {
			img, err := loader.LoadImage(gctx, ts.Image)
			if err != nil {
				return fmt.Errorf("atlas: load tileset %q: %w", ts.Image, err)
			}
			if img == nil {
				return fmt.Errorf("atlas: load tileset %q: no image", ts.Image)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// a loader that ignores ctx can still finish after cancellation
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (a *Atlas) slice(ts tilemap.Tileset, img image.Image) {
	cols := ts.Columns()
	total := ts.TileCount()
	if cols <= 0 || total <= 0 {
		log.Printf("atlas: tileset %q has no whole tiles (%dx%d image, %dx%d tiles)", ts.Image, ts.ImageWidth, ts.ImageHeight, ts.TileWidth, ts.TileHeight)
		return
	}

	bounds := img.Bounds()
	a.grow(ts.FirstGID + total)
	for i := 0; i < total; i++ {
		r := image.Rect(
			(i%cols)*ts.TileWidth,
			(i/cols)*ts.TileHeight,
			(i%cols+1)*ts.TileWidth,
			(i/cols+1)*ts.TileHeight,
		).Add(bounds.Min)
		if !r.In(bounds) {
			log.Printf("atlas: tileset %q tile %d outside image bounds %v", ts.Image, i, bounds)
			continue
		}
		gid := ts.FirstGID + i
		if gid < 0 {
			continue
		}
		if a.tiles[gid] == nil {
			a.count++
		}
		a.tiles[gid] = crop(img, r)
	}
}

func (a *Atlas) grow(n int) {
	if n <= len(a.tiles) {
		return
	}
	tiles := make([]image.Image, n)
	copy(tiles, a.tiles)
	a.tiles = tiles
}

func crop(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// Image returns the fragment for gid, or the empty image.
func (a *Atlas) Image(gid int) image.Image {
	if a == nil {
		return nil
	}
	if gid > 0 && gid < len(a.tiles) && a.tiles[gid] != nil {
		return a.tiles[gid]
	}
	return a.empty
}

// Has reports whether gid has its own fragment.
func (a *Atlas) Has(gid int) bool {
	return a != nil && gid > 0 && gid < len(a.tiles) && a.tiles[gid] != nil
}

// Empty returns the designated empty-tile image.
func (a *Atlas) Empty() image.Image {
	if a == nil {
		return nil
	}
	return a.empty
}

// Len returns the number of gids with a fragment.
func (a *Atlas) Len() int {
	if a == nil {
		return 0
	}
	return a.count
}
