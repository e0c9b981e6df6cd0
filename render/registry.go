package render

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Cache maps decoded tile images to GPU images so each fragment is uploaded
// once. Fragments that already are *ebiten.Image are returned as is.
type Cache struct {
	mu     sync.Mutex
	images map[image.Image]*ebiten.Image
}

func NewCache() *Cache {
	return &Cache{images: make(map[image.Image]*ebiten.Image)}
}

// Image returns the GPU image for img.
func (c *Cache) Image(img image.Image) *ebiten.Image {
	if img == nil {
		return nil
	}
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if eimg, ok := c.images[img]; ok {
		return eimg
	}
	eimg := ebiten.NewImageFromImage(img)
	c.images[img] = eimg
	return eimg
}

// Reset drops every cached image, e.g. after a map swap.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, img := range c.images {
		img.Deallocate()
		delete(c.images, k)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.images)
}
