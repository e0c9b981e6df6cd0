package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"path"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Loader loads a decoded tileset image by the name used in the map document.
type Loader interface {
	LoadImage(ctx context.Context, name string) (image.Image, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, name string) (image.Image, error)

func (f LoaderFunc) LoadImage(ctx context.Context, name string) (image.Image, error) {
	return f(ctx, name)
}

// FSLoader decodes tileset images from an fs.FS below Dir.
type FSLoader struct {
	FS  fs.FS
	Dir string
}

func (l FSLoader) LoadImage(ctx context.Context, name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("empty image name")
	}
	if l.FS == nil {
		return nil, fs.ErrNotExist
	}

	var lastErr error
	for _, p := range l.candidates(name) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := l.FS.Open(p)
		if err != nil {
			lastErr = err
			continue
		}
		img, _, err := image.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		return img, nil
	}
	if lastErr == nil {
		lastErr = fs.ErrNotExist
	}
	return nil, lastErr
}

func (l FSLoader) candidates(name string) []string {
	s := strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "/")
	tried := []string{path.Join(l.Dir, s), path.Join(l.Dir, path.Base(s)), s}
	out := tried[:0]
	seen := map[string]bool{}
	for _, p := range tried {
		if seen[p] || !fs.ValidPath(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Loaders tries each loader in order; only not-exist errors fall through.
type Loaders []Loader

func (ls Loaders) LoadImage(ctx context.Context, name string) (image.Image, error) {
	for _, l := range ls {
		if l == nil {
			continue
		}
		img, err := l.LoadImage(ctx, name)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("image %s: %w", name, fs.ErrNotExist)
}

// CachingLoader remembers decoded images by name so reloading a map does not
// decode its tilesets again. Safe for concurrent use.
type CachingLoader struct {
	Loader Loader

	mu     sync.Mutex
	images map[string]image.Image
}

func NewCachingLoader(l Loader) *CachingLoader {
	return &CachingLoader{Loader: l, images: map[string]image.Image{}}
}

func (c *CachingLoader) LoadImage(ctx context.Context, name string) (image.Image, error) {
	if img := c.get(name); img != nil {
		return img, nil
	}
	img, err := c.Loader.LoadImage(ctx, name)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.images == nil {
		c.images = map[string]image.Image{}
	}
	c.images[name] = img
	c.mu.Unlock()
	return img, nil
}

func (c *CachingLoader) get(name string) image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images[name]
}

// Forget drops every cached image, e.g. after a tileset changed on disk.
func (c *CachingLoader) Forget() {
	c.mu.Lock()
	c.images = map[string]image.Image{}
	c.mu.Unlock()
}
