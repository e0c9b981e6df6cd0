package assets

import (
	"bytes"
	"embed"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"
)

//go:embed *.png
var assetsFS embed.FS

// EmptyTileColor fills generated empty tiles when empty.png does not match the map's tile size.
var EmptyTileColor color.Color = colornames.Darkslategray

// LoadImage decodes an embedded asset by assets-relative path.
func LoadImage(path string) (image.Image, error) {
	clean := cleanAssetPath(path)
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// EmptyTile returns the image drawn for empty and unknown tiles at the given
// tile size. The embedded empty.png is used when it has exactly that size.
func EmptyTile(w, h int) image.Image {
	if img, err := LoadImage("empty.png"); err == nil {
		if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
			return img
		}
	}
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: EmptyTileColor}, image.Point{}, draw.Src)
	return img
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
