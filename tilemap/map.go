package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BackgroundLayer is the name of the layer that supplies the world grid.
const BackgroundLayer = "bg"

var ErrNoBackgroundLayer = errors.New("tilemap: no bg layer found")

// Map is a parsed map document. Tile sizes are in pixels.
type Map struct {
	TileWidth  int       `json:"tilewidth"`
	TileHeight int       `json:"tileheight"`
	Layers     []Layer   `json:"layers"`
	Tilesets   []Tileset `json:"tilesets"`

	grid *Grid
}

// Layer is one tile layer. Data is a flat row-major array of tile gids, 0 = empty.
type Layer struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []int  `json:"data"`
}

// Tileset describes a source image sliced into uniform tiles, numbered from FirstGID.
type Tileset struct {
	Name        string `json:"name,omitempty"`
	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	FirstGID    int    `json:"firstgid"`
}

// Columns returns the number of whole tiles per image row.
func (ts Tileset) Columns() int {
	if ts.TileWidth <= 0 {
		return 0
	}
	return ts.ImageWidth / ts.TileWidth
}

// Rows returns the number of whole tile rows in the image.
func (ts Tileset) Rows() int {
	if ts.TileHeight <= 0 {
		return 0
	}
	return ts.ImageHeight / ts.TileHeight
}

// TileCount returns the number of tiles sliced out of the image.
func (ts Tileset) TileCount() int {
	return ts.Columns() * ts.Rows()
}

// Grid returns the world grid built from the bg layer.
func (m *Map) Grid() *Grid {
	return m.grid
}

// Layer returns the first layer with the given name.
func (m *Map) Layer(name string) (*Layer, bool) {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i], true
		}
	}
	return nil, false
}

// Load reads and parses a map document from disk.
func Load(path string) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// LoadFromFS reads and parses a map document from an fs.FS (e.g. the embedded maps).
func LoadFromFS(fsys fs.FS, path string) (*Map, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(path), "maps/")
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a map document and locates its bg layer.
func Parse(b []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("tilemap: unmarshal: %w", err)
	}

	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return nil, fmt.Errorf("tilemap: invalid tile size: %dx%d", m.TileWidth, m.TileHeight)
	}

	bg, ok := m.Layer(BackgroundLayer)
	if !ok {
		return nil, ErrNoBackgroundLayer
	}

	for i, ts := range m.Tilesets {
		if ts.Image == "" {
			return nil, fmt.Errorf("tilemap: tileset %d has no image", i)
		}
		if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
			return nil, fmt.Errorf("tilemap: tileset %q: invalid tile size %dx%d", ts.Image, ts.TileWidth, ts.TileHeight)
		}
	}

	m.grid = NewGrid(m.TileWidth, m.TileHeight, bg.Width, bg.Data)
	return &m, nil
}
