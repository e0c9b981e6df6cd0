package main

import (
	"context"
	"image"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilestream/atlas"
	"github.com/milk9111/tilestream/session"
	"github.com/milk9111/tilestream/tilemap"
	"github.com/milk9111/tilestream/viewport"
)

const gameTestMap = `{
	"tilewidth": 16,
	"tileheight": 16,
	"layers": [{"name": "bg", "width": 3, "height": 3, "data": [1,2,3,4,5,6,7,8,9]}],
	"tilesets": [{"image": "tiles.png", "imagewidth": 48, "imageheight": 48, "tilewidth": 16, "tileheight": 16, "firstgid": 1}]
}`

func testGameSession(t *testing.T) *session.Session {
	t.Helper()
	source := tilemap.FSSource{FS: fstest.MapFS{"first.json": {Data: []byte(gameTestMap)}}}
	loader := atlas.LoaderFunc(func(ctx context.Context, name string) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 48, 48)), nil
	})
	return session.New(session.Config{ScreenWidth: 32, ScreenHeight: 32, Margin: 1}, source, loader)
}

func TestReloadTarget(t *testing.T) {
	s := testGameSession(t)
	g := &Game{session: s, wantMap: "first", wantX: 4, wantY: 5}

	if name, x, y := g.reloadTarget(); name != "first" || x != 4 || y != 5 {
		t.Fatalf("before any load expected the requested map, got %s at %d,%d", name, x, y)
	}

	if err := s.LoadMap(context.Background(), "first", 1, 2); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	s.Shift(viewport.Right)
	s.Cancel()
	if name, x, y := g.reloadTarget(); name != "first" || x != 2 || y != 2 {
		t.Fatalf("expected the installed map at its current view, got %s at %d,%d", name, x, y)
	}

	// a second map is still loading: reloading must not fall back to the old one
	g.loading = true
	g.wantMap, g.wantX, g.wantY = "second", 7, 8
	if name, x, y := g.reloadTarget(); name != "second" || x != 7 || y != 8 {
		t.Fatalf("expected the pending map, got %s at %d,%d", name, x, y)
	}
}
