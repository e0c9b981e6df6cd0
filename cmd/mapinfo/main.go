// Command mapinfo validates map documents and reports what a viewer would
// load for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/milk9111/tilestream/atlas"
	"github.com/milk9111/tilestream/config"
	"github.com/milk9111/tilestream/maps"
	"github.com/milk9111/tilestream/tilemap"
	"github.com/milk9111/tilestream/viewport"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	dir := flag.String("dir", "", "map directory (defaults to the config's map_dir)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *dir != "" {
		cfg.MapDir = *dir
	}

	names := flag.Args()
	if len(names) == 0 {
		names = []string{cfg.Map}
	}

	fsys := os.DirFS(cfg.MapDir)
	failed := 0
	for _, name := range names {
		var err error
		if isFile(name) {
			err = inspectFile(context.Background(), os.Stdout, cfg, name)
		} else {
			err = inspect(context.Background(), os.Stdout, cfg, fsys, name)
		}
		if err != nil {
			log.Printf("%s: %v", name, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func inspect(ctx context.Context, w io.Writer, cfg config.Config, fsys fs.FS, name string) error {
	source := tilemap.Sources{tilemap.FSSource{FS: fsys}, tilemap.FSSource{FS: maps.FS}}
	m, err := tilemap.Fetch(ctx, source, name)
	if err != nil {
		return err
	}
	return describe(ctx, w, cfg, fsys, tilemap.CleanName(name), m)
}

// inspectFile inspects a map document given by its path on disk. Tileset
// images are looked up next to it.
func inspectFile(ctx context.Context, w io.Writer, cfg config.Config, file string) error {
	m, err := tilemap.Load(file)
	if err != nil {
		return err
	}
	return describe(ctx, w, cfg, os.DirFS(filepath.Dir(file)), filepath.Base(file), m)
}

func describe(ctx context.Context, w io.Writer, cfg config.Config, fsys fs.FS, name string, m *tilemap.Map) error {
	loader := atlas.Loaders{
		atlas.FSLoader{FS: fsys, Dir: cfg.ImageDir},
		atlas.FSLoader{FS: maps.FS, Dir: "img"},
	}
	a, err := atlas.Build(ctx, loader, m.Tilesets, atlas.Options{Parallelism: cfg.LoadParallelism})
	if err != nil {
		return err
	}

	grid := m.Grid()
	fmt.Fprintf(w, "%s\n", name)
	fmt.Fprintf(w, "  tiles      %dx%d px, grid %d columns, %s cells\n", m.TileWidth, m.TileHeight, grid.Width, humanize.Comma(int64(grid.Len())))
	for _, l := range m.Layers {
		fmt.Fprintf(w, "  layer      %s %dx%d\n", l.Name, l.Width, l.Height)
	}
	for _, ts := range m.Tilesets {
		fmt.Fprintf(w, "  tileset    %s %s %dx%d tiles from gid %d (%s)\n",
			ts.Name, ts.Image, ts.Columns(), ts.Rows(), ts.FirstGID, fileSize(fsys, path.Join(cfg.ImageDir, ts.Image)))
	}
	fmt.Fprintf(w, "  atlas      %s fragments\n", humanize.Comma(int64(a.Len())))

	missing := 0
	if bg, ok := m.Layer(tilemap.BackgroundLayer); ok {
		for _, gid := range bg.Data {
			if gid > 0 && !a.Has(gid) {
				missing++
			}
		}
	}
	if missing > 0 {
		fmt.Fprintf(w, "  warning    %s background cells reference unknown tiles\n", humanize.Comma(int64(missing)))
	}

	vw, vh := viewport.ViewSize(cfg.ScreenWidth, cfg.ScreenHeight, m.TileWidth, m.TileHeight)
	fmt.Fprintf(w, "  view       %dx%d tiles at %dx%d, buffer %dx%d with margin %d\n",
		vw, vh, cfg.ScreenWidth, cfg.ScreenHeight, vw+2*cfg.Margin, vh+2*cfg.Margin, cfg.Margin)
	return nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func fileSize(fsys fs.FS, name string) string {
	fi, err := fs.Stat(fsys, name)
	if err != nil {
		fi, err = fs.Stat(maps.FS, path.Join("img", path.Base(name)))
	}
	if err != nil {
		return "embedded"
	}
	return humanize.Bytes(uint64(fi.Size()))
}
