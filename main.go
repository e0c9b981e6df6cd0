package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tilestream/atlas"
	"github.com/milk9111/tilestream/config"
	"github.com/milk9111/tilestream/input"
	"github.com/milk9111/tilestream/maps"
	"github.com/milk9111/tilestream/render"
	"github.com/milk9111/tilestream/session"
	"github.com/milk9111/tilestream/tilemap"
)

// flags holds the command line. Only flags given explicitly override the
// config file, so any value, negative start positions included, can be set.
type flags struct {
	configPath  string
	mapName     string
	startX      int
	startY      int
	margin      int
	debug       bool
	watch       bool
	scriptPath  string
	baseMonitor bool

	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*flags, error) {
	f := &flags{set: map[string]bool{}}
	fs.StringVar(&f.configPath, "config", "", "YAML config file")
	fs.StringVar(&f.mapName, "map", "", "map name in the map directory (basename, .json optional)")
	fs.IntVar(&f.startX, "x", 0, "initial view column")
	fs.IntVar(&f.startY, "y", 0, "initial view row")
	fs.IntVar(&f.margin, "margin", config.Default().Margin, "tiles buffered beyond each view edge")
	fs.BoolVar(&f.debug, "debug", false, "enable debug overlay")
	fs.BoolVar(&f.watch, "watch", false, "reload the map when its files change")
	fs.StringVar(&f.scriptPath, "script", "", "tengo script driving the view")
	fs.BoolVar(&f.baseMonitor, "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply overrides cfg with every flag given on the command line.
func (f *flags) apply(cfg *config.Config) {
	if f.set["map"] {
		cfg.Map = f.mapName
	}
	if f.set["x"] {
		cfg.StartX = f.startX
	}
	if f.set["y"] {
		cfg.StartY = f.startY
	}
	if f.set["margin"] {
		cfg.Margin = f.margin
	}
	if f.set["debug"] {
		cfg.Debug = f.debug
	}
	if f.set["watch"] {
		cfg.Watch = f.watch
	}
	if f.set["script"] {
		cfg.Script = f.scriptPath
	}
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatal(err)
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if opts.baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	source := tilemap.Sources{
		tilemap.FSSource{FS: os.DirFS(cfg.MapDir)},
		tilemap.FSSource{FS: maps.FS},
	}
	images := atlas.NewCachingLoader(render.Loader{Next: atlas.Loaders{
		atlas.FSLoader{FS: os.DirFS(cfg.MapDir), Dir: cfg.ImageDir},
		atlas.FSLoader{FS: maps.FS, Dir: "img"},
	}})

	s := session.New(session.Config{
		ScreenWidth:     cfg.ScreenWidth,
		ScreenHeight:    cfg.ScreenHeight,
		Margin:          cfg.Margin,
		FramesPerShift:  cfg.FramesPerShift,
		FrameInterval:   cfg.FrameInterval,
		LoadParallelism: cfg.LoadParallelism,
	}, source, images)

	var sources input.Multi
	sources = append(sources, NewKeyboard())
	if cfg.Script != "" {
		script, err := input.LoadScript(cfg.Script, s.View)
		if err != nil {
			log.Fatal(err)
		}
		sources = append(sources, script)
	}

	var watcher *tilemap.Watcher
	if cfg.Watch {
		dirs := []string{cfg.MapDir}
		if imgDir := filepath.Join(cfg.MapDir, cfg.ImageDir); isDir(imgDir) {
			dirs = append(dirs, imgDir)
		}
		watcher, err = tilemap.NewWatcher(dirs...)
		if err != nil {
			log.Printf("watch disabled: %v", err)
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("tilestream")
	ebiten.SetScreenClearedEveryFrame(false)

	game := NewGame(cfg, s, sources, images, watcher)
	game.Load(cfg.Map, cfg.StartX, cfg.StartY)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
