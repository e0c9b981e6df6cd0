package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilestream/assets"
	"github.com/milk9111/tilestream/atlas"
	"github.com/milk9111/tilestream/config"
	"github.com/milk9111/tilestream/input"
	"github.com/milk9111/tilestream/render"
	"github.com/milk9111/tilestream/session"
	"github.com/milk9111/tilestream/tilemap"
)

type loadResult struct {
	seq   int
	stage *session.Stage
	err   error
}

type Game struct {
	cfg config.Config

	session *session.Session
	input   input.Source
	cache   *render.Cache
	images  *atlas.CachingLoader
	watcher *tilemap.Watcher
	status  *StatusUI

	// the map requested last, kept for Retry after a failed load
	wantMap  string
	wantX    int
	wantY    int
	loadSeq  int
	cancel   context.CancelFunc
	loaded   chan loadResult
	loading  bool
	loadedAt time.Time

	dirty  bool
	frames int
	drawn  int
}

func NewGame(cfg config.Config, s *session.Session, src input.Source, images *atlas.CachingLoader, watcher *tilemap.Watcher) *Game {
	g := &Game{
		cfg:     cfg,
		session: s,
		input:   src,
		cache:   render.NewCache(),
		images:  images,
		watcher: watcher,
		loaded:  make(chan loadResult, 1),
		dirty:   true,
	}
	g.status = NewStatusUI(cfg.ScreenWidth, cfg.ScreenHeight, g.retry)

	s.AddListener(g)
	if src != nil {
		s.SetHeld(src.Held)
	}
	return g
}

// Translated implements viewport.Listener.
func (g *Game) Translated(image.Point) { g.dirty = true }

// SlotsChanged implements viewport.Listener.
func (g *Game) SlotsChanged() { g.dirty = true }

// Load starts loading a map in the background. A newer request supersedes
// any load still in flight.
func (g *Game) Load(name string, x, y int) {
	if g.cancel != nil {
		g.cancel()
	}
	g.wantMap, g.wantX, g.wantY = name, x, y
	g.loadSeq++
	g.loading = true
	g.status.ShowLoading(name)
	g.dirty = true

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	seq := g.loadSeq
	go func() {
		st, err := g.session.Prepare(ctx, name, x, y)
		select {
		case g.loaded <- loadResult{seq: seq, stage: st, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (g *Game) retry() {
	g.images.Forget()
	g.Load(g.wantMap, g.wantX, g.wantY)
}

// reload loads the current map again at the current view.
func (g *Game) reload() {
	g.images.Forget()
	g.Load(g.reloadTarget())
}

// reloadTarget is the installed map at its current view, or the requested map
// while a load is still in flight or none has succeeded yet.
func (g *Game) reloadTarget() (string, int, int) {
	if g.loading || !g.session.Loaded() {
		return g.wantMap, g.wantX, g.wantY
	}
	v := g.session.View()
	return g.session.MapName(), v.X, v.Y
}

func (g *Game) pollLoad() {
	select {
	case res := <-g.loaded:
		if res.seq != g.loadSeq {
			return
		}
		g.loading = false
		g.cancel = nil
		if res.err != nil {
			if errors.Is(res.err, context.Canceled) {
				return
			}
			log.Printf("failed to load map %s: %v", g.wantMap, res.err)
			g.status.ShowError(res.err)
			return
		}
		g.session.Install(res.stage)
		g.cache.Reset()
		g.status.Hide()
		g.loadedAt = time.Now()
		g.dirty = true
	default:
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %s changed, reloading", filepath.Base(name))
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.reload()
	}

	g.pollLoad()
	g.pollWatcher()

	if g.status.Visible() {
		g.status.UI.Update()
	}

	if g.input != nil {
		g.input.Update()
		for _, d := range g.input.Pressed() {
			g.session.Shift(d)
		}
	}
	g.session.Advance(time.Second / time.Duration(ebiten.TPS()))

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.dirty && !g.cfg.Debug && !g.status.Visible() {
		return
	}
	g.dirty = false

	screen.Fill(assets.EmptyTileColor)
	if g.session.Loaded() {
		tw, th := g.session.TileSize()
		g.drawn = render.DrawTiles(screen, g.session.Slots, tw, th, g.session.Translation(), g.cache)
	}

	if g.cfg.Debug {
		ebitenutil.DebugPrint(screen, g.debugText())
	}
	if g.status.Visible() {
		g.status.UI.Draw(screen)
	}
}

func (g *Game) debugText() string {
	if !g.session.Loaded() {
		return fmt.Sprintf("Frames: %s    FPS: %.2f    no map", humanize.Comma(int64(g.frames)), ebiten.ActualFPS())
	}
	loading := ""
	if g.loading {
		loading = "    loading " + g.wantMap
	}
	v := g.session.View()
	buf := g.session.Buffer()
	bw, bh := buf.Size()
	ctrl := g.session.Controller()
	return fmt.Sprintf("Frames: %s    FPS: %.2f\nmap %s loaded %s%s\nview %d,%d %dx%d    buffer %dx%d    textures %d\nstate %s    shifts %d    steps %s    loads %s    drawn %d/%d    rejected %d",
		humanize.Comma(int64(g.frames)), ebiten.ActualFPS(),
		g.session.MapName(), humanize.Time(g.loadedAt), loading,
		v.X, v.Y, v.Width, v.Height, bw, bh, g.cache.Len(),
		g.session.State(), ctrl.Shifts(), humanize.Comma(int64(ctrl.Frames())), humanize.Comma(int64(buf.Loads())), g.drawn, buf.Allocated(), buf.Rejected(),
	)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.ScreenWidth), float64(g.cfg.ScreenHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
