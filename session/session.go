// Package session owns one loaded map and its scrolling viewport.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/milk9111/tilestream/assets"
	"github.com/milk9111/tilestream/atlas"
	"github.com/milk9111/tilestream/tilemap"
	"github.com/milk9111/tilestream/viewport"
)

var ErrNotLoaded = errors.New("session: no map loaded")

// Config tunes a Session.
type Config struct {
	ScreenWidth  int
	ScreenHeight int
	Margin       int

	FramesPerShift  int
	FrameInterval   time.Duration
	LoadParallelism int

	// Empty overrides the empty-tile image; nil uses one sized to the map tiles.
	Empty func(tileW, tileH int) image.Image
}

// Stage is a fully prepared map that has not been installed yet.
type Stage struct {
	Name  string
	Map   *tilemap.Map
	Atlas *atlas.Atlas

	buffer     *viewport.Buffer
	controller *viewport.Controller
}

// View returns the view the stage was populated at.
func (st *Stage) View() viewport.View {
	return st.buffer.View()
}

// Session is the single writer of one map's viewport state. It must only be
// used from one goroutine; Prepare is the exception and may run anywhere.
type Session struct {
	cfg    Config
	source tilemap.Source
	loader atlas.Loader

	name  string
	m     *tilemap.Map
	atlas *atlas.Atlas
	buf   *viewport.Buffer
	ctrl  *viewport.Controller

	held      viewport.HeldFunc
	listeners []viewport.Listener
	loads     int
}

func New(cfg Config, source tilemap.Source, loader atlas.Loader) *Session {
	if cfg.Margin < 0 {
		cfg.Margin = 0
	}
	return &Session{cfg: cfg, source: source, loader: loader}
}

// SetHeld installs the input predicate used to chain shifts.
func (s *Session) SetHeld(fn viewport.HeldFunc) {
	s.held = fn
	if s.ctrl != nil {
		s.ctrl.SetHeld(fn)
	}
}

// AddListener registers a presentation listener. It survives map reloads.
func (s *Session) AddListener(l viewport.Listener) {
	if l == nil {
		return
	}
	s.listeners = append(s.listeners, l)
	if s.ctrl != nil {
		s.ctrl.AddListener(l)
	}
}

// Prepare fetches and parses the map, builds its atlas and populates a new
// buffer at (x, y). It does not touch the session, so a failure leaves the
// current map in place.
func (s *Session) Prepare(ctx context.Context, name string, x, y int) (*Stage, error) {
	if s.source == nil {
		return nil, fmt.Errorf("session: no map source")
	}

	m, err := tilemap.Fetch(ctx, s.source, name)
	if err != nil {
		return nil, fmt.Errorf("session: load map %s: %w", name, err)
	}

	empty := s.emptyTile(m.TileWidth, m.TileHeight)
	a, err := atlas.Build(ctx, s.loader, m.Tilesets, atlas.Options{
		Empty:       empty,
		Parallelism: s.cfg.LoadParallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("session: load map %s: %w", name, err)
	}

	vw, vh := viewport.ViewSize(s.cfg.ScreenWidth, s.cfg.ScreenHeight, m.TileWidth, m.TileHeight)
	buf := viewport.NewBuffer(m.Grid(), a, viewport.BufferConfig{
		TileWidth:  m.TileWidth,
		TileHeight: m.TileHeight,
		ViewWidth:  vw,
		ViewHeight: vh,
		Margin:     s.cfg.Margin,
	})
	ctrl := viewport.NewController(buf, viewport.ControllerConfig{
		FramesPerShift: s.cfg.FramesPerShift,
		FrameInterval:  s.cfg.FrameInterval,
	})
	ctrl.Populate(x, y)

	return &Stage{Name: name, Map: m, Atlas: a, buffer: buf, controller: ctrl}, nil
}

func (s *Session) emptyTile(w, h int) image.Image {
	if s.cfg.Empty != nil {
		if img := s.cfg.Empty(w, h); img != nil {
			return img
		}
	}
	return assets.EmptyTile(w, h)
}

// Install swaps a prepared stage in, replacing the previous map wholesale.
// Any running animation of the previous map is cancelled first.
func (s *Session) Install(st *Stage) {
	if st == nil {
		return
	}
	if s.ctrl != nil {
		s.ctrl.Cancel()
	}

	s.name = st.Name
	s.m = st.Map
	s.atlas = st.Atlas
	s.buf = st.buffer
	s.ctrl = st.controller
	s.loads++

	s.ctrl.SetHeld(s.held)
	for _, l := range s.listeners {
		s.ctrl.AddListener(l)
		l.SlotsChanged()
		l.Translated(s.ctrl.Translation())
	}

	v := s.buf.View()
	bw, bh := s.buf.Size()
	log.Printf("session: loaded map %s (%d tiles, view %dx%d at %d,%d, buffer %dx%d)", st.Name, s.atlas.Len(), v.Width, v.Height, v.X, v.Y, bw, bh)
}

// LoadMap prepares and installs a map in one step.
func (s *Session) LoadMap(ctx context.Context, name string, x, y int) error {
	st, err := s.Prepare(ctx, name, x, y)
	if err != nil {
		return err
	}
	s.Install(st)
	return nil
}

// Reload loads the current map again at the current view position.
func (s *Session) Reload(ctx context.Context) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	v := s.buf.View()
	return s.LoadMap(ctx, s.name, v.X, v.Y)
}

// Shift requests a one-tile scroll. It returns false when no map is loaded or
// a shift is already running.
func (s *Session) Shift(dir viewport.Direction) bool {
	if s.ctrl == nil {
		return false
	}
	return s.ctrl.Shift(dir)
}

// Advance drives the shift animation by elapsed wall time.
func (s *Session) Advance(elapsed time.Duration) int {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.Advance(elapsed)
}

// Cancel stops a running shift animation.
func (s *Session) Cancel() {
	if s.ctrl != nil {
		s.ctrl.Cancel()
	}
}

// Translation returns the pixel translation to apply to the tile layer.
func (s *Session) Translation() image.Point {
	if s.ctrl == nil {
		return image.Point{}
	}
	return s.ctrl.Translation()
}

// Slots calls fn for every resident slot.
func (s *Session) Slots(fn func(*viewport.Slot)) {
	if s.buf == nil {
		return
	}
	s.buf.Slots(fn)
}

func (s *Session) Loaded() bool {
	return s.ctrl != nil
}

func (s *Session) MapName() string {
	return s.name
}

func (s *Session) Map() *tilemap.Map {
	return s.m
}

func (s *Session) Atlas() *atlas.Atlas {
	return s.atlas
}

func (s *Session) Buffer() *viewport.Buffer {
	return s.buf
}

func (s *Session) Controller() *viewport.Controller {
	return s.ctrl
}

// View returns the current view, or the zero view before the first load.
func (s *Session) View() viewport.View {
	if s.buf == nil {
		return viewport.View{}
	}
	return s.buf.View()
}

// State returns the scroll state.
func (s *Session) State() viewport.State {
	if s.ctrl == nil {
		return viewport.Idle
	}
	return s.ctrl.State()
}

// Loads returns the number of maps installed so far.
func (s *Session) Loads() int {
	return s.loads
}

// TileSize returns the loaded map's tile size in pixels.
func (s *Session) TileSize() (int, int) {
	if s.m == nil {
		return 0, 0
	}
	return s.m.TileWidth, s.m.TileHeight
}
