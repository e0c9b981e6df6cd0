package input

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/tilestream/viewport"
)

// Script is a Source driven by a tengo script, for demos and tours. Each tick
// the script runs with `tick`, `view_x` and `view_y` set and assigns `hold`
// to "up", "down", "left", "right" or "".
type Script struct {
	path     string
	compiled *tengo.Compiled
	view     func() viewport.View

	tick    int
	hold    viewport.Direction
	pressed []viewport.Direction
	failed  bool
}

// LoadScript reads and compiles a script file.
func LoadScript(path string, view func() viewport.View) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: load script %s: %w", path, err)
	}
	s, err := NewScript(src, view)
	if err != nil {
		return nil, fmt.Errorf("input: %s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// NewScript compiles src. view supplies the current view each tick and may be nil.
func NewScript(src []byte, view func() viewport.View) (*Script, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("view_x", 0)
	_ = script.Add("view_y", 0)
	_ = script.Add("hold", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script: %w", err)
	}
	return &Script{compiled: compiled, view: view}, nil
}

func (s *Script) Update() {
	s.pressed = s.pressed[:0]
	if s.failed {
		return
	}
	s.tick++

	hold, err := s.run()
	if err != nil {
		log.Printf("input: script %s error: %v", s.path, err)
		s.failed = true
		s.hold = viewport.None
		return
	}
	if hold.Valid() && hold != s.hold {
		s.pressed = append(s.pressed, hold)
	}
	s.hold = hold
}

func (s *Script) run() (viewport.Direction, error) {
	var v viewport.View
	if s.view != nil {
		v = s.view()
	}
	if err := s.compiled.Set("tick", s.tick); err != nil {
		return viewport.None, err
	}
	if err := s.compiled.Set("view_x", v.X); err != nil {
		return viewport.None, err
	}
	if err := s.compiled.Set("view_y", v.Y); err != nil {
		return viewport.None, err
	}
	if err := s.compiled.Set("hold", ""); err != nil {
		return viewport.None, err
	}
	if err := s.compiled.Run(); err != nil {
		return viewport.None, err
	}

	name := strings.TrimSpace(s.compiled.Get("hold").String())
	if name == "" {
		return viewport.None, nil
	}
	d, ok := viewport.ParseDirection(name)
	if !ok {
		return viewport.None, fmt.Errorf("unknown direction %q", name)
	}
	return d, nil
}

func (s *Script) Pressed() []viewport.Direction {
	return s.pressed
}

func (s *Script) Held(d viewport.Direction) bool {
	return d.Valid() && d == s.hold
}

// Failed reports whether the script stopped after an error.
func (s *Script) Failed() bool {
	return s.failed
}
