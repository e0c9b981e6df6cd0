package input

import "github.com/milk9111/tilestream/viewport"

// Source turns raw input into scroll directions.
type Source interface {
	// Update polls the source once per tick.
	Update()
	// Pressed returns the directions pressed this tick.
	Pressed() []viewport.Direction
	// Held reports whether a direction is currently held.
	Held(d viewport.Direction) bool
}

// Multi merges several sources.
type Multi []Source

func (m Multi) Update() {
	for _, s := range m {
		if s != nil {
			s.Update()
		}
	}
}

func (m Multi) Pressed() []viewport.Direction {
	var out []viewport.Direction
	for _, s := range m {
		if s != nil {
			out = append(out, s.Pressed()...)
		}
	}
	return out
}

func (m Multi) Held(d viewport.Direction) bool {
	for _, s := range m {
		if s != nil && s.Held(d) {
			return true
		}
	}
	return false
}
