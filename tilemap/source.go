package tilemap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Source fetches raw map documents by name.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FSSource fetches map documents from an fs.FS.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(s.FS, CleanName(name))
}

// Sources tries each source in order and returns the first document found.
// Only not-exist errors fall through to the next source.
type Sources []Source

func (ss Sources) Fetch(ctx context.Context, name string) ([]byte, error) {
	for _, s := range ss {
		if s == nil {
			continue
		}
		b, err := s.Fetch(ctx, name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("tilemap: fetch %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("tilemap: fetch %s: %w", name, fs.ErrNotExist)
}

// Fetch fetches and parses a map in one step.
func Fetch(ctx context.Context, src Source, name string) (*Map, error) {
	b, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	m, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// CleanName normalizes a map name to a slash path relative to the maps dir.
// A missing extension defaults to .json.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(name)
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "maps/")
	if filepath.Ext(s) == "" {
		s += ".json"
	}
	return s
}
