package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a viewer session.
type Config struct {
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	// Margin is the number of tiles buffered beyond each view edge.
	Margin         int           `yaml:"margin"`
	FramesPerShift int           `yaml:"frames_per_shift"`
	FrameInterval  time.Duration `yaml:"frame_interval"`

	Map      string `yaml:"map"`
	MapDir   string `yaml:"map_dir"`
	ImageDir string `yaml:"image_dir"`
	StartX   int    `yaml:"start_x"`
	StartY   int    `yaml:"start_y"`

	// LoadParallelism bounds concurrent tileset decodes; 0 means unbounded.
	LoadParallelism int `yaml:"load_parallelism"`

	Watch  bool   `yaml:"watch"`
	Script string `yaml:"script"`
	Debug  bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		ScreenWidth:     640,
		ScreenHeight:    480,
		Margin:          1,
		FramesPerShift:  4,
		FrameInterval:   30 * time.Millisecond,
		Map:             "demo.json",
		MapDir:          "maps",
		ImageDir:        "img",
		LoadParallelism: 4,
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults; keys missing from data keep
// their default value.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.Margin < 0 {
		return fmt.Errorf("margin must not be negative, got %d", c.Margin)
	}
	if c.FramesPerShift <= 0 {
		return fmt.Errorf("frames_per_shift must be positive, got %d", c.FramesPerShift)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval)
	}
	if c.LoadParallelism < 0 {
		return fmt.Errorf("load_parallelism must not be negative, got %d", c.LoadParallelism)
	}
	return nil
}

// Marshal encodes the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
