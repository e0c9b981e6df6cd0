package viewport

import (
	"image"
	"time"

	"github.com/milk9111/tilestream/common"
)

const (
	DefaultFramesPerShift = 4
	DefaultFrameInterval  = 30 * time.Millisecond
)

// State is the scroll controller state.
type State int

const (
	Idle State = iota
	// Shifting is held while the buffer window is being mutated.
	Shifting
	// Animating is held until the last frame of the shift has been emitted.
	Animating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Shifting:
		return "shifting"
	case Animating:
		return "animating"
	}
	return "unknown"
}

// Listener receives presentation updates from a Controller.
type Listener interface {
	// Translated is called with the tile layer translation for every frame
	// and after every repopulation.
	Translated(p image.Point)
	// SlotsChanged is called after slots were reassigned.
	SlotsChanged()
}

// HeldFunc reports whether a direction is currently held by the input source.
type HeldFunc func(Direction) bool

// ControllerConfig tunes the shift animation.
type ControllerConfig struct {
	FramesPerShift int
	FrameInterval  time.Duration
}

// Controller serializes scroll requests onto a Buffer and animates the pixel
// translation between view positions. Only one shift runs at a time; requests
// made while a shift is running are dropped.
type Controller struct {
	buf *Buffer
	cfg ControllerConfig

	state State
	dir   Direction
	frame int
	// accumulated time toward the next frame
	elapsed time.Duration

	start  image.Point
	target image.Point
	// pixels is the committed translation, display what is currently shown.
	pixels  image.Point
	display image.Point

	held      HeldFunc
	listeners []Listener

	shifts int
	frames int
}

func NewController(buf *Buffer, cfg ControllerConfig) *Controller {
	if cfg.FramesPerShift <= 0 {
		cfg.FramesPerShift = DefaultFramesPerShift
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	c := &Controller{buf: buf, cfg: cfg}
	c.pixels = buf.Target()
	c.display = c.pixels
	return c
}

// SetHeld installs the predicate used to chain shifts while a direction is held.
func (c *Controller) SetHeld(fn HeldFunc) {
	c.held = fn
}

func (c *Controller) AddListener(l Listener) {
	if l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

// Populate repopulates the whole buffer at (x, y), cancelling any running shift.
func (c *Controller) Populate(x, y int) {
	c.stop()
	c.buf.Populate(x, y)
	c.pixels = c.buf.Target()
	c.display = c.pixels
	c.notifySlots()
	c.notifyTranslated()
}

// Shift starts a one-tile shift in dir. It returns false, and changes
// nothing, unless the controller is idle.
func (c *Controller) Shift(dir Direction) bool {
	if c.state != Idle || !dir.Valid() {
		return false
	}

	c.state = Shifting
	c.buf.Shift(dir)
	c.dir = dir
	c.start = c.pixels
	c.target = c.buf.Target()
	c.frame = 0
	c.elapsed = 0
	c.shifts++
	c.state = Animating

	c.notifySlots()
	return true
}

// Advance feeds elapsed wall time to the animation, emitting one frame per
// FrameInterval. It returns the number of frames emitted.
func (c *Controller) Advance(elapsed time.Duration) int {
	if c.state != Animating || elapsed <= 0 {
		return 0
	}
	c.elapsed += elapsed

	steps := 0
	for c.state == Animating && c.elapsed >= c.cfg.FrameInterval {
		c.elapsed -= c.cfg.FrameInterval
		rest := c.elapsed
		c.Step()
		steps++
		// a chained shift keeps the leftover time
		if c.state == Animating && c.frame == 0 {
			c.elapsed = rest
		}
	}
	if c.state == Idle {
		c.elapsed = 0
	}
	return steps
}

// Step emits exactly one animation frame. The last frame lands exactly on the
// target, returns the controller to Idle and chains into the next shift when
// a direction is still held.
func (c *Controller) Step() bool {
	if c.state != Animating {
		return false
	}

	c.frame++
	c.frames++
	n, total := c.frame, c.cfg.FramesPerShift
	c.display = image.Pt(
		common.Step(c.start.X, c.target.X, n, total),
		common.Step(c.start.Y, c.target.Y, n, total),
	)

	if n >= total {
		c.pixels = c.target
		c.display = c.target
		c.state = Idle
		c.frame = 0
	}
	c.notifyTranslated()

	if c.state == Idle {
		if next := c.nextHeld(); next.Valid() {
			c.Shift(next)
		}
	}
	return true
}

func (c *Controller) nextHeld() Direction {
	if c.held == nil {
		return None
	}
	if c.dir.Valid() && c.held(c.dir) {
		return c.dir
	}
	for _, d := range Directions {
		if c.held(d) {
			return d
		}
	}
	return None
}

// Cancel stops a running animation and snaps to its target.
func (c *Controller) Cancel() {
	if c.state == Idle {
		return
	}
	c.stop()
	c.notifyTranslated()
}

func (c *Controller) stop() {
	if c.state != Idle {
		c.pixels = c.target
		c.display = c.target
	}
	c.state = Idle
	c.frame = 0
	c.elapsed = 0
}

func (c *Controller) notifySlots() {
	for _, l := range c.listeners {
		l.SlotsChanged()
	}
}

func (c *Controller) notifyTranslated() {
	for _, l := range c.listeners {
		l.Translated(c.display)
	}
}

func (c *Controller) State() State { return c.state }

// Busy reports whether a shift is running.
func (c *Controller) Busy() bool { return c.state != Idle }

// Translation returns the translation currently shown.
func (c *Controller) Translation() image.Point { return c.display }

// Committed returns the translation of the last completed shift.
func (c *Controller) Committed() image.Point { return c.pixels }

func (c *Controller) Buffer() *Buffer { return c.buf }

func (c *Controller) Config() ControllerConfig { return c.cfg }

// Shifts returns how many shifts have started.
func (c *Controller) Shifts() int { return c.shifts }

// Frames returns how many animation frames have been emitted.
func (c *Controller) Frames() int { return c.frames }
