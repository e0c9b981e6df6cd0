package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilestream/viewport"
)

var directionKeys = map[viewport.Direction][]ebiten.Key{
	viewport.Up:    {ebiten.KeyArrowUp, ebiten.KeyW},
	viewport.Down:  {ebiten.KeyArrowDown, ebiten.KeyS},
	viewport.Left:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	viewport.Right: {ebiten.KeyArrowRight, ebiten.KeyD},
}

var directionButtons = map[viewport.Direction]ebiten.StandardGamepadButton{
	viewport.Up:    ebiten.StandardGamepadButtonLeftTop,
	viewport.Down:  ebiten.StandardGamepadButtonLeftBottom,
	viewport.Left:  ebiten.StandardGamepadButtonLeftLeft,
	viewport.Right: ebiten.StandardGamepadButtonLeftRight,
}

// Keyboard reads arrow keys, WASD and the D-pad of any standard gamepad.
type Keyboard struct {
	pressed  []viewport.Direction
	held     [len(viewport.Directions) + 1]bool
	gamepads []ebiten.GamepadID
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Update() {
	k.pressed = k.pressed[:0]
	k.gamepads = ebiten.AppendGamepadIDs(k.gamepads[:0])

	for _, d := range viewport.Directions {
		justPressed, held := false, false
		for _, key := range directionKeys[d] {
			justPressed = justPressed || inpututil.IsKeyJustPressed(key)
			held = held || ebiten.IsKeyPressed(key)
		}
		for _, id := range k.gamepads {
			if !ebiten.IsStandardGamepadLayoutAvailable(id) {
				continue
			}
			btn := directionButtons[d]
			justPressed = justPressed || inpututil.IsStandardGamepadButtonJustPressed(id, btn)
			held = held || ebiten.IsStandardGamepadButtonPressed(id, btn)
		}

		k.held[d] = held
		if justPressed {
			k.pressed = append(k.pressed, d)
		}
	}
}

func (k *Keyboard) Pressed() []viewport.Direction {
	return k.pressed
}

func (k *Keyboard) Held(d viewport.Direction) bool {
	if !d.Valid() {
		return false
	}
	return k.held[d]
}
