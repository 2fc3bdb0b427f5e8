package input

import (
	"strings"

	"github.com/cbodonnell/snake/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// directionKeys are the keys that may steer the snake, in the order they are polled.
var directionKeys = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyW, ebiten.KeyS, ebiten.KeyA, ebiten.KeyD,
	ebiten.KeyI, ebiten.KeyK, ebiten.KeyJ, ebiten.KeyL,
}

var gamepadButtonKeys = map[ebiten.StandardGamepadButton]string{
	ebiten.StandardGamepadButtonLeftTop:    "up",
	ebiten.StandardGamepadButtonLeftBottom: "down",
	ebiten.StandardGamepadButtonLeftLeft:   "left",
	ebiten.StandardGamepadButtonLeftRight:  "right",
}

// keyName returns the name pkg/input knows a key by: "ArrowUp" becomes "Up".
func keyName(key ebiten.Key) string {
	return strings.TrimPrefix(key.String(), "Arrow")
}

// HandleDirectionInput writes every direction key pressed since the last frame to the buffer.
// It reports whether any direction was requested.
func HandleDirectionInput(buffer *input.Buffer) bool {
	requested := false
	for _, key := range directionKeys {
		if inpututil.IsKeyJustPressed(key) && buffer.HandleKey(keyName(key)) {
			requested = true
		}
	}

	for _, g := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(g) {
			continue
		}
		for button, name := range gamepadButtonKeys {
			if inpututil.IsStandardGamepadButtonJustPressed(g, button) && buffer.HandleKey(name) {
				requested = true
			}
		}
	}
	return requested
}

// IsPositiveJustPressed returns a boolean value indicating whether the generic positive input is just pressed.
// This is used to handle both keyboard and touch inputs.
func IsPositiveJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		return true
	}
	gamepadIDs := ebiten.AppendGamepadIDs(nil)
	for _, g := range gamepadIDs {
		if ebiten.IsStandardGamepadLayoutAvailable(g) {
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightBottom) {
				return true
			}
			if inpututil.IsStandardGamepadButtonJustPressed(g, ebiten.StandardGamepadButtonRightRight) {
				return true
			}
		} else {
			// The button 0/1 might not be A/B buttons.
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton0) {
				return true
			}
			if inpututil.IsGamepadButtonJustPressed(g, ebiten.GamepadButton1) {
				return true
			}
		}
	}
	return false
}

// IsNegativeJustPressed returns a boolean value indicating whether the generic negative input is just pressed.
func IsNegativeJustPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
