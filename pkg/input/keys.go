package input

import (
	"strings"

	"github.com/cbodonnell/snake/pkg/game/types"
)

// keyDirections maps the accepted key groups (arrow keys, WASD and IJKL)
// to the four directions.
var keyDirections = map[string]types.Direction{
	"up":    types.DirectionUp,
	"w":     types.DirectionUp,
	"i":     types.DirectionUp,
	"down":  types.DirectionDown,
	"s":     types.DirectionDown,
	"k":     types.DirectionDown,
	"left":  types.DirectionLeft,
	"a":     types.DirectionLeft,
	"j":     types.DirectionLeft,
	"right": types.DirectionRight,
	"d":     types.DirectionRight,
	"l":     types.DirectionRight,
}

// DirectionForKey returns the direction bound to a key name, case-insensitively.
// Key names are "up", "down", "left", "right" for the arrow keys and the letter
// itself for letter keys. Any other key reports false.
func DirectionForKey(key string) (types.Direction, bool) {
	d, ok := keyDirections[strings.ToLower(key)]
	return d, ok
}

// HandleKey writes the direction bound to key into the buffer.
// Keys outside the vocabulary are ignored and report false.
func (b *Buffer) HandleKey(key string) bool {
	d, ok := DirectionForKey(key)
	if !ok {
		return false
	}
	b.Set(d)
	return true
}
