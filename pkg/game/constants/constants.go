package constants

import (
	"time"

	"github.com/cbodonnell/snake/pkg/game/types"
)

const (
	// TickRate is the fixed period between two simulation ticks
	TickRate time.Duration = 80 * time.Millisecond
	// PlayfieldWidth is the number of columns. Must be odd so the snake starts centered.
	PlayfieldWidth int = 33
	// PlayfieldHeight is the number of rows. Must be odd so the snake starts centered.
	PlayfieldHeight int = 33
	// MaxPlayfieldDimension bounds width and height so a full board snapshot
	// stays within one network message
	MaxPlayfieldDimension int = 101
	// PixelUnitSize is the width in pixels of one cell when drawn in a window
	PixelUnitSize float64 = 24.0

	// SnakeStartingDirection is the direction the snake moves in on the first tick
	SnakeStartingDirection = types.DirectionRight
)

// SnakeStartingSegments returns the body the snake starts with: the head on
// the center cell and one segment behind it.
func SnakeStartingSegments() []types.Cell {
	return []types.Cell{
		{X: 0, Y: 0},
		{X: -1, Y: 0},
	}
}
