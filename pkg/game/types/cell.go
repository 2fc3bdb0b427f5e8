package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction name can't be parsed.
var ErrUnknownDirection = errors.New("unknown direction")

// Cell is a discrete position on the playfield grid.
// X grows to the right and Y grows upwards, with the origin at the center.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the component-wise sum of two cells.
func (c Cell) Add(other Cell) Cell {
	return Cell{X: c.X + other.X, Y: c.Y + other.Y}
}

// Step returns the neighbouring cell in the given direction.
func (c Cell) Step(d Direction) Cell {
	return c.Add(d.Vector())
}

// Manhattan returns the grid distance between two cells.
func (c Cell) Manhattan(other Cell) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	}
	return "unknown"
}

// ParseDirection parses the lowercase direction name produced by String.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	}
	return DirectionUp, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d <= DirectionRight
}

func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	default:
		return DirectionLeft
	}
}

func (d Direction) IsOpposite(other Direction) bool {
	return d.Opposite() == other
}

// Vector returns the unit offset of one step in this direction.
func (d Direction) Vector() Cell {
	switch d {
	case DirectionUp:
		return Cell{X: 0, Y: 1}
	case DirectionDown:
		return Cell{X: 0, Y: -1}
	case DirectionLeft:
		return Cell{X: -1, Y: 0}
	case DirectionRight:
		return Cell{X: 1, Y: 0}
	}
	return Cell{}
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, d)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
