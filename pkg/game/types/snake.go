package types

import (
	"errors"
	"fmt"
)

// ErrInvalidSnake is returned when snake segments break the body invariants.
var ErrInvalidSnake = errors.New("invalid snake")

// Snake is an ordered body of cells, head first.
// Consecutive segments are always grid-adjacent and no cell appears twice.
type Snake struct {
	segments  []Cell
	direction Direction
	// tailDrop is the cell the last segment occupied before the latest Advance.
	tailDrop Cell
}

// NewSnake returns a snake with the given segments (head first) moving in direction.
// The tail-drop cache starts one step behind the tail, continuing the line
// from the second to last segment, or behind the head for a single segment snake.
func NewSnake(segments []Cell, direction Direction) (*Snake, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidSnake)
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidSnake, direction)
	}
	seen := make(CellSet, len(segments))
	for i, c := range segments {
		if seen.Contains(c) {
			return nil, fmt.Errorf("%w: duplicate segment %s", ErrInvalidSnake, c)
		}
		seen.Add(c)
		if i > 0 && segments[i-1].Manhattan(c) != 1 {
			return nil, fmt.Errorf("%w: segments %s and %s are not adjacent", ErrInvalidSnake, segments[i-1], c)
		}
	}

	body := make([]Cell, len(segments))
	copy(body, segments)

	tail := body[len(body)-1]
	var tailDrop Cell
	if len(body) > 1 {
		before := body[len(body)-2]
		tailDrop = Cell{X: 2*tail.X - before.X, Y: 2*tail.Y - before.Y}
	} else {
		tailDrop = tail.Step(direction.Opposite())
	}

	return &Snake{
		segments:  body,
		direction: direction,
		tailDrop:  tailDrop,
	}, nil
}

// Head returns the first segment.
func (s *Snake) Head() Cell {
	return s.segments[0]
}

// Tail returns the last segment.
func (s *Snake) Tail() Cell {
	return s.segments[len(s.segments)-1]
}

// Segments returns a copy of the body, head first.
func (s *Snake) Segments() []Cell {
	segments := make([]Cell, len(s.segments))
	copy(segments, s.segments)
	return segments
}

func (s *Snake) Len() int {
	return len(s.segments)
}

// Direction returns the current direction of travel.
func (s *Snake) Direction() Direction {
	return s.direction
}

// SetDirection sets the current direction. Arbitration against reversals is the
// caller's responsibility.
func (s *Snake) SetDirection(d Direction) {
	s.direction = d
}

// TailDrop returns the cell the tail left during the latest Advance.
func (s *Snake) TailDrop() Cell {
	return s.tailDrop
}

// Occupies reports whether any segment is on c.
func (s *Snake) Occupies(c Cell) bool {
	for _, segment := range s.segments {
		if segment == c {
			return true
		}
	}
	return false
}

// OccupiedSet returns the set of cells covered by the body.
func (s *Snake) OccupiedSet() CellSet {
	return NewCellSet(s.segments...)
}

// Advance slides the snake forward so that nextHead becomes the head.
// The last segment is dropped unless grow is set, in which case the body keeps
// it and gains one segment on the pre-move tail position.
func (s *Snake) Advance(nextHead Cell, grow bool) {
	s.tailDrop = s.Tail()
	if grow {
		s.segments = append(s.segments, Cell{})
	}
	copy(s.segments[1:], s.segments[:len(s.segments)-1])
	s.segments[0] = nextHead
	if grow {
		s.segments[len(s.segments)-1] = s.tailDrop
	}
}
