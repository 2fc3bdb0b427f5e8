package types

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
)

const (
	// MaxRejectedDraws is the number of random draws that may land on occupied
	// cells before RandomUnoccupiedCell falls back to picking from the free cells directly.
	MaxRejectedDraws = 64
)

var (
	// ErrNoSpaceAvailable is returned when every playfield cell is occupied.
	ErrNoSpaceAvailable = errors.New("no space available")
	// ErrInvalidPlayfield is returned for playfield dimensions that are not positive and odd.
	ErrInvalidPlayfield = errors.New("invalid playfield")
)

// CellSet is a set of cells.
type CellSet map[Cell]struct{}

// NewCellSet returns a set holding the given cells.
func NewCellSet(cells ...Cell) CellSet {
	set := make(CellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

func (s CellSet) Contains(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

// Playfield is an odd-by-odd rectangle of cells centered at the origin.
type Playfield struct {
	width  int
	height int
}

// NewPlayfield returns a playfield of the given dimensions.
// Both dimensions must be positive and odd so that the origin is the center cell.
func NewPlayfield(width, height int) (Playfield, error) {
	if width <= 0 || height <= 0 || width%2 == 0 || height%2 == 0 {
		return Playfield{}, fmt.Errorf("%w: %dx%d must be positive and odd", ErrInvalidPlayfield, width, height)
	}
	return Playfield{width: width, height: height}, nil
}

// MustNewPlayfield is like NewPlayfield but panics on invalid dimensions.
func MustNewPlayfield(width, height int) Playfield {
	p, err := NewPlayfield(width, height)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Playfield) Width() int {
	return p.width
}

func (p Playfield) Height() int {
	return p.height
}

// HalfWidth is the largest absolute X inside the playfield.
func (p Playfield) HalfWidth() int {
	return p.width / 2
}

// HalfHeight is the largest absolute Y inside the playfield.
func (p Playfield) HalfHeight() int {
	return p.height / 2
}

// Size returns the number of cells in the playfield.
func (p Playfield) Size() int {
	return p.width * p.height
}

func (p Playfield) Contains(c Cell) bool {
	return abs(c.X) <= p.HalfWidth() && abs(c.Y) <= p.HalfHeight()
}

// CellAt maps an index in [0, Size()) to a cell, row by row from the bottom left.
func (p Playfield) CellAt(index int) Cell {
	return Cell{
		X: index%p.width - p.HalfWidth(),
		Y: index/p.width - p.HalfHeight(),
	}
}

// Cells returns every cell of the playfield.
func (p Playfield) Cells() []Cell {
	cells := make([]Cell, 0, p.Size())
	for i := 0; i < p.Size(); i++ {
		cells = append(cells, p.CellAt(i))
	}
	return cells
}

// CellToPixel maps a cell to the center of its square in a world space
// where the origin cell is drawn at (0, 0) and each cell is scale pixels wide.
func CellToPixel(c Cell, scale float64) (float64, float64) {
	return float64(c.X) * scale, float64(c.Y) * scale
}

// CellToScreen maps a cell to the top-left corner of its square on a screen
// whose origin is the top-left corner of the playfield.
func (p Playfield) CellToScreen(c Cell, scale float64) (float64, float64) {
	x, y := CellToPixel(c, scale)
	// shift the origin to the top-left cell and flip y to grow downwards
	return x + float64(p.HalfWidth())*scale, float64(p.HalfHeight())*scale - y
}

// RandomUnoccupiedCell draws a cell uniformly from the playfield cells not in occupied.
// Draws landing on occupied cells are retried. After MaxRejectedDraws rejections the
// free cells are enumerated and one of them is drawn, so the call always terminates.
func (p Playfield) RandomUnoccupiedCell(rng *rand.Rand, occupied CellSet) (Cell, error) {
	taken := 0
	for c := range occupied {
		if p.Contains(c) {
			taken++
		}
	}
	if taken >= p.Size() {
		return Cell{}, ErrNoSpaceAvailable
	}

	for i := 0; i < MaxRejectedDraws; i++ {
		c := p.CellAt(rng.Intn(p.Size()))
		if !occupied.Contains(c) {
			return c, nil
		}
	}

	free := make([]Cell, 0, p.Size()-taken)
	for i := 0; i < p.Size(); i++ {
		c := p.CellAt(i)
		if !occupied.Contains(c) {
			free = append(free, c)
		}
	}
	return free[rng.Intn(len(free))], nil
}
