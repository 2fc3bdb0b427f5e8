package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestNewPlayfield(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr bool
	}{
		{name: "odd", width: 33, height: 33},
		{name: "single cell", width: 1, height: 1},
		{name: "non square", width: 5, height: 3},
		{name: "even width", width: 4, height: 5, wantErr: true},
		{name: "even height", width: 5, height: 4, wantErr: true},
		{name: "zero", width: 0, height: 5, wantErr: true},
		{name: "negative", width: -3, height: 5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlayfield(tt.width, tt.height)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPlayfield)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.width*tt.height, p.Size())
			assert.True(t, p.Contains(Cell{}))
		})
	}
}

func TestPlayfield_Contains(t *testing.T) {
	p := MustNewPlayfield(5, 5)
	assert.True(t, p.Contains(Cell{X: 2, Y: 2}))
	assert.True(t, p.Contains(Cell{X: -2, Y: -2}))
	assert.False(t, p.Contains(Cell{X: 3, Y: 0}))
	assert.False(t, p.Contains(Cell{X: 0, Y: -3}))
}

func TestPlayfield_Cells(t *testing.T) {
	p := MustNewPlayfield(5, 3)
	cells := p.Cells()
	require.Len(t, cells, 15)

	seen := NewCellSet(cells...)
	assert.Len(t, seen, 15)
	for _, c := range cells {
		assert.True(t, p.Contains(c), "cell %s", c)
	}
	assert.Equal(t, Cell{X: -2, Y: -1}, cells[0])
	assert.Equal(t, Cell{X: 2, Y: 1}, cells[14])
}

func TestCellToPixel(t *testing.T) {
	x, y := CellToPixel(Cell{X: 2, Y: -3}, 24)
	assert.Equal(t, 48.0, x)
	assert.Equal(t, -72.0, y)

	p := MustNewPlayfield(5, 5)
	x, y = p.CellToScreen(Cell{X: -2, Y: 2}, 10)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	x, y = p.CellToScreen(Cell{X: 2, Y: -2}, 10)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 40.0, y)
}

func TestPlayfield_CellToScreen_followsCellToPixel(t *testing.T) {
	p := MustNewPlayfield(7, 5)
	const scale = 24.0
	for _, c := range p.Cells() {
		px, py := CellToPixel(c, scale)
		sx, sy := p.CellToScreen(c, scale)
		// one cell to the right or up in world space is one cell right or up on screen
		assert.Equal(t, px+float64(p.HalfWidth())*scale, sx, "cell %s", c)
		assert.Equal(t, float64(p.HalfHeight())*scale-py, sy, "cell %s", c)
		assert.GreaterOrEqual(t, sx, 0.0)
		assert.GreaterOrEqual(t, sy, 0.0)
		assert.Less(t, sx, float64(p.Width())*scale)
		assert.Less(t, sy, float64(p.Height())*scale)
	}
}

func TestPlayfield_RandomUnoccupiedCell(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := MustNewPlayfield(7, 7)
	cells := p.Cells()

	for i := 0; i < 1000; i++ {
		// occupy a random prefix of a shuffled playfield, leaving at least one cell free
		rng.Shuffle(len(cells), func(a, b int) { cells[a], cells[b] = cells[b], cells[a] })
		occupied := NewCellSet(cells[:rng.Intn(len(cells))]...)

		got, err := p.RandomUnoccupiedCell(rng, occupied)
		require.NoError(t, err)
		assert.True(t, p.Contains(got), "cell %s outside playfield", got)
		assert.False(t, occupied.Contains(got), "cell %s is occupied", got)
	}
}

func TestPlayfield_RandomUnoccupiedCell_lastFreeCell(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := MustNewPlayfield(33, 33)
	free := Cell{X: 16, Y: -16}

	occupied := NewCellSet(p.Cells()...)
	delete(occupied, free)

	got, err := p.RandomUnoccupiedCell(rng, occupied)
	require.NoError(t, err)
	assert.Equal(t, free, got)
}

func TestPlayfield_RandomUnoccupiedCell_full(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := MustNewPlayfield(3, 3)

	occupied := NewCellSet(p.Cells()...)
	// cells outside the playfield don't count towards free space
	occupied.Add(Cell{X: 10, Y: 10})

	_, err := p.RandomUnoccupiedCell(rng, occupied)
	assert.ErrorIs(t, err, ErrNoSpaceAvailable)
}
