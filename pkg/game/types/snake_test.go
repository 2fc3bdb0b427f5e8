package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnake(t *testing.T) {
	tests := []struct {
		name         string
		segments     []Cell
		direction    Direction
		wantTailDrop Cell
		wantErr      bool
	}{
		{
			name:         "starting snake",
			segments:     []Cell{{0, 0}, {-1, 0}},
			direction:    DirectionRight,
			wantTailDrop: Cell{-2, 0},
		},
		{
			name:         "single segment",
			segments:     []Cell{{0, 0}},
			direction:    DirectionUp,
			wantTailDrop: Cell{0, -1},
		},
		{
			name:         "bent body",
			segments:     []Cell{{0, 0}, {0, 1}, {1, 1}},
			direction:    DirectionDown,
			wantTailDrop: Cell{2, 1},
		},
		{
			name:      "empty",
			segments:  nil,
			direction: DirectionUp,
			wantErr:   true,
		},
		{
			name:      "gap",
			segments:  []Cell{{0, 0}, {2, 0}},
			direction: DirectionLeft,
			wantErr:   true,
		},
		{
			name:      "duplicate",
			segments:  []Cell{{0, 0}, {1, 0}, {0, 0}},
			direction: DirectionLeft,
			wantErr:   true,
		},
		{
			name:      "invalid direction",
			segments:  []Cell{{0, 0}},
			direction: Direction(9),
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSnake(tt.segments, tt.direction)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSnake)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.segments, s.Segments())
			assert.Equal(t, tt.segments[0], s.Head())
			assert.Equal(t, tt.direction, s.Direction())
			assert.Equal(t, tt.wantTailDrop, s.TailDrop())
		})
	}
}

func TestSnake_Advance(t *testing.T) {
	tests := []struct {
		name         string
		segments     []Cell
		next         Cell
		grow         bool
		want         []Cell
		wantTailDrop Cell
	}{
		{
			name:         "slide",
			segments:     []Cell{{0, 0}, {-1, 0}, {-2, 0}},
			next:         Cell{1, 0},
			want:         []Cell{{1, 0}, {0, 0}, {-1, 0}},
			wantTailDrop: Cell{-2, 0},
		},
		{
			name:         "grow",
			segments:     []Cell{{0, 0}, {-1, 0}, {-2, 0}},
			next:         Cell{0, 1},
			grow:         true,
			want:         []Cell{{0, 1}, {0, 0}, {-1, 0}, {-2, 0}},
			wantTailDrop: Cell{-2, 0},
		},
		{
			name:         "grow single segment",
			segments:     []Cell{{0, 0}},
			next:         Cell{0, -1},
			grow:         true,
			want:         []Cell{{0, -1}, {0, 0}},
			wantTailDrop: Cell{0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSnake(tt.segments, DirectionRight)
			require.NoError(t, err)

			s.Advance(tt.next, tt.grow)

			assert.Equal(t, tt.want, s.Segments())
			assert.Equal(t, tt.wantTailDrop, s.TailDrop())
			segments := s.Segments()
			for i := 1; i < len(segments); i++ {
				assert.Equal(t, 1, segments[i-1].Manhattan(segments[i]), "segments %d and %d", i-1, i)
			}
		})
	}
}

func TestSnake_SegmentsIsCopy(t *testing.T) {
	s, err := NewSnake([]Cell{{0, 0}, {-1, 0}}, DirectionRight)
	require.NoError(t, err)

	segments := s.Segments()
	segments[0] = Cell{5, 5}
	assert.Equal(t, Cell{0, 0}, s.Head())
}

func TestSnake_Occupies(t *testing.T) {
	s, err := NewSnake([]Cell{{0, 0}, {-1, 0}, {-1, 1}}, DirectionRight)
	require.NoError(t, err)

	assert.True(t, s.Occupies(Cell{-1, 1}))
	assert.False(t, s.Occupies(Cell{1, 0}))
	assert.Equal(t, NewCellSet(Cell{0, 0}, Cell{-1, 0}, Cell{-1, 1}), s.OccupiedSet())
}
