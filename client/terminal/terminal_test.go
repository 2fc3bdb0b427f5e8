package terminal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSounds struct {
	lock     sync.Mutex
	eat      int
	gameOver int
}

func (s *countingSounds) PlayEat() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.eat++
}

func (s *countingSounds) PlayGameOver() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.gameOver++
}

func newTestTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)

	return NewTerminal(NewTerminalOptions{
		Screen:       screen,
		Playfield:    gametypes.MustNewPlayfield(5, 5),
		StateManager: state.NewInMemoryStateManager(),
		Input:        input.NewBuffer(gametypes.DirectionRight),
	}), screen
}

func TestTerminal_HandleEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    *tcell.EventKey
		want     gametypes.Direction
		wantQuit bool
	}{
		{name: "arrow up", event: tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), want: gametypes.DirectionUp},
		{name: "arrow left", event: tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), want: gametypes.DirectionLeft},
		{name: "s", event: tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), want: gametypes.DirectionDown},
		{name: "J", event: tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModNone), want: gametypes.DirectionLeft},
		{name: "unbound rune", event: tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), want: gametypes.DirectionRight},
		{name: "escape", event: tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), want: gametypes.DirectionRight, wantQuit: true},
		{name: "q", event: tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), want: gametypes.DirectionRight, wantQuit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _ := newTestTerminal(t)
			assert.Equal(t, tt.wantQuit, term.HandleEvent(tt.event))
			assert.Equal(t, tt.want, term.input.Pending())
		})
	}
}

func TestTerminal_CellToTerminal(t *testing.T) {
	term, _ := newTestTerminal(t)

	tests := []struct {
		cell    gametypes.Cell
		wantCol int
		wantRow int
	}{
		{cell: gametypes.Cell{X: 0, Y: 0}, wantCol: 5, wantRow: 3},
		{cell: gametypes.Cell{X: -2, Y: 2}, wantCol: 1, wantRow: 1},
		{cell: gametypes.Cell{X: 2, Y: -2}, wantCol: 9, wantRow: 5},
	}
	for _, tt := range tests {
		col, row := term.CellToTerminal(tt.cell)
		assert.Equal(t, tt.wantCol, col, "column of %s", tt.cell)
		assert.Equal(t, tt.wantRow, row, "row of %s", tt.cell)
	}
}

func TestTerminal_Draw(t *testing.T) {
	term, screen := newTestTerminal(t)

	food := gametypes.Cell{X: 2, Y: 2}
	snapshot := &gametypes.Snapshot{
		Width:    5,
		Height:   5,
		Segments: []gametypes.Cell{{X: 0, Y: 0}, {X: -1, Y: 0}},
		Food:     &food,
	}
	term.Draw(snapshot, nil)

	mainc, _, _, _ := screen.GetContent(5, 3)
	assert.Equal(t, tcell.RuneBlock, mainc)
	mainc, _, _, _ = screen.GetContent(3, 3)
	assert.Equal(t, tcell.RuneBlock, mainc)
	mainc, _, _, _ = screen.GetContent(9, 1)
	assert.Equal(t, '●', mainc)
	mainc, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, tcell.RuneULCorner, mainc)

	term.Draw(snapshot, &game.Result{Reason: gametypes.ReasonSelfCollision, Length: 2})
	mainc, _, _, _ = screen.GetContent(0, 7)
	assert.Equal(t, 'G', mainc)
}

func TestTerminal_Frame_sounds(t *testing.T) {
	term, _ := newTestTerminal(t)
	events := queue.NewInMemoryQueue(8)
	sounds := &countingSounds{}
	term.events = events
	term.sounds = sounds

	ate, err := messages.NewMessage(messages.MessageTypeServerGameUpdate, &messages.ServerGameUpdate{Ate: true})
	require.NoError(t, err)
	moved, err := messages.NewMessage(messages.MessageTypeServerGameUpdate, &messages.ServerGameUpdate{})
	require.NoError(t, err)
	over, err := messages.NewMessage(messages.MessageTypeServerGameOver, &messages.ServerGameOver{})
	require.NoError(t, err)
	for _, msg := range []*messages.Message{ate, moved, over} {
		require.NoError(t, events.Enqueue(msg))
	}

	// no snapshot has been committed yet, which is not an error
	require.NoError(t, term.Frame(context.Background(), nil))
	assert.Equal(t, 1, sounds.eat)
	assert.Equal(t, 1, sounds.gameOver)
	assert.Equal(t, 0, events.Size())
}

func TestTerminal_Run_result(t *testing.T) {
	term, _ := newTestTerminal(t)
	require.NoError(t, term.stateManager.Set(context.Background(), &gametypes.Snapshot{
		Width:    5,
		Height:   5,
		Segments: []gametypes.Cell{{X: 0, Y: 0}},
	}))

	results := make(chan game.Result, 1)
	results <- game.Result{Reason: gametypes.ReasonBoundaryCollision, Length: 1, Ticks: 3}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := term.Run(ctx, results)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, gametypes.ReasonBoundaryCollision, result.Reason)
}

func TestTerminal_Run_cancelled(t *testing.T) {
	term, _ := newTestTerminal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := term.Run(ctx, make(chan game.Result))
	require.NoError(t, err)
	assert.Nil(t, result)
}
