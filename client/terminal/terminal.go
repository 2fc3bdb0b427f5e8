package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/game"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/gdamore/tcell/v2"
)

const (
	// FrameInterval is the redraw period
	FrameInterval = 16 * time.Millisecond
	// GameOverLinger is how long the final frame stays up before Run returns
	GameOverLinger = 2 * time.Second
	// CellWidth is the number of terminal columns per playfield cell, so cells look square
	CellWidth = 2
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	snakeStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	headStyle   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// Sounds plays feedback for game events.
type Sounds interface {
	PlayEat()
	PlayGameOver()
}

// Terminal renders committed snapshots on a character grid and feeds key
// presses to the input buffer.
type Terminal struct {
	screen       tcell.Screen
	playfield    gametypes.Playfield
	stateManager state.StateManager
	input        *input.Buffer
	// events is drained every frame for sound cues; optional
	events queue.Queue
	sounds Sounds
}

type NewTerminalOptions struct {
	Screen       tcell.Screen
	Playfield    gametypes.Playfield
	StateManager state.StateManager
	Input        *input.Buffer
	Events       queue.Queue
	Sounds       Sounds
}

func NewTerminal(opts NewTerminalOptions) *Terminal {
	return &Terminal{
		screen:       opts.Screen,
		playfield:    opts.Playfield,
		stateManager: opts.StateManager,
		input:        opts.Input,
		events:       opts.Events,
		sounds:       opts.Sounds,
	}
}

// HandleEvent applies a terminal event and reports whether the player asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			t.input.HandleKey("up")
		case tcell.KeyDown:
			t.input.HandleKey("down")
		case tcell.KeyLeft:
			t.input.HandleKey("left")
		case tcell.KeyRight:
			t.input.HandleKey("right")
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return true
			}
			t.input.HandleKey(string(ev.Rune()))
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

// Run draws frames until the game loop delivers a result, the player quits or ctx is done.
// It returns nil when the game ended before a result was delivered.
func (t *Terminal) Run(ctx context.Context, results <-chan game.Result) (*game.Result, error) {
	quit := make(chan struct{})
	go t.pollEvents(quit)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case <-quit:
			log.Info("Player quit")
			return nil, nil
		case result := <-results:
			if err := t.Frame(ctx, &result); err != nil {
				return &result, err
			}
			select {
			case <-time.After(GameOverLinger):
			case <-quit:
			case <-ctx.Done():
			}
			return &result, nil
		case <-ticker.C:
			if err := t.Frame(ctx, nil); err != nil {
				return nil, err
			}
		}
	}
}

// pollEvents feeds terminal events to HandleEvent until the screen is finalized.
func (t *Terminal) pollEvents(quit chan<- struct{}) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		if t.HandleEvent(ev) {
			close(quit)
			return
		}
	}
}

// Frame plays queued sound cues and draws the latest snapshot.
func (t *Terminal) Frame(ctx context.Context, result *game.Result) error {
	t.playEvents()

	snapshot, err := t.stateManager.Get(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoState) {
			return nil
		}
		return fmt.Errorf("failed to get state: %v", err)
	}
	t.Draw(snapshot, result)
	return nil
}

func (t *Terminal) playEvents() {
	if t.events == nil {
		return
	}
	items, err := t.events.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read events: %v", err)
		return
	}
	if t.sounds == nil {
		return
	}
	for _, item := range items {
		msg, ok := item.(*messages.Message)
		if !ok {
			continue
		}
		switch msg.Type {
		case messages.MessageTypeServerGameUpdate:
			update := &messages.ServerGameUpdate{}
			if err := msg.DecodePayload(update); err != nil {
				log.Error("Failed to decode game update: %v", err)
				continue
			}
			if update.Ate {
				t.sounds.PlayEat()
			}
		case messages.MessageTypeServerGameOver:
			t.sounds.PlayGameOver()
		}
	}
}

// CellToTerminal maps a playfield cell to the column and row of its left character,
// inside a one character border.
func (t *Terminal) CellToTerminal(c gametypes.Cell) (int, int) {
	col := (c.X+t.playfield.HalfWidth())*CellWidth + 1
	row := t.playfield.HalfHeight() - c.Y + 1
	return col, row
}

// Draw renders snapshot, with a game over line when result is set.
func (t *Terminal) Draw(snapshot *gametypes.Snapshot, result *game.Result) {
	t.screen.Clear()
	t.drawBorder()

	if snapshot.Food != nil {
		t.drawCell(*snapshot.Food, '●', ' ', foodStyle)
	}
	for i := len(snapshot.Segments) - 1; i >= 0; i-- {
		style := snakeStyle
		if i == 0 {
			style = headStyle
		}
		t.drawCell(snapshot.Segments[i], tcell.RuneBlock, tcell.RuneBlock, style)
	}

	status := fmt.Sprintf("Length %d", len(snapshot.Segments))
	if result != nil {
		status = fmt.Sprintf("GAME OVER (%s) Length %d", result.Reason, result.Length)
	}
	t.drawString(0, t.playfield.Height()+2, status, textStyle)

	t.screen.Show()
}

func (t *Terminal) drawCell(c gametypes.Cell, left, right rune, style tcell.Style) {
	col, row := t.CellToTerminal(c)
	t.screen.SetContent(col, row, left, nil, style)
	t.screen.SetContent(col+1, row, right, nil, style)
}

func (t *Terminal) drawBorder() {
	right := t.playfield.Width()*CellWidth + 1
	bottom := t.playfield.Height() + 1
	for col := 1; col < right; col++ {
		t.screen.SetContent(col, 0, tcell.RuneHLine, nil, borderStyle)
		t.screen.SetContent(col, bottom, tcell.RuneHLine, nil, borderStyle)
	}
	for row := 1; row < bottom; row++ {
		t.screen.SetContent(0, row, tcell.RuneVLine, nil, borderStyle)
		t.screen.SetContent(right, row, tcell.RuneVLine, nil, borderStyle)
	}
	t.screen.SetContent(0, 0, tcell.RuneULCorner, nil, borderStyle)
	t.screen.SetContent(right, 0, tcell.RuneURCorner, nil, borderStyle)
	t.screen.SetContent(0, bottom, tcell.RuneLLCorner, nil, borderStyle)
	t.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, borderStyle)
}

func (t *Terminal) drawString(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
}
