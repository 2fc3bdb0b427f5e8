package game

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
)

// GameManager drives a Simulation on a fixed-timestep clock.
type GameManager struct {
	simulation       *Simulation
	stateManager     state.StateManager
	eventQueue       queue.Queue
	gameLoopInterval time.Duration
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	Simulation *Simulation
	// StateManager receives a snapshot after every tick
	StateManager state.StateManager
	// EventQueue optionally receives a messages.Message after every tick
	EventQueue       queue.Queue
	GameLoopInterval time.Duration
}

// Result describes how a game run ended.
type Result struct {
	Reason types.GameOverReason
	// Length is the number of snake segments when the game ended
	Length int
	Ticks  uint64
	// Aborted is true when the run was cancelled before the game was over
	Aborted bool
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	return &GameManager{
		simulation:       opts.Simulation,
		stateManager:     opts.StateManager,
		eventQueue:       opts.EventQueue,
		gameLoopInterval: opts.GameLoopInterval,
	}
}

// Start runs the game loop until the game is over or ctx is done.
// Exactly one simulation tick runs per elapsed loop interval.
func (gm *GameManager) Start(ctx context.Context) (Result, error) {
	if gm.gameLoopInterval <= 0 {
		return Result{}, fmt.Errorf("invalid game loop interval: %v", gm.gameLoopInterval)
	}
	if err := gm.stateManager.Set(ctx, gm.simulation.Snapshot(time.Now().UnixMilli())); err != nil {
		return Result{}, fmt.Errorf("failed to publish initial state: %v", err)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Game loop stopped after %d ticks", gm.simulation.Ticks())
			return gm.result(true), nil
		case t := <-ticker.C:
			outcome, err := gm.gameTick(ctx, t)
			if err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
			if outcome.GameOver() {
				result := gm.result(false)
				log.Info("Game over: %s (length %d, %d ticks)", result.Reason, result.Length, result.Ticks)
				return result, nil
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context, t time.Time) (Outcome, error) {
	outcome := gm.simulation.Tick()
	snapshot := gm.simulation.Snapshot(t.UnixMilli())
	log.Trace("Tick %d: head %s, length %d", outcome.Tick, gm.simulation.Snake().Head(), gm.simulation.Snake().Len())

	if err := gm.stateManager.Set(ctx, snapshot); err != nil {
		return outcome, fmt.Errorf("failed to publish state: %v", err)
	}

	gm.enqueueEvents(outcome, snapshot)

	return outcome, nil
}

// enqueueEvents writes the tick's messages to the event queue, if there is one.
func (gm *GameManager) enqueueEvents(outcome Outcome, snapshot *types.Snapshot) {
	if gm.eventQueue == nil {
		return
	}

	update, err := messages.NewMessage(messages.MessageTypeServerGameUpdate, &messages.ServerGameUpdate{
		Ate:      outcome.Ate,
		Snapshot: snapshot,
	})
	if err != nil {
		log.Error("Failed to create game update message: %v", err)
		return
	}
	if err := gm.eventQueue.Enqueue(update); err != nil {
		log.Warn("Failed to enqueue game update for tick %d: %v", outcome.Tick, err)
	}

	if !outcome.GameOver() {
		return
	}

	gameOver, err := messages.NewMessage(messages.MessageTypeServerGameOver, &messages.ServerGameOver{
		Reason: outcome.Reason,
		Length: len(snapshot.Segments),
		Ticks:  outcome.Tick,
	})
	if err != nil {
		log.Error("Failed to create game over message: %v", err)
		return
	}
	if err := gm.eventQueue.Enqueue(gameOver); err != nil {
		log.Warn("Failed to enqueue game over: %v", err)
	}
}

func (gm *GameManager) result(aborted bool) Result {
	return Result{
		Reason:  gm.simulation.Reason(),
		Length:  gm.simulation.Snake().Len(),
		Ticks:   gm.simulation.Ticks(),
		Aborted: aborted,
	}
}

// Input returns the buffer input sources write direction requests to.
func (gm *GameManager) Input() *input.Buffer {
	return gm.simulation.Input()
}
