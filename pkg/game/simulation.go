package game

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"golang.org/x/exp/rand"
)

// Outcome is the result of a single tick.
type Outcome struct {
	// Tick is the number of the tick that produced this outcome, starting at 1
	Tick uint64
	// Ate is true when the snake consumed food and grew during this tick
	Ate    bool
	Status types.Status
	Reason types.GameOverReason
}

// GameOver reports whether the outcome is terminal.
func (o Outcome) GameOver() bool {
	return o.Status == types.StatusGameOver
}

// Simulation owns the snake, the food and the playfield and advances them one tick at a time.
// It is not safe for concurrent use; only Tick mutates it.
type Simulation struct {
	playfield types.Playfield
	snake     *types.Snake
	food      *types.Food
	input     *input.Buffer
	rng       *rand.Rand
	tick      uint64
	status    types.Status
	reason    types.GameOverReason
}

// NewSimulationOptions contains options for creating a new Simulation.
type NewSimulationOptions struct {
	Playfield types.Playfield
	// Snake defaults to the starting snake from the constants package
	Snake *types.Snake
	// Food defaults to a food spawned on a random free cell
	Food *types.Food
	// Input defaults to a buffer holding the snake's direction
	Input *input.Buffer
	// RNG defaults to a generator seeded with Seed
	RNG  *rand.Rand
	Seed uint64
}

// NewSimulation returns a running simulation with food on the playfield.
func NewSimulation(opts NewSimulationOptions) (*Simulation, error) {
	if opts.Playfield.Size() == 0 {
		return nil, fmt.Errorf("failed to create simulation: %w", types.ErrInvalidPlayfield)
	}

	snake := opts.Snake
	if snake == nil {
		var err error
		snake, err = types.NewSnake(constants.SnakeStartingSegments(), constants.SnakeStartingDirection)
		if err != nil {
			return nil, fmt.Errorf("failed to create snake: %w", err)
		}
	}
	for _, c := range snake.Segments() {
		if !opts.Playfield.Contains(c) {
			return nil, fmt.Errorf("failed to create simulation: %w: segment %s outside playfield", types.ErrInvalidSnake, c)
		}
	}

	buffer := opts.Input
	if buffer == nil {
		buffer = input.NewBuffer(snake.Direction())
	}

	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	s := &Simulation{
		playfield: opts.Playfield,
		snake:     snake,
		food:      opts.Food,
		input:     buffer,
		rng:       rng,
		status:    types.StatusRunning,
	}
	if s.food == nil {
		s.food = &types.Food{}
	}
	if pos, ok := s.food.Position(); ok && snake.Occupies(pos) {
		return nil, fmt.Errorf("failed to create simulation: food %s placed on the snake", pos)
	}
	if !s.food.Exists() {
		if err := s.food.Respawn(s.rng, s.playfield, s.snake.OccupiedSet()); err != nil {
			return nil, fmt.Errorf("failed to spawn initial food: %w", err)
		}
	}

	return s, nil
}

// Tick advances the simulation by one step:
//
//  1. arbitrate the pending direction against the current one
//  2. compute the next head cell
//  3. end the game if it is outside the playfield
//  4. end the game if it is on the body as it was before this move
//  5. consume the food if it is on the next head cell
//  6. advance the snake, growing it if food was consumed
//  7. respawn the food over the moved body if it was consumed or is missing
//
// Ticking a finished simulation does nothing and returns the terminal outcome.
func (s *Simulation) Tick() Outcome {
	if s.status == types.StatusGameOver {
		return s.outcome(false)
	}
	s.tick++

	direction := s.input.Resolve(func(pending types.Direction) types.Direction {
		return Arbitrate(s.snake.Direction(), pending)
	})
	s.snake.SetDirection(direction)

	next := s.snake.Head().Step(direction)

	if !s.playfield.Contains(next) {
		s.finish(types.ReasonBoundaryCollision)
		return s.outcome(false)
	}

	if s.snake.Occupies(next) {
		s.finish(types.ReasonSelfCollision)
		return s.outcome(false)
	}

	grow := false
	if pos, ok := s.food.Position(); ok && pos == next {
		grow = true
		s.food.Consume()
	}

	s.snake.Advance(next, grow)

	if !s.food.Exists() {
		if err := s.food.Respawn(s.rng, s.playfield, s.snake.OccupiedSet()); err != nil {
			if !errors.Is(err, types.ErrNoSpaceAvailable) {
				log.Error("Unexpected error respawning food: %v", err)
			}
			s.finish(types.ReasonNoSpaceAvailable)
			return s.outcome(grow)
		}
	}

	return s.outcome(grow)
}

// Arbitrate returns the direction the snake moves in next: the pending direction,
// unless it would reverse the current one.
func Arbitrate(current, pending types.Direction) types.Direction {
	if !pending.Valid() || pending.IsOpposite(current) {
		return current
	}
	return pending
}

func (s *Simulation) finish(reason types.GameOverReason) {
	s.status = types.StatusGameOver
	s.reason = reason
	log.Debug("Game over after %d ticks: %s", s.tick, reason)
}

func (s *Simulation) outcome(ate bool) Outcome {
	return Outcome{
		Tick:   s.tick,
		Ate:    ate,
		Status: s.status,
		Reason: s.reason,
	}
}

func (s *Simulation) Playfield() types.Playfield {
	return s.playfield
}

// Snake returns the simulated snake. Callers must not mutate it.
func (s *Simulation) Snake() *types.Snake {
	return s.snake
}

// Food returns the simulated food. Callers must not mutate it.
func (s *Simulation) Food() *types.Food {
	return s.food
}

// Input returns the buffer read by Tick.
func (s *Simulation) Input() *input.Buffer {
	return s.input
}

func (s *Simulation) Status() types.Status {
	return s.status
}

func (s *Simulation) Reason() types.GameOverReason {
	return s.reason
}

func (s *Simulation) Ticks() uint64 {
	return s.tick
}

// Snapshot returns a copy of the committed state for presentation.
func (s *Simulation) Snapshot(timestamp int64) *types.Snapshot {
	snapshot := &types.Snapshot{
		Timestamp: timestamp,
		Tick:      s.tick,
		Width:     s.playfield.Width(),
		Height:    s.playfield.Height(),
		Segments:  s.snake.Segments(),
		Direction: s.snake.Direction(),
		Status:    s.status,
		Reason:    s.reason,
	}
	if pos, ok := s.food.Position(); ok {
		snapshot.Food = &pos
	}
	return snapshot
}
