package types

import "fmt"

// Status is the state of the simulation state machine.
type Status uint8

const (
	StatusRunning Status = iota
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusGameOver:
		return "game-over"
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = StatusRunning
	case "game-over":
		*s = StatusGameOver
	default:
		return fmt.Errorf("unknown status: %s", text)
	}
	return nil
}

// GameOverReason tags why a game ended.
type GameOverReason uint8

const (
	ReasonNone GameOverReason = iota
	// ReasonBoundaryCollision is set when the head would leave the playfield.
	ReasonBoundaryCollision
	// ReasonSelfCollision is set when the head would enter a body segment.
	ReasonSelfCollision
	// ReasonNoSpaceAvailable is set when the snake covers every cell and no food can be placed.
	ReasonNoSpaceAvailable
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBoundaryCollision:
		return "boundary-collision"
	case ReasonSelfCollision:
		return "self-collision"
	case ReasonNoSpaceAvailable:
		return "no-space-available"
	}
	return "unknown"
}

func (r GameOverReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *GameOverReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*r = ReasonNone
	case "boundary-collision":
		*r = ReasonBoundaryCollision
	case "self-collision":
		*r = ReasonSelfCollision
	case "no-space-available":
		*r = ReasonNoSpaceAvailable
	default:
		return fmt.Errorf("unknown game over reason: %s", text)
	}
	return nil
}

// Snapshot is a committed, read-only view of the game between ticks.
type Snapshot struct {
	// Timestamp is the unix millisecond time at which the snapshot was taken
	Timestamp int64 `json:"timestamp"`
	// Tick is the number of ticks simulated so far
	Tick      uint64         `json:"tick"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Segments  []Cell         `json:"segments"`
	Direction Direction      `json:"direction"`
	Food      *Cell          `json:"food,omitempty"`
	Status    Status         `json:"status"`
	Reason    GameOverReason `json:"reason"`
}

// Head returns the head segment, if any.
func (s *Snapshot) Head() (Cell, bool) {
	if len(s.Segments) == 0 {
		return Cell{}, false
	}
	return s.Segments[0], true
}

// Copy returns a deep copy of the snapshot.
func (s *Snapshot) Copy() *Snapshot {
	newSnapshot := *s
	newSnapshot.Segments = make([]Cell, len(s.Segments))
	copy(newSnapshot.Segments, s.Segments)
	if s.Food != nil {
		food := *s.Food
		newSnapshot.Food = &food
	}
	return &newSnapshot
}
