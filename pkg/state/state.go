package state

import (
	"context"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
)

// StateManager provides shared access to the committed game state.
// The game loop is the only writer; renderers and transports read.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns a copy of the latest committed snapshot.
	Get(ctx context.Context) (*gametypes.Snapshot, error)
	// Set commits a new snapshot.
	Set(ctx context.Context, snapshot *gametypes.Snapshot) error
}
