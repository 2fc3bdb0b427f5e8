package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
)

// ErrNoState is returned by Get before the first snapshot is committed.
var ErrNoState = errors.New("no state committed")

type InMemoryStateManager struct {
	lock     sync.RWMutex
	snapshot *gametypes.Snapshot
}

func NewInMemoryStateManager() *InMemoryStateManager {
	return &InMemoryStateManager{}
}

func (m *InMemoryStateManager) Get(ctx context.Context) (*gametypes.Snapshot, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.snapshot == nil {
		return nil, ErrNoState
	}
	return m.snapshot.Copy(), nil
}

func (m *InMemoryStateManager) Set(ctx context.Context, snapshot *gametypes.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	// copy outside the lock so readers are not held up
	committed := snapshot.Copy()

	m.lock.Lock()
	defer m.lock.Unlock()
	m.snapshot = committed
	return nil
}
