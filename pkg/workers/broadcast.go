package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
)

// Broadcaster sends a message to every connected client.
type Broadcaster interface {
	SendMessageToAll(ctx context.Context, msg *messages.Message)
}

// BroadcastMessageWorker drains the game event queue and broadcasts each message.
type BroadcastMessageWorker struct {
	broadcaster Broadcaster
	eventQueue  queue.Queue
	interval    time.Duration
}

type NewBroadcastMessageWorkerOptions struct {
	Broadcaster Broadcaster
	EventQueue  queue.Queue
	// Interval is how often the queue is drained
	Interval time.Duration
}

func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		broadcaster: opts.Broadcaster,
		eventQueue:  opts.EventQueue,
		interval:    opts.Interval,
	}
}

// Start drains the queue every interval until ctx is done, then drains it one last time.
func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// deliver whatever the game loop enqueued last, e.g. the game over message
			w.flush(context.Background())
			return
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *BroadcastMessageWorker) flush(ctx context.Context) {
	items, err := w.eventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read event queue: %v", err)
		return
	}
	for _, item := range items {
		if err := w.broadcast(ctx, item); err != nil {
			log.Error("Failed to broadcast message: %v", err)
		}
	}
}

func (w *BroadcastMessageWorker) broadcast(ctx context.Context, item interface{}) error {
	msg, ok := item.(*messages.Message)
	if !ok {
		return fmt.Errorf("failed to cast message: %T", item)
	}

	switch msg.Type {
	case messages.MessageTypeServerGameUpdate, messages.MessageTypeServerGameOver:
		w.broadcaster.SendMessageToAll(ctx, msg)
	default:
		return fmt.Errorf("unexpected message type for broadcast: %s", msg.Type)
	}
	return nil
}
