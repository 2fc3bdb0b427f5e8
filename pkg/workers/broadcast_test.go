package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mocks "github.com/cbodonnell/snake/mocks/github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroadcaster struct {
	lock sync.Mutex
	sent []*messages.Message
}

func (b *recordingBroadcaster) SendMessageToAll(ctx context.Context, msg *messages.Message) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.sent = append(b.sent, msg)
}

func (b *recordingBroadcaster) types() []messages.MessageType {
	b.lock.Lock()
	defer b.lock.Unlock()
	types := make([]messages.MessageType, 0, len(b.sent))
	for _, msg := range b.sent {
		types = append(types, msg.Type)
	}
	return types
}

func TestBroadcastMessageWorker_flush(t *testing.T) {
	tests := []struct {
		name  string
		setup func(q *mocks.Queue)
		want  []messages.MessageType
	}{
		{
			name: "update and game over",
			setup: func(q *mocks.Queue) {
				q.EXPECT().ReadAllMessages().Return([]interface{}{
					&messages.Message{Type: messages.MessageTypeServerGameUpdate},
					&messages.Message{Type: messages.MessageTypeServerGameOver},
				}, nil).Once()
			},
			want: []messages.MessageType{messages.MessageTypeServerGameUpdate, messages.MessageTypeServerGameOver},
		},
		{
			name: "skips unexpected items",
			setup: func(q *mocks.Queue) {
				q.EXPECT().ReadAllMessages().Return([]interface{}{
					"not a message",
					&messages.Message{Type: messages.MessageTypeClientDirection},
					&messages.Message{Type: messages.MessageTypeServerGameUpdate},
				}, nil).Once()
			},
			want: []messages.MessageType{messages.MessageTypeServerGameUpdate},
		},
		{
			name: "queue error",
			setup: func(q *mocks.Queue) {
				q.EXPECT().ReadAllMessages().Return(nil, errors.New("boom")).Once()
			},
			want: []messages.MessageType{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := mocks.NewQueue(t)
			tt.setup(q)
			b := &recordingBroadcaster{}
			w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{
				Broadcaster: b,
				EventQueue:  q,
				Interval:    time.Millisecond,
			})

			w.flush(context.Background())
			assert.Equal(t, tt.want, b.types())
		})
	}
}

func TestBroadcastMessageWorker_Start(t *testing.T) {
	q := queue.NewInMemoryQueue(8)
	b := &recordingBroadcaster{}
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{
		Broadcaster: b,
		EventQueue:  q,
		Interval:    time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.NoError(t, q.Enqueue(&messages.Message{Type: messages.MessageTypeServerGameUpdate}))
	assert.Eventually(t, func() bool {
		return len(b.types()) == 1
	}, time.Second, time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, 0, q.Size())
}

func TestBroadcastMessageWorker_Start_flushesOnStop(t *testing.T) {
	q := queue.NewInMemoryQueue(8)
	b := &recordingBroadcaster{}
	w := NewBroadcastMessageWorker(NewBroadcastMessageWorkerOptions{
		Broadcaster: b,
		EventQueue:  q,
		Interval:    time.Hour,
	})

	require.NoError(t, q.Enqueue(&messages.Message{Type: messages.MessageTypeServerGameOver}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerGameOver}, b.types())
}
