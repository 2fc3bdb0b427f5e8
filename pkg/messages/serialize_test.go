package messages

import (
	"testing"

	"github.com/cbodonnell/snake/pkg/game/constants"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeGameUpdate(t *testing.T) {
	food := gametypes.Cell{X: 2, Y: -1}
	update := &ServerGameUpdate{
		Ate: true,
		Snapshot: &gametypes.Snapshot{
			Timestamp: 1,
			Tick:      12,
			Width:     5,
			Height:    5,
			Segments:  []gametypes.Cell{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: -1, Y: 0}},
			Direction: gametypes.DirectionRight,
			Food:      &food,
			Status:    gametypes.StatusRunning,
		},
	}

	msg, err := NewMessage(MessageTypeServerGameUpdate, update)
	require.NoError(t, err)

	b, err := SerializeMessage(msg)
	require.NoError(t, err)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeServerGameUpdate, got.Type)

	gotUpdate := &ServerGameUpdate{}
	require.NoError(t, got.DecodePayload(gotUpdate))
	assert.Equal(t, update, gotUpdate)
}

func TestDeserializeMessage_invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not compressed", data: []byte(`{"type":"sgu"}`)},
		{name: "empty", data: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeMessage(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestClientDirection_payload(t *testing.T) {
	msg := &Message{
		ClientID: "abc",
		Type:     MessageTypeClientDirection,
		Payload:  []byte(`{"direction":"up"}`),
	}
	direction := &ClientDirection{}
	require.NoError(t, msg.DecodePayload(direction))
	assert.Equal(t, gametypes.DirectionUp, direction.Direction)

	msg.Payload = []byte(`{"direction":"backwards"}`)
	assert.Error(t, msg.DecodePayload(direction))
}

func TestSerializeMessageFlatbuffer_envelope(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{
			name: "client direction",
			msg:  &Message{ClientID: "5f0c1c1e", Type: MessageTypeClientDirection, Payload: []byte(`{"direction":"left"}`)},
		},
		{
			name: "server message without client id",
			msg:  &Message{Type: MessageTypeServerGameOver, Payload: []byte(`{"reason":"self collision","length":4,"ticks":9}`)},
		},
		{
			name: "empty payload",
			msg:  &Message{Type: MessageTypeServerGameUpdate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := SerializeMessageFlatbuffer(tt.msg)
			require.NoError(t, err)

			got, err := DeserializeMessageFlatbuffer(b)
			require.NoError(t, err)
			assert.Equal(t, tt.msg.ClientID, got.ClientID)
			assert.Equal(t, tt.msg.Type, got.Type)
			assert.Equal(t, string(tt.msg.Payload), string(got.Payload))
		})
	}
}

func TestSerializeMessageFlatbuffer_noType(t *testing.T) {
	_, err := SerializeMessageFlatbuffer(&Message{Payload: []byte(`{}`)})
	assert.Error(t, err)
}

func TestDeserializeMessageFlatbuffer_malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte{1, 2}},
		{name: "root offset out of range", data: []byte{0xff, 0xff, 0xff, 0x7f}},
		{name: "json instead of envelope", data: []byte(`{"type":"sgu"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeserializeMessageFlatbuffer(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestSerializeMessage_largestBoard(t *testing.T) {
	p := gametypes.MustNewPlayfield(constants.MaxPlayfieldDimension, constants.MaxPlayfieldDimension)
	// a snake filling the whole board, the biggest snapshot a game can produce
	update := &ServerGameUpdate{
		Snapshot: &gametypes.Snapshot{
			Tick:      uint64(p.Size()),
			Width:     p.Width(),
			Height:    p.Height(),
			Segments:  p.Cells(),
			Direction: gametypes.DirectionUp,
			Status:    gametypes.StatusGameOver,
		},
	}
	msg, err := NewMessage(MessageTypeServerGameUpdate, update)
	require.NoError(t, err)
	require.Less(t, len(msg.Payload), MessageBufferSize)

	b, err := SerializeMessage(msg)
	require.NoError(t, err)
	require.Less(t, len(b), MessageBufferSize)

	got, err := DeserializeMessage(b)
	require.NoError(t, err)
	gotUpdate := &ServerGameUpdate{}
	require.NoError(t, got.DecodePayload(gotUpdate))
	assert.Len(t, gotUpdate.Snapshot.Segments, p.Size())
}
