package messages

import (
	"encoding/json"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a serialized message.
	// A full snapshot of the largest allowed playfield fits well below it.
	MessageBufferSize = 1024 * 1024
)

type MessageType string

// Message types
const (
	MessageTypeServerGameUpdate MessageType = "sgu"
	MessageTypeServerGameOver   MessageType = "sgo"
	MessageTypeClientDirection  MessageType = "cdr"
)

// Message represents a generic message for serialization/deserialization
type Message struct {
	// ClientID is empty for messages sent by the server
	ClientID string          `json:"clientID,omitempty"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// ServerGameUpdate is sent after every tick with the committed state.
type ServerGameUpdate struct {
	// Ate is true when the snake grew during the tick
	Ate      bool                `json:"ate"`
	Snapshot *gametypes.Snapshot `json:"snapshot"`
}

// ServerGameOver is sent once when the game ends.
type ServerGameOver struct {
	Reason gametypes.GameOverReason `json:"reason"`
	Length int                      `json:"length"`
	Ticks  uint64                   `json:"ticks"`
}

// ClientDirection requests a direction change.
type ClientDirection struct {
	Direction gametypes.Direction `json:"direction"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(messageType MessageType, payload interface{}) (*Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:    messageType,
		Payload: b,
	}, nil
}
