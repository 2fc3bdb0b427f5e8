package network

import (
	"context"
	"fmt"

	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"nhooyr.io/websocket"
)

// WSClient represents a WebSocket client of a snake server.
type WSClient struct {
	serverAddr string
	conn       *websocket.Conn
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(serverAddr string) *WSClient {
	return &WSClient{
		serverAddr: serverAddr,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Info("Connecting to WebSocket server at %s", c.serverAddr)
	conn, _, err := websocket.Dial(ctx, c.serverAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	conn.SetReadLimit(messages.MessageBufferSize)
	c.conn = conn
	return nil
}

// HandleMessages reads server messages and passes them to handler until the
// connection closes or ctx is done.
func (c *WSClient) HandleMessages(ctx context.Context, handler func(*messages.Message) error) error {
	conn := c.conn
	if conn == nil {
		return fmt.Errorf("not connected")
	}
	for {
		msg, err := ReadMessageFromWS(ctx, conn)
		if err != nil {
			if isNormalClose(err) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		log.Trace("Received message from WebSocket server of type %s", msg.Type)
		if err := handler(msg); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

// SendDirection requests a direction change.
func (c *WSClient) SendDirection(ctx context.Context, direction gametypes.Direction) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	msg, err := messages.NewMessage(messages.MessageTypeClientDirection, &messages.ClientDirection{
		Direction: direction,
	})
	if err != nil {
		return fmt.Errorf("failed to create direction message: %v", err)
	}
	return WriteMessageToWS(ctx, c.conn, msg)
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	c.conn = nil
	return err
}
