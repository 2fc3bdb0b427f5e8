package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/input"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/messages"
	"github.com/cbodonnell/snake/pkg/state"
	"nhooyr.io/websocket"
)

// WriteTimeout bounds a single write to one client.
const WriteTimeout = time.Second

// NetworkManager accepts websocket clients, forwards their direction requests
// to the input buffer and broadcasts server messages to them.
type NetworkManager struct {
	ClientManager *ClientManager
	Input         *input.Buffer
	// StateManager, when set, provides the snapshot sent to each new client
	StateManager state.StateManager

	firstClient     chan struct{}
	firstClientOnce sync.Once
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	Input         *input.Buffer
	StateManager  state.StateManager
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	clientManager := options.ClientManager
	if clientManager == nil {
		clientManager = NewClientManager()
	}
	return &NetworkManager{
		ClientManager: clientManager,
		Input:         options.Input,
		StateManager:  options.StateManager,
		firstClient:   make(chan struct{}),
	}
}

// FirstClientConnected is closed when the first client connects.
func (n *NetworkManager) FirstClientConnected() <-chan struct{} {
	return n.firstClient
}

// HandleWebSocket upgrades the request and serves the connection until it closes.
func (n *NetworkManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageBufferSize)

	client := n.ClientManager.ConnectClient(conn)
	log.Info("Client %s connected from %s", client.ID, r.RemoteAddr)
	n.firstClientOnce.Do(func() { close(n.firstClient) })

	defer func() {
		n.ClientManager.DisconnectClient(client.ID)
		conn.Close(websocket.StatusNormalClosure, "")
		log.Info("Client %s disconnected", client.ID)
	}()

	ctx := r.Context()
	if err := n.sendCurrentState(ctx, client.ID); err != nil {
		log.Warn("Failed to send current state to client %s: %v", client.ID, err)
	}

	for {
		message, err := ReadMessageFromWS(ctx, conn)
		if err != nil {
			if !isNormalClose(err) && ctx.Err() == nil {
				log.Debug("Error reading WebSocket message from client %s: %v", client.ID, err)
			}
			return
		}
		message.ClientID = client.ID
		if err := n.handleClientMessage(message); err != nil {
			log.Warn("Failed to handle message from client %s: %v", client.ID, err)
		}
	}
}

func (n *NetworkManager) handleClientMessage(message *messages.Message) error {
	switch message.Type {
	case messages.MessageTypeClientDirection:
		clientDirection := &messages.ClientDirection{}
		if err := message.DecodePayload(clientDirection); err != nil {
			return err
		}
		if n.Input == nil {
			return fmt.Errorf("no input buffer")
		}
		n.Input.Set(clientDirection.Direction)
		log.Trace("Client %s requested direction %s", message.ClientID, clientDirection.Direction)
	default:
		return fmt.Errorf("unexpected message type from client: %s", message.Type)
	}
	return nil
}

// sendCurrentState sends the latest committed snapshot to a client that just
// connected, so it can draw the board before the next tick.
func (n *NetworkManager) sendCurrentState(ctx context.Context, clientID string) error {
	if n.StateManager == nil {
		return nil
	}
	snapshot, err := n.StateManager.Get(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoState) {
			return nil
		}
		return fmt.Errorf("failed to get state: %v", err)
	}

	msg, err := messages.NewMessage(messages.MessageTypeServerGameUpdate, &messages.ServerGameUpdate{
		Snapshot: snapshot,
	})
	if err != nil {
		return fmt.Errorf("failed to create game update message: %v", err)
	}
	return n.SendMessageToClient(ctx, clientID, msg)
}

// SendMessageToAll writes msg to every connected client, logging failures.
func (n *NetworkManager) SendMessageToAll(ctx context.Context, msg *messages.Message) {
	for _, client := range n.ClientManager.GetClients() {
		if err := n.sendMessageToClient(ctx, client, msg); err != nil {
			log.Error("Failed to send message to client %s: %v", client.ID, err)
		}
	}
}

func (n *NetworkManager) sendMessageToClient(ctx context.Context, client *Client, msg *messages.Message) error {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	return WriteMessageToWS(ctx, client.WSConn, msg)
}

// SendMessageToClient writes msg to a single client.
func (n *NetworkManager) SendMessageToClient(ctx context.Context, clientID string, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %s: %v", clientID, err)
	}

	if err := n.sendMessageToClient(ctx, client, msg); err != nil {
		return fmt.Errorf("failed to send message to client %s: %v", clientID, err)
	}

	return nil
}

// CloseAll closes every client connection with a normal closure.
func (n *NetworkManager) CloseAll(reason string) {
	for _, client := range n.ClientManager.GetClients() {
		if err := client.WSConn.Close(websocket.StatusNormalClosure, reason); err != nil {
			log.Debug("Failed to close connection to client %s: %v", client.ID, err)
		}
	}
}
