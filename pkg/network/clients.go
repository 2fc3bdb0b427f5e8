package network

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Client represents a connected websocket client
type Client struct {
	ID     string
	WSConn *websocket.Conn
}

// ClientManager manages connected clients
type ClientManager struct {
	clients     map[string]*Client
	clientsLock sync.RWMutex
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
	}
}

// ConnectClient registers a connection and returns its client.
func (cm *ClientManager) ConnectClient(conn *websocket.Conn) *Client {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client := &Client{
		ID:     uuid.NewString(),
		WSConn: conn,
	}
	cm.clients[client.ID] = client
	return client
}

// DisconnectClient removes a client from the manager
func (cm *ClientManager) DisconnectClient(clientID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	delete(cm.clients, clientID)
}

// GetClient returns the client with the given ID
func (cm *ClientManager) GetClient(clientID string) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s not found", clientID)
	}
	return client, nil
}

// GetClients returns a snapshot of all connected clients.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	return clients
}

func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}
