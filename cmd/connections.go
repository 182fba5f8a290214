package main

import (
	"errors"
	"sync"
)

var errNotConnected = errors.New("connection is gone")

// client is the part of *centrifuge.Client the room coordinator needs.
type client interface {
	Send(data []byte) error
}

// connections is the transport side of room.Sender: it maps connection ids
// handed to the coordinator back to live centrifuge clients.
type connections struct {
	clients map[string]client
	mu      sync.RWMutex
}

func newConnections() *connections {
	return &connections{
		clients: make(map[string]client),
	}
}

func (c *connections) Add(connectionID string, live client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients[connectionID] = live
}

func (c *connections) Remove(connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.clients, connectionID)
}

func (c *connections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients)
}

func (c *connections) Alive(connectionID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.clients[connectionID]
	return ok
}

func (c *connections) Send(connectionID string, data []byte) error {
	c.mu.RLock()
	live, ok := c.clients[connectionID]
	c.mu.RUnlock()

	if !ok {
		return errNotConnected
	}

	return live.Send(data)
}
