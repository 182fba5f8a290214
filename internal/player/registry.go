package player

import (
	"fmt"
	"sync"
)

// Registry maps live connection ids to players. Callers that need several
// operations to be atomic (the room coordinator) hold their own lock around
// them; the registry lock only keeps individual calls safe.
type Registry struct {
	players map[string]*Player
	mu      sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Player),
	}
}

func (registry *Registry) Register(connectionID string, name string) (Player, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.players[connectionID]; exists {
		return Player{}, fmt.Errorf("register %s: %w", connectionID, ErrDuplicateConnection)
	}

	player := &Player{ID: connectionID, Name: name}
	registry.players[connectionID] = player
	return *player, nil
}

func (registry *Registry) Lookup(connectionID string) (Player, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	player, exists := registry.players[connectionID]
	if !exists {
		return Player{}, fmt.Errorf("lookup %s: %w", connectionID, ErrNotFound)
	}

	return *player, nil
}

// SetRoom points the player at roomID. An empty roomID clears the reference.
func (registry *Registry) SetRoom(connectionID string, roomID string) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	player, exists := registry.players[connectionID]
	if !exists {
		return fmt.Errorf("set room for %s: %w", connectionID, ErrNotFound)
	}

	if player.RoomID != roomID {
		player.RoomID = roomID
	}
	return nil
}

func (registry *Registry) SetScore(connectionID string, score int) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	player, exists := registry.players[connectionID]
	if !exists {
		return fmt.Errorf("set score for %s: %w", connectionID, ErrNotFound)
	}

	player.Score = score
	return nil
}

// Remove deletes the player and hands back the last known record so the
// caller can notify whatever room it was in.
func (registry *Registry) Remove(connectionID string) (Player, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	player, exists := registry.players[connectionID]
	if !exists {
		return Player{}, fmt.Errorf("remove %s: %w", connectionID, ErrNotFound)
	}

	delete(registry.players, connectionID)
	return *player, nil
}

func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return len(registry.players)
}
