package player

import "errors"

var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrNotFound            = errors.New("connection not registered")
)

// Player is the identity bound to one live connection.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	RoomID string `json:"-"`
}

func (player Player) HasRoom() bool {
	return player.RoomID != ""
}
