package room

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrNoRoom         = errors.New("player has no room")
	ErrNotPlaying     = errors.New("room is not playing")
	ErrAllocation     = errors.New("could not allocate a room id")
)

type State int

const (
	Waiting State = iota
	Playing
)

func (state State) String() string {
	switch state {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

type room struct {
	id        string
	state     State
	members   []string
	finished  map[string]bool
	resolved  bool
	createdAt time.Time
}

func newRoom(id string, createdAt time.Time) *room {
	return &room{
		id:        id,
		state:     Waiting,
		members:   []string{},
		finished:  make(map[string]bool),
		createdAt: createdAt,
	}
}

func (room *room) hasSlot(capacity int) bool {
	return room.state == Waiting && len(room.members) < capacity
}

func (room *room) add(playerID string) {
	room.members = append(room.members, playerID)
}

// remove drops playerID while keeping the join order of everyone else.
func (room *room) remove(playerID string) bool {
	index := slices.Index(room.members, playerID)
	if index < 0 {
		return false
	}

	room.members = slices.Delete(room.members, index, index+1)
	delete(room.finished, playerID)
	return true
}

func (room *room) allFinished() bool {
	if len(room.members) == 0 {
		return false
	}

	for _, member := range room.members {
		if !room.finished[member] {
			return false
		}
	}
	return true
}

// View is a read-only snapshot of a room.
type View struct {
	ID        string
	State     State
	Capacity  int
	Roster    []Entry
	CreatedAt time.Time
}
