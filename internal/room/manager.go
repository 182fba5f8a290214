package room

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/theWebPartyTime/matchroom/internal/colors"
	"github.com/theWebPartyTime/matchroom/internal/metrics"
	"github.com/theWebPartyTime/matchroom/internal/player"
)

// Coordinator owns every room and serializes all events that touch rooms or
// players: each call runs to completion, broadcasts included, while holding
// mu, so filling the last slot of a room can never race.
type Coordinator struct {
	config       Config
	players      *player.Registry
	sender       Sender
	metrics      *metrics.Collector
	now          func() time.Time
	generateCode func(length int) string

	rooms map[string]*room
	order []*room
	mu    sync.Mutex
}

// Join registers the connection and places it in the first waiting room with
// a free slot, opening a new room when there is none. A connection that is
// still registered but lost its room (expired) is queued again under its
// original name, and name is then ignored. A connection the transport has
// already closed is refused with player.ErrNotFound.
func (coordinator *Coordinator) Join(connectionID string, name string) (string, error) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	if !coordinator.sender.Alive(connectionID) {
		return "", fmt.Errorf("join %s: connection closed: %w", connectionID, player.ErrNotFound)
	}

	registered := false
	current, err := coordinator.players.Lookup(connectionID)
	switch {
	case err == nil && current.HasRoom():
		return "", fmt.Errorf("join %s: %w", connectionID, player.ErrDuplicateConnection)
	case err == nil:
		name = current.Name
	case name == "":
		return "", fmt.Errorf("join %s: blank name: %w", connectionID, ErrInvalidPayload)
	default:
		if _, err := coordinator.players.Register(connectionID, name); err != nil {
			return "", err
		}
		registered = true
	}

	target, err := coordinator.assign()
	if err != nil {
		if registered {
			coordinator.players.Remove(connectionID)
		}
		return "", err
	}

	target.add(connectionID)
	if err := coordinator.players.SetRoom(connectionID, target.id); err != nil {
		target.remove(connectionID)
		return "", err
	}

	log.Infof("[%v] joined %v (%d/%d)", colors.Joined(name), colors.Joined(target.id),
		len(target.members), coordinator.config.Capacity)
	coordinator.metrics.Joined()

	roster := coordinator.roster(target)
	coordinator.broadcast(target, EventRoomStatus, RoomStatus{
		CurrentCount:  len(target.members),
		RequiredCount: coordinator.config.Capacity,
		Roster:        roster,
	})

	if target.state == Waiting && len(target.members) == coordinator.config.Capacity {
		target.state = Playing
		log.Infof("[%v] game started with %d players", colors.Started(target.id), len(target.members))
		coordinator.metrics.GameStarted()
		coordinator.broadcast(target, EventGameStart, GameStart{Roster: roster})
	}

	coordinator.refreshGauges()
	return target.id, nil
}

// ReportScore overwrites the caller's score and pushes the refreshed roster to
// the room. Scores are only accepted once the room is playing.
func (coordinator *Coordinator) ReportScore(connectionID string, score int) error {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	current, target, err := coordinator.memberRoom(connectionID)
	if err != nil {
		return err
	}

	if target.state != Playing {
		return fmt.Errorf("score from %s in %s: %w", connectionID, target.id, ErrNotPlaying)
	}

	if err := coordinator.players.SetScore(current.ID, score); err != nil {
		return err
	}

	log.Debugf("[%v] score %d", colors.RPC(current.Name), score)
	coordinator.broadcast(target, EventRosterUpdate, RosterUpdate{Roster: coordinator.roster(target)})
	return nil
}

func (coordinator *Coordinator) Chat(connectionID string, text string) error {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	current, target, err := coordinator.memberRoom(connectionID)
	if err != nil {
		return err
	}

	coordinator.metrics.ChatRelayed()
	coordinator.broadcast(target, EventChat, ChatBroadcast{
		Sender:    current.Name,
		Text:      text,
		Timestamp: coordinator.now().Format(chatTimeLayout),
	})
	return nil
}

// GameOver marks the caller's local game as finished. The winner is announced
// once every remaining member of the room has finished.
func (coordinator *Coordinator) GameOver(connectionID string) error {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	current, target, err := coordinator.memberRoom(connectionID)
	if err != nil {
		return err
	}

	if target.state != Playing {
		return fmt.Errorf("game over from %s in %s: %w", connectionID, target.id, ErrNotPlaying)
	}

	target.finished[current.ID] = true
	coordinator.resolveIfFinished(target)
	return nil
}

// Disconnect forgets the connection. If it held a room, the departing player
// is dropped from the roster and the remaining members receive a single
// player_left notice; a room left empty is evicted.
func (coordinator *Coordinator) Disconnect(connectionID string) (player.Player, error) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	removed, err := coordinator.players.Remove(connectionID)
	if err != nil {
		return player.Player{}, err
	}
	defer coordinator.refreshGauges()

	log.Infof("[%v] left", colors.Left(removed.Name))

	if !removed.HasRoom() {
		return removed, nil
	}

	target, exists := coordinator.rooms[removed.RoomID]
	if !exists || !target.remove(removed.ID) {
		return removed, nil
	}

	if len(target.members) == 0 {
		coordinator.evict(target)
		log.Infof("[%v] closed, no members left", colors.Left(target.id))
		return removed, nil
	}

	coordinator.broadcast(target, EventPlayerLeft, PlayerLeft{
		DepartedID: removed.ID,
		Roster:     coordinator.roster(target),
	})
	coordinator.resolveIfFinished(target)

	return removed, nil
}

// ExpireWaiting closes every waiting room that has been open longer than the
// configured wait timeout. Members keep their registration and may join again.
func (coordinator *Coordinator) ExpireWaiting(now time.Time) int {
	if coordinator.config.WaitTimeout <= 0 {
		return 0
	}

	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	expired := []*room{}
	for _, candidate := range coordinator.order {
		if candidate.state == Waiting && now.Sub(candidate.createdAt) >= coordinator.config.WaitTimeout {
			expired = append(expired, candidate)
		}
	}

	for _, target := range expired {
		coordinator.broadcast(target, EventRoomExpired, RoomExpired{RoomID: target.id})
		for _, member := range target.members {
			if err := coordinator.players.SetRoom(member, ""); err != nil {
				log.Errorf("[%v] release %s: %v", colors.Error(target.id), member, err)
			}
		}
		coordinator.evict(target)
		coordinator.metrics.RoomExpired()
		log.Warnf("[%v] expired after %v", colors.Warning(target.id), coordinator.config.WaitTimeout)
	}

	if len(expired) > 0 {
		coordinator.refreshGauges()
	}
	return len(expired)
}

// Run sweeps expired waiting rooms until ctx is done. Without a wait timeout
// it only waits for ctx.
func (coordinator *Coordinator) Run(ctx context.Context) error {
	if coordinator.config.WaitTimeout <= 0 || coordinator.config.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(coordinator.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			coordinator.ExpireWaiting(coordinator.now())
		}
	}
}

func (coordinator *Coordinator) Room(roomID string) (View, bool) {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	target, exists := coordinator.rooms[roomID]
	if !exists {
		return View{}, false
	}

	return View{
		ID:        target.id,
		State:     target.state,
		Capacity:  coordinator.config.Capacity,
		Roster:    coordinator.roster(target),
		CreatedAt: target.createdAt,
	}, true
}

// Rooms lists room ids in creation order.
func (coordinator *Coordinator) Rooms() []string {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	ids := make([]string, 0, len(coordinator.order))
	for _, existing := range coordinator.order {
		ids = append(ids, existing.id)
	}
	return ids
}

func (coordinator *Coordinator) Capacity() int {
	return coordinator.config.Capacity
}

func (coordinator *Coordinator) assign() (*room, error) {
	for _, candidate := range coordinator.order {
		if candidate.hasSlot(coordinator.config.Capacity) {
			return candidate, nil
		}
	}

	return coordinator.allocate()
}

func (coordinator *Coordinator) allocate() (*room, error) {
	for i := 0; i < max(coordinator.config.AllocationRetryLimit, 1); i++ {
		roomID := roomPrefix + coordinator.generateCode(coordinator.config.CodeLength)

		if _, exists := coordinator.rooms[roomID]; !exists {
			created := newRoom(roomID, coordinator.now())
			coordinator.rooms[roomID] = created
			coordinator.order = append(coordinator.order, created)
			log.Infof("[%v] created", colors.Joined(roomID))
			return created, nil
		}
	}

	return nil, ErrAllocation
}

func (coordinator *Coordinator) evict(target *room) {
	delete(coordinator.rooms, target.id)
	coordinator.order = slices.DeleteFunc(coordinator.order, func(existing *room) bool {
		return existing == target
	})
}

func (coordinator *Coordinator) memberRoom(connectionID string) (player.Player, *room, error) {
	current, err := coordinator.players.Lookup(connectionID)
	if err != nil {
		return player.Player{}, nil, err
	}

	if !current.HasRoom() {
		return player.Player{}, nil, fmt.Errorf("%s: %w", connectionID, ErrNoRoom)
	}

	target, exists := coordinator.rooms[current.RoomID]
	if !exists {
		return player.Player{}, nil, fmt.Errorf("%s in %s: %w", connectionID, current.RoomID, ErrNoRoom)
	}

	return current, target, nil
}

func (coordinator *Coordinator) resolveIfFinished(target *room) {
	if target.resolved || target.state != Playing || !target.allFinished() {
		return
	}

	target.resolved = true
	result := Resolve(coordinator.roster(target))
	coordinator.metrics.Decided(result.Outcome())

	if result.Tie {
		log.Infof("[%v] tie between %s", colors.Started(target.id), strings.Join(result.TiedNames, ", "))
	} else {
		log.Infof("[%v] %s wins", colors.Started(target.id), result.WinnerName)
	}

	coordinator.broadcast(target, EventWinner, result)
}

func (coordinator *Coordinator) roster(target *room) []Entry {
	roster := make([]Entry, 0, len(target.members))
	for _, member := range target.members {
		current, err := coordinator.players.Lookup(member)
		if err != nil {
			log.Errorf("[%v] member %s missing from registry", colors.Error(target.id), member)
			continue
		}
		roster = append(roster, Entry{ID: current.ID, Name: current.Name, Score: current.Score})
	}
	return roster
}

// broadcast is fire-and-forget: a failed send is logged and the remaining
// members still receive the event.
func (coordinator *Coordinator) broadcast(target *room, eventType string, payload any) {
	data, err := json.Marshal(Envelope{Type: eventType, Payload: payload})
	if err != nil {
		log.Errorf("[%v] encode %s: %v", colors.Error(target.id), eventType, err)
		return
	}

	for _, member := range target.members {
		if err := coordinator.sender.Send(member, data); err != nil {
			log.Warnf("[%v] send %s to %s: %v", colors.Warning(target.id), eventType, member, err)
		}
	}
}

func (coordinator *Coordinator) refreshGauges() {
	waiting, playing := 0, 0
	for _, existing := range coordinator.order {
		if existing.state == Playing {
			playing++
		} else {
			waiting++
		}
	}
	coordinator.metrics.SetRooms(waiting, playing)
	coordinator.metrics.SetPlayers(coordinator.players.Len())
}

func randomCode(length int) string {
	var codeBuilder strings.Builder
	for i := 0; i < length; i++ {
		letter := rune(rand.Intn(26) + 'A')
		codeBuilder.WriteRune(letter)
	}
	return codeBuilder.String()
}
