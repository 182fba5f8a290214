package room

import (
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/theWebPartyTime/matchroom/internal/player"
)

var testStart = time.Date(2024, time.March, 9, 12, 30, 0, 0, time.UTC)

type received struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// recorder stands in for the transport and keeps every event per connection.
type recorder struct {
	mu     sync.Mutex
	sent   map[string][]received
	broken map[string]bool
	closed map[string]bool
}

func newRecorder() *recorder {
	return &recorder{
		sent:   make(map[string][]received),
		broken: make(map[string]bool),
		closed: make(map[string]bool),
	}
}

func (r *recorder) Send(connectionID string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.broken[connectionID] {
		return errors.New("broken pipe")
	}

	var event received
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	r.sent[connectionID] = append(r.sent[connectionID], event)
	return nil
}

func (r *recorder) Alive(connectionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed[connectionID]
}

// hangUp marks the connection closed, as the transport does before it
// reports the disconnect to the coordinator.
func (r *recorder) hangUp(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed[connectionID] = true
}

func (r *recorder) events(connectionID string, eventType string) []received {
	r.mu.Lock()
	defer r.mu.Unlock()

	matching := []received{}
	for _, event := range r.sent[connectionID] {
		if event.Type == eventType {
			matching = append(matching, event)
		}
	}
	return matching
}

func (r *recorder) count(connectionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent[connectionID])
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = make(map[string][]received)
}

func sequentialCodes() func(int) string {
	var mu sync.Mutex
	next := 0
	return func(int) string {
		mu.Lock()
		defer mu.Unlock()
		next++
		return strconv.Itoa(next)
	}
}

type fixture struct {
	coordinator *Coordinator
	players     *player.Registry
	sender      *recorder
	now         time.Time
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()

	f := &fixture{
		players: player.NewRegistry(),
		sender:  newRecorder(),
		now:     testStart,
	}
	f.coordinator = NewCoordinator(config, f.players, f.sender,
		WithClock(func() time.Time { return f.now }),
		WithCodes(sequentialCodes()),
	)
	return f
}

func capacity(n int) Config {
	config := DefaultConfig()
	config.Capacity = n
	return config
}

func (f *fixture) join(t *testing.T, connectionID string, name string) string {
	t.Helper()

	roomID, err := f.coordinator.Join(connectionID, name)
	if err != nil {
		t.Fatalf("Join(%s, %s) returned %v", connectionID, name, err)
	}
	return roomID
}

func decode[T any](t *testing.T, event received) T {
	t.Helper()

	var payload T
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("decode %s payload: %v", event.Type, err)
	}
	return payload
}

func last[T any](t *testing.T, sender *recorder, connectionID string, eventType string) T {
	t.Helper()

	events := sender.events(connectionID, eventType)
	if len(events) == 0 {
		t.Fatalf("%s received no %s event", connectionID, eventType)
	}
	return decode[T](t, events[len(events)-1])
}

func names(roster []Entry) []string {
	result := make([]string, 0, len(roster))
	for _, entry := range roster {
		result = append(result, entry.Name)
	}
	return result
}
