package room

import (
	"time"

	"github.com/theWebPartyTime/matchroom/internal/metrics"
	"github.com/theWebPartyTime/matchroom/internal/player"
)

const roomPrefix = "room-"

const chatTimeLayout = "15:04:05"

type Config struct {
	Capacity             int
	CodeLength           int
	AllocationRetryLimit int
	WaitTimeout          time.Duration
	SweepInterval        time.Duration
}

func DefaultConfig() Config {
	return Config{
		Capacity:             3,
		CodeLength:           9,
		AllocationRetryLimit: 3,
		WaitTimeout:          0,
		SweepInterval:        5 * time.Second,
	}
}

type Option func(*Coordinator)

func WithMetrics(collector *metrics.Collector) Option {
	return func(coordinator *Coordinator) {
		coordinator.metrics = collector
	}
}

func WithClock(now func() time.Time) Option {
	return func(coordinator *Coordinator) {
		coordinator.now = now
	}
}

// WithCodes replaces the random room code source.
func WithCodes(generate func(length int) string) Option {
	return func(coordinator *Coordinator) {
		coordinator.generateCode = generate
	}
}

func NewCoordinator(config Config, players *player.Registry, sender Sender, options ...Option) *Coordinator {
	coordinator := &Coordinator{
		config:       config,
		players:      players,
		sender:       sender,
		now:          time.Now,
		generateCode: randomCode,
		rooms:        make(map[string]*room),
		order:        []*room{},
	}

	for _, option := range options {
		option(coordinator)
	}

	return coordinator
}
