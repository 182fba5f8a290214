// Package metrics exposes coordinator counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchroom"

// Collector is safe to use as a nil pointer; every method is then a no-op.
type Collector struct {
	registry *prometheus.Registry

	rooms          *prometheus.GaugeVec
	players        prometheus.Gauge
	joins          prometheus.Counter
	gamesStarted   prometheus.Counter
	chatRelayed    prometheus.Counter
	roomsExpired   prometheus.Counter
	winnersDecided *prometheus.CounterVec
}

func New() *Collector {
	collector := &Collector{
		registry: prometheus.NewRegistry(),
		rooms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms currently held by the coordinator, by state.",
		}, []string{"state"}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Registered players.",
		}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Join requests assigned to a room.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Rooms that reached capacity.",
		}),
		chatRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Chat messages relayed to a room.",
		}),
		roomsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_expired_total",
			Help:      "Waiting rooms closed by the wait timeout.",
		}),
		winnersDecided: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Game results announced, by outcome.",
		}, []string{"outcome"}),
	}

	collector.registry.MustRegister(
		collector.rooms,
		collector.players,
		collector.joins,
		collector.gamesStarted,
		collector.chatRelayed,
		collector.roomsExpired,
		collector.winnersDecided,
		collectors.NewGoCollector(),
	)

	return collector
}

func (collector *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(collector.registry, promhttp.HandlerOpts{})
}

func (collector *Collector) SetRooms(waiting int, playing int) {
	if collector == nil {
		return
	}
	collector.rooms.WithLabelValues("waiting").Set(float64(waiting))
	collector.rooms.WithLabelValues("playing").Set(float64(playing))
}

func (collector *Collector) SetPlayers(count int) {
	if collector == nil {
		return
	}
	collector.players.Set(float64(count))
}

func (collector *Collector) Joined() {
	if collector == nil {
		return
	}
	collector.joins.Inc()
}

func (collector *Collector) GameStarted() {
	if collector == nil {
		return
	}
	collector.gamesStarted.Inc()
}

func (collector *Collector) ChatRelayed() {
	if collector == nil {
		return
	}
	collector.chatRelayed.Inc()
}

func (collector *Collector) RoomExpired() {
	if collector == nil {
		return
	}
	collector.roomsExpired.Inc()
}

// Decided records an announced result; outcome is "winner" or "tie".
func (collector *Collector) Decided(outcome string) {
	if collector == nil {
		return
	}
	collector.winnersDecided.WithLabelValues(outcome).Inc()
}
