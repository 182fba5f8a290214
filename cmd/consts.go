package main

import (
	"net/http"
	"slices"

	"github.com/centrifugal/centrifuge"
	log "github.com/sirupsen/logrus"

	"github.com/theWebPartyTime/matchroom/internal/config"
	"github.com/theWebPartyTime/matchroom/internal/room"
)

const defaultConfigPath = "matchroom.toml"
const envFile = ".env"

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}

func wsMainConfig(server config.ServerConfig) centrifuge.WebsocketConfig {
	return centrifuge.WebsocketConfig{
		CheckOrigin: checkOrigin(server.AllowedOrigins),
	}
}

func centrifugeMainConfig(level log.Level) centrifuge.Config {
	return centrifuge.Config{
		LogLevel: centrifugeLogLevel(level),
		LogHandler: func(e centrifuge.LogEntry) {
			log.WithFields(log.Fields(e.Fields)).Log(logrusLevel(e.Level), e.Message)
		},
	}
}

func centrifugeLogLevel(level log.Level) centrifuge.LogLevel {
	switch {
	case level >= log.TraceLevel:
		return centrifuge.LogLevelTrace
	case level >= log.DebugLevel:
		return centrifuge.LogLevelDebug
	case level >= log.InfoLevel:
		return centrifuge.LogLevelInfo
	case level >= log.WarnLevel:
		return centrifuge.LogLevelWarn
	default:
		return centrifuge.LogLevelError
	}
}

func logrusLevel(level centrifuge.LogLevel) log.Level {
	switch level {
	case centrifuge.LogLevelTrace:
		return log.TraceLevel
	case centrifuge.LogLevelDebug:
		return log.DebugLevel
	case centrifuge.LogLevelInfo:
		return log.InfoLevel
	case centrifuge.LogLevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

func coordinatorConfig(settings config.RoomConfig) room.Config {
	return room.Config{
		Capacity:             settings.Capacity,
		CodeLength:           settings.CodeLength,
		AllocationRetryLimit: settings.AllocationRetryLimit,
		WaitTimeout:          settings.WaitTimeout.Duration,
		SweepInterval:        settings.SweepInterval.Duration,
	}
}
