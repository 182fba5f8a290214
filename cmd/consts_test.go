package main

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/centrifugal/centrifuge"
	log "github.com/sirupsen/logrus"

	"github.com/theWebPartyTime/matchroom/internal/player"
	"github.com/theWebPartyTime/matchroom/internal/room"
)

func TestCheckOrigin(t *testing.T) {
	request := httptest.NewRequest("GET", "/join", nil)
	request.Header.Set("Origin", "https://play.example.com")

	if !checkOrigin(nil)(request) {
		t.Error("an empty allow list should accept any origin")
	}
	if !checkOrigin([]string{"https://play.example.com"})(request) {
		t.Error("listed origin was refused")
	}
	if checkOrigin([]string{"https://other.example.com"})(request) {
		t.Error("unlisted origin was accepted")
	}
}

func TestLogLevelMapping(t *testing.T) {
	for _, level := range []log.Level{log.TraceLevel, log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel} {
		if got := logrusLevel(centrifugeLogLevel(level)); got != level {
			t.Errorf("%v mapped back to %v", level, got)
		}
	}
}

func TestRPCError(t *testing.T) {
	tests := []struct {
		err  error
		code uint32
	}{
		{err: fmt.Errorf("x: %w", room.ErrUnknownEvent), code: centrifuge.ErrorMethodNotFound.Code},
		{err: fmt.Errorf("x: %w", room.ErrInvalidPayload), code: 400},
		{err: fmt.Errorf("x: %w", player.ErrDuplicateConnection), code: 409},
		{err: errors.New("boom"), code: 500},
	}

	for _, tt := range tests {
		if got := rpcError(tt.err); got.Code != tt.code {
			t.Errorf("rpcError(%v) code = %d, want %d", tt.err, got.Code, tt.code)
		}
	}

	if rpcError(nil) != nil {
		t.Error("nil error produced a reply error")
	}
}
