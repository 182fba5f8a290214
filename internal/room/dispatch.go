package room

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/theWebPartyTime/matchroom/internal/colors"
	"github.com/theWebPartyTime/matchroom/internal/input"
	"github.com/theWebPartyTime/matchroom/internal/player"
)

const (
	MethodJoin     = "request_to_play"
	MethodScore    = "score_update"
	MethodChat     = "chat_message"
	MethodGameOver = "game_over"
)

type joinRequest struct {
	Name       string `json:"name"`
	PlayerName string `json:"playerName"`
}

type joinReply struct {
	RoomID string `json:"roomId"`
}

type scoreReport struct {
	Score *int `json:"score"`
}

type chatRequest struct {
	Text string `json:"text"`
}

// Dispatch decodes one inbound event and applies it. Events from connections
// that are unknown or have no room are dropped without an error, since they
// are expected to race with disconnects and expiry.
func (coordinator *Coordinator) Dispatch(connectionID string, method string, data []byte) ([]byte, error) {
	if method == MethodJoin {
		return coordinator.dispatchJoin(connectionID, data)
	}

	var err error
	switch method {
	case MethodScore:
		err = coordinator.dispatchScore(connectionID, data)
	case MethodChat:
		err = coordinator.dispatchChat(connectionID, data)
	case MethodGameOver:
		err = coordinator.dispatchGameOver(connectionID, data)
	default:
		return nil, fmt.Errorf("%q: %w", method, ErrUnknownEvent)
	}

	if errors.Is(err, player.ErrNotFound) || errors.Is(err, ErrNoRoom) || errors.Is(err, ErrNotPlaying) {
		log.Debugf("[%v] %s dropped: %v", colors.RPC(connectionID), method, err)
		return nil, nil
	}

	return nil, err
}

func (coordinator *Coordinator) dispatchJoin(connectionID string, data []byte) ([]byte, error) {
	var request joinRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodJoin, ErrInvalidPayload)
	}

	if request.Name == "" {
		request.Name = request.PlayerName
	}

	// A registered connection re-queues under its original name.
	name := ""
	if _, err := coordinator.players.Lookup(connectionID); err != nil {
		checked, err := input.GetNameChecker().Check(request.Name)
		if err != nil {
			return nil, fmt.Errorf("%s name: %v: %w", MethodJoin, err, ErrInvalidPayload)
		}
		name = checked
	}

	roomID, err := coordinator.Join(connectionID, name)
	if errors.Is(err, player.ErrNotFound) {
		log.Debugf("[%v] %s dropped: %v", colors.RPC(connectionID), MethodJoin, err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(joinReply{RoomID: roomID})
}

// dispatchScore accepts {"score": n} and, for older clients, a bare integer.
func (coordinator *Coordinator) dispatchScore(connectionID string, data []byte) error {
	var score int

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var report scoreReport
		if err := json.Unmarshal(trimmed, &report); err != nil || report.Score == nil {
			return fmt.Errorf("%s: %w", MethodScore, ErrInvalidPayload)
		}
		score = *report.Score
	} else if err := json.Unmarshal(trimmed, &score); err != nil {
		return fmt.Errorf("%s: %w", MethodScore, ErrInvalidPayload)
	}

	return coordinator.ReportScore(connectionID, score)
}

// dispatchChat accepts {"text": "..."} and, for older clients, a bare string.
func (coordinator *Coordinator) dispatchChat(connectionID string, data []byte) error {
	var request chatRequest

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &request.Text); err != nil {
			return fmt.Errorf("%s: %w", MethodChat, ErrInvalidPayload)
		}
	} else if err := json.Unmarshal(trimmed, &request); err != nil {
		return fmt.Errorf("%s: %w", MethodChat, ErrInvalidPayload)
	}

	text, err := input.GetTextChecker().Check(request.Text)
	if err != nil {
		return fmt.Errorf("%s text: %v: %w", MethodChat, err, ErrInvalidPayload)
	}

	return coordinator.Chat(connectionID, text)
}

func (coordinator *Coordinator) dispatchGameOver(connectionID string, data []byte) error {
	if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
		return fmt.Errorf("%s: %w", MethodGameOver, ErrInvalidPayload)
	}

	return coordinator.GameOver(connectionID)
}
