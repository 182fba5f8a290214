package main

import (
	"errors"

	"github.com/centrifugal/centrifuge"

	"github.com/theWebPartyTime/matchroom/internal/player"
	"github.com/theWebPartyTime/matchroom/internal/room"
)

// rpcError maps coordinator failures onto replies the client can act on.
func rpcError(err error) *centrifuge.Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, room.ErrUnknownEvent):
		return centrifuge.ErrorMethodNotFound
	case errors.Is(err, room.ErrInvalidPayload):
		return &centrifuge.Error{Code: 400, Message: err.Error()}
	case errors.Is(err, player.ErrDuplicateConnection):
		return &centrifuge.Error{Code: 409, Message: "Connection already joined a room."}
	default:
		return &centrifuge.Error{Code: 500, Message: err.Error()}
	}
}
