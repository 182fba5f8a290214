package channels

import (
	"strings"
)

// Lobby is the only channel clients may subscribe to. Room events are sent
// straight to each member connection, so room ids are never channels.
const Lobby = "main"

const OnlineCountType = "online_count"

const attributeSeparator = "@"

func IsLobby(channel string) bool {
	return channel == Lobby
}

// IsRoom reports whether channel looks like a room channel ("play@CODE").
// Such subscriptions are refused.
func IsRoom(channel string) bool {
	return strings.Contains(channel, attributeSeparator)
}

func IsValid(channel string) bool {
	return IsLobby(channel)
}
