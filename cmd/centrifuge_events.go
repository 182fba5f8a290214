package main

import (
	"encoding/json"
	"errors"

	"github.com/centrifugal/centrifuge"
	log "github.com/sirupsen/logrus"

	"github.com/theWebPartyTime/matchroom/internal/channels"
	"github.com/theWebPartyTime/matchroom/internal/colors"
	"github.com/theWebPartyTime/matchroom/internal/player"
	"github.com/theWebPartyTime/matchroom/internal/room"
)

// publisher is the part of *centrifuge.Node used for lobby broadcasts.
type publisher interface {
	Publish(channel string, data []byte, opts ...centrifuge.PublishOption) (centrifuge.PublishResult, error)
}

type response struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func onConnect(node publisher, coordinator *room.Coordinator, connected *connections) func(*centrifuge.Client) {
	return func(client *centrifuge.Client) {
		clientID := client.ID()
		connected.Add(clientID, client)
		log.Debugf("[%v] connected", colors.Joined(clientID))

		client.OnRPC(onRPC(coordinator, clientID))
		client.OnSubscribe(onSubscribe(clientID))
		client.OnDisconnect(onDisconnect(node, coordinator, connected, clientID))

		publishOnlineCount(node, connected)
	}
}

func onRPC(coordinator *room.Coordinator, clientID string) func(centrifuge.RPCEvent, centrifuge.RPCCallback) {
	return func(e centrifuge.RPCEvent, cb centrifuge.RPCCallback) {
		log.Debugf("[%v] RPC.%v()", colors.RPC(clientID), colors.RPC(e.Method))

		reply, err := coordinator.Dispatch(clientID, e.Method, e.Data)
		if err != nil {
			if errors.Is(err, player.ErrDuplicateConnection) {
				log.Warnf("[%v] %v", colors.Warning(clientID), err)
			} else {
				log.Debugf("[%v] RPC.%v() failed: %v", colors.Error(clientID), e.Method, err)
			}
			cb(centrifuge.RPCReply{}, rpcError(err))
			return
		}

		cb(centrifuge.RPCReply{Data: reply}, nil)
	}
}

func onSubscribe(clientID string) func(centrifuge.SubscribeEvent, centrifuge.SubscribeCallback) {
	return func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
		if channels.IsRoom(e.Channel) {
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
			return
		}

		if !channels.IsValid(e.Channel) {
			cb(centrifuge.SubscribeReply{}, centrifuge.ErrorUnknownChannel)
			return
		}

		log.Debugf("[%v] joined %v", colors.Joined(clientID), colors.Joined(e.Channel))
		cb(centrifuge.SubscribeReply{}, nil)
	}
}

// onDisconnect drops the connection from the table before the coordinator
// hears about it, so a join still in flight cannot seat a closed connection.
func onDisconnect(node publisher, coordinator *room.Coordinator,
	connected *connections, clientID string) func(centrifuge.DisconnectEvent) {

	return func(e centrifuge.DisconnectEvent) {
		connected.Remove(clientID)

		if _, err := coordinator.Disconnect(clientID); err != nil && !errors.Is(err, player.ErrNotFound) {
			log.Errorf("[%v] disconnect: %v", colors.Error(clientID), err)
		}

		log.Debugf("[%v] disconnected: %v", colors.Left(clientID), e.Reason)

		publishOnlineCount(node, connected)
	}
}

func publishOnlineCount(node publisher, connected *connections) {
	data, _ := json.Marshal(response{
		Type:    channels.OnlineCountType,
		Payload: map[string]any{"count": connected.Len()},
	})

	if _, err := node.Publish(channels.Lobby, data); err != nil {
		log.Warnf("[%v] publish online count: %v", colors.Warning(channels.Lobby), err)
	}
}
