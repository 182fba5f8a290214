package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theWebPartyTime/matchroom/internal/room"
)

func root(context *gin.Context) {
	context.JSON(http.StatusOK, gin.H{
		"message": "Welcome to matchroom!",
	})
}

func health(coordinator *room.Coordinator, connected *connections) gin.HandlerFunc {
	return func(context *gin.Context) {
		context.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"rooms":       len(coordinator.Rooms()),
			"connections": connected.Len(),
			"capacity":    coordinator.Capacity(),
		})
	}
}
