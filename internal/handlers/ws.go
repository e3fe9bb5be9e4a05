package handlers

import (
	"log"
	"net/http"

	"github.com/karaagenomuranaoya/early-rising-race/internal/metrics"
	"github.com/karaagenomuranaoya/early-rising-race/internal/services"
	"github.com/karaagenomuranaoya/early-rising-race/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub         *ws.Hub
	roomService *services.RoomService
}

func NewWSHandler(hub *ws.Hub, roomService *services.RoomService) *WSHandler {
	return &WSHandler{hub: hub, roomService: roomService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleRoomWebSocket godoc
// @Summary      WebSocket subscription to room changes
// @Description  Every participant mutation in the room is pushed as a typed
// @Description  event; clients refetch state on any event.
// @Tags         websocket
// @Param        code path string true "Room code"
// @Router       /ws/room/{code} [get]
func (h *WSHandler) HandleRoomWebSocket(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	h.hub.AddRoomConnection(room.ID, conn)
	metrics.WSConnectionsActive.Inc()
	defer func() {
		h.hub.RemoveRoomConnection(room.ID, conn)
		metrics.WSConnectionsActive.Dec()
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
