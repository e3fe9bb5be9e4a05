package handlers

import (
	"fmt"
	"net/http"

	"github.com/karaagenomuranaoya/early-rising-race/internal/metrics"
	"github.com/karaagenomuranaoya/early-rising-race/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

type RoomHandler struct {
	roomService   *services.RoomService
	publicBaseURL string
}

func NewRoomHandler(roomService *services.RoomService, publicBaseURL string) *RoomHandler {
	return &RoomHandler{roomService: roomService, publicBaseURL: publicBaseURL}
}

// CreateRoom godoc
// @Summary      Create a room
// @Description  Create a new wake-up race room in waiting status
// @Tags         rooms
// @Produce      json
// @Success      201 {object} Room
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	room, err := h.roomService.CreateRoom()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	metrics.RoomsCreated.Inc()
	c.JSON(http.StatusCreated, room)
}

// GetRoom godoc
// @Summary      Get room state
// @Description  Room record, its participants and current counts
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	participants, _ := h.roomService.ListParticipants(room.ID)
	total, _ := h.roomService.CountParticipants(room.ID)
	awake, _ := h.roomService.CountAwake(room.ID)

	c.JSON(http.StatusOK, gin.H{
		"room":              room,
		"participants":      participants,
		"participant_count": total,
		"awake_count":       awake,
	})
}

// GetWinner godoc
// @Summary      Get the rank-1 participant
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/winner [get]
func (h *RoomHandler) GetWinner(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	winner, err := h.roomService.GetWinner(room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if winner == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "nobody woke up yet"})
		return
	}
	c.JSON(http.StatusOK, winner)
}

// GetLeaderboard godoc
// @Summary      Ranked participants of a room
// @Description  Participants who already woke up, rank ascending
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {array} services.LeaderboardEntry
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/leaderboard [get]
func (h *RoomHandler) GetLeaderboard(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	entries, err := h.roomService.GetLeaderboard(room.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetInviteQR godoc
// @Summary      Invite QR code
// @Description  PNG QR code pointing at the room's invite URL
// @Tags         rooms
// @Produce      png
// @Param        code path string true "Room code"
// @Success      200 {string} binary "PNG image"
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rooms/{code}/qr [get]
func (h *RoomHandler) GetInviteQR(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	inviteURL := fmt.Sprintf("%s/room/%s", h.publicBaseURL, room.Code)
	png, err := qrcode.Encode(inviteURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
