package handlers

import (
	"errors"
	"net/http"

	"github.com/karaagenomuranaoya/early-rising-race/internal/metrics"
	"github.com/karaagenomuranaoya/early-rising-race/internal/services"
	"github.com/karaagenomuranaoya/early-rising-race/internal/ws"

	"github.com/gin-gonic/gin"
)

type PlayHandler struct {
	raceService *services.RaceService
	roomService *services.RoomService
	hub         *ws.Hub
}

func NewPlayHandler(raceService *services.RaceService, roomService *services.RoomService, hub *ws.Hub) *PlayHandler {
	return &PlayHandler{raceService: raceService, roomService: roomService, hub: hub}
}

type PlayJoinRequest struct {
	Code     string `json:"code" binding:"required" example:"d8f1c2aa-1b32-4f0e-9c41-2d55a1e07c19"`
	Nickname string `json:"nickname" binding:"required,min=1,max=100" example:"Alice"`
}

type PlayCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=500" example:"rise and shine, losers"`
}

// Join godoc
// @Summary      Join a race
// @Description  Create a participant in a room and issue the session token
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body PlayJoinRequest true "Join data"
// @Success      200 {object} services.JoinResult
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/join [post]
func (h *PlayHandler) Join(c *gin.Context) {
	var req PlayJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.raceService.Join(req.Code, req.Nickname)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	metrics.ParticipantsJoined.Inc()
	h.hub.BroadcastToRoom(result.Room.ID, ws.WSMessage{
		Type: "participant_joined",
		Data: result.Participant,
	})

	c.JSON(http.StatusOK, result)
}

// Me godoc
// @Summary      Get own participant record
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/me [get]
func (h *PlayHandler) Me(c *gin.Context) {
	participant, err := h.raceService.GetParticipant(c.GetUint("participant_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, participant)
}

// GetState godoc
// @Summary      Full view state for a participant
// @Description  Own record, the current winner and room counts; the client
// @Description  re-derives its whole view from this on every change event.
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/state [get]
func (h *PlayHandler) GetState(c *gin.Context) {
	participant, err := h.raceService.GetParticipant(c.GetUint("participant_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	roomID := c.GetUint("room_id")
	winner, _ := h.roomService.GetWinner(roomID)
	total, _ := h.roomService.CountParticipants(roomID)
	awake, _ := h.roomService.CountAwake(roomID)

	c.JSON(http.StatusOK, gin.H{
		"participant":       participant,
		"winner":            winner,
		"participant_count": total,
		"awake_count":       awake,
	})
}

// Wake godoc
// @Summary      Mark self awake
// @Description  Assigns the next rank in the room. Calling again once awake
// @Description  is rejected and changes nothing.
// @Tags         play
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/play/wake [post]
func (h *PlayHandler) Wake(c *gin.Context) {
	roomID := c.GetUint("room_id")
	participantID := c.GetUint("participant_id")

	participant, err := h.raceService.MarkAwake(roomID, participantID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyAwake):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrParticipantNotFound), errors.Is(err, services.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	metrics.WakeEvents.Inc()
	h.hub.BroadcastToRoom(roomID, ws.WSMessage{
		Type: "participant_woke",
		Data: participant,
	})

	c.JSON(http.StatusOK, participant)
}

// Comment godoc
// @Summary      Post the one-shot comment
// @Description  Only allowed after waking, at most once per participant
// @Tags         play
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PlayCommentRequest true "Comment text"
// @Success      200 {object} Participant
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/play/comment [post]
func (h *PlayHandler) Comment(c *gin.Context) {
	var req PlayCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	participant, err := h.raceService.SetComment(c.GetUint("participant_id"), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrStillAsleep):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrCommentAlreadySet):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	metrics.CommentsPosted.Inc()
	h.hub.BroadcastToRoom(participant.RoomID, ws.WSMessage{
		Type: "comment_posted",
		Data: participant,
	})

	c.JSON(http.StatusOK, participant)
}
