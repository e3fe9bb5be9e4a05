package middleware

import (
	"net/http"
	"strings"

	"github.com/karaagenomuranaoya/early-rising-race/internal/services"

	"github.com/gin-gonic/gin"
)

// ParticipantAuth resolves the participant session credential issued at
// join time and stores participant_id / room_id on the context.
func ParticipantAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		participantID, roomID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("participant_id", participantID)
		c.Set("room_id", roomID)
		c.Next()
	}
}
