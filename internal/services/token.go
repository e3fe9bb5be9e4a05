package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues the durable session credential a participant receives
// at join time. Possession of a valid token is the only authentication in
// the game; the client stores it per room and presents it on every action.
type TokenService struct {
	jwtSecret []byte
}

func NewTokenService(jwtSecret string) *TokenService {
	return &TokenService{jwtSecret: []byte(jwtSecret)}
}

func (s *TokenService) GenerateToken(participantID, roomID uint) (string, error) {
	claims := jwt.MapClaims{
		"participant_id": participantID,
		"room_id":        roomID,
		"exp":            time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *TokenService) ValidateToken(tokenString string) (participantID, roomID uint, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, errors.New("invalid claims")
	}

	pidFloat, ok := claims["participant_id"].(float64)
	if !ok {
		return 0, 0, errors.New("invalid participant_id in token")
	}
	ridFloat, ok := claims["room_id"].(float64)
	if !ok {
		return 0, 0, errors.New("invalid room_id in token")
	}

	return uint(pidFloat), uint(ridFloat), nil
}
