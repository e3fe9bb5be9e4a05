package services

import (
	"errors"
	"time"

	"github.com/karaagenomuranaoya/early-rising-race/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomService struct {
	db *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{db: db}
}

func (s *RoomService) CreateRoom() (*models.Room, error) {
	room := models.Room{
		Code:   uuid.NewString(),
		Status: models.RoomStatusWaiting,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) GetRoomByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

// GetWinner returns the rank-1 participant of a room, or nil if nobody
// has woken up yet.
func (s *RoomService) GetWinner(roomID uint) (*models.Participant, error) {
	var winner models.Participant
	if err := s.db.Where("room_id = ? AND rank = 1", roomID).
		First(&winner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &winner, nil
}

func (s *RoomService) ListParticipants(roomID uint) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *RoomService) CountParticipants(roomID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Participant{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

func (s *RoomService) CountAwake(roomID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Participant{}).
		Where("room_id = ? AND rank IS NOT NULL", roomID).
		Count(&count).Error
	return count, err
}

// GetLeaderboard lists the participants who already woke up, best rank
// first. Sleepers are not included.
func (s *RoomService) GetLeaderboard(roomID uint) ([]LeaderboardEntry, error) {
	var participants []models.Participant
	if err := s.db.Where("room_id = ? AND rank IS NOT NULL", roomID).
		Order("rank ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(participants))
	for i, p := range participants {
		entries[i] = LeaderboardEntry{
			Rank:          *p.Rank,
			ParticipantID: p.ID,
			Nickname:      p.Nickname,
			WokeUpAt:      p.WokeUpAt,
			Comment:       p.Comment,
		}
	}
	return entries, nil
}

type LeaderboardEntry struct {
	Rank          int        `json:"rank"`
	ParticipantID uint       `json:"participant_id"`
	Nickname      string     `json:"nickname"`
	WokeUpAt      *time.Time `json:"woke_up_at"`
	Comment       *string    `json:"comment,omitempty"`
}
