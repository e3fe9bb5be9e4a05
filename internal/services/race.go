package services

import (
	"errors"
	"time"

	"github.com/karaagenomuranaoya/early-rising-race/internal/models"

	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyAwake        = errors.New("participant already woke up")
	ErrStillAsleep         = errors.New("participant has not woken up yet")
	ErrCommentAlreadySet   = errors.New("comment already sent")
)

type RaceService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewRaceService(db *gorm.DB, tokens *TokenService) *RaceService {
	return &RaceService{db: db, tokens: tokens}
}

type JoinResult struct {
	Room        models.Room        `json:"room"`
	Participant models.Participant `json:"participant"`
	Token       string             `json:"token"`
}

// Join creates a participant in the room identified by code and issues the
// session credential. Duplicate nicknames are allowed.
func (s *RaceService) Join(code, nickname string) (*JoinResult, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}

	participant := models.Participant{
		RoomID:   room.ID,
		Nickname: nickname,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(participant.ID, room.ID)
	if err != nil {
		return nil, err
	}

	return &JoinResult{Room: room, Participant: participant, Token: token}, nil
}

func (s *RaceService) GetParticipant(participantID uint) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, participantID).Error; err != nil {
		return nil, ErrParticipantNotFound
	}
	return &p, nil
}

// MarkAwake records the wake event for a participant and assigns the next
// rank in the room, as a single transaction. Rank assignment serializes on
// the room row: bumping next_rank takes the row lock, so concurrent wakers
// in the same room queue up and each reads a distinct counter value. The
// participant update is guarded by woke_up_at IS NULL; losing that race
// rolls the whole transaction back, restoring the counter, so assigned
// ranks stay dense with no duplicates and no gaps.
func (s *RaceService) MarkAwake(roomID, participantID uint) (*models.Participant, error) {
	var out models.Participant
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var p models.Participant
		if err := tx.Where("id = ? AND room_id = ?", participantID, roomID).
			First(&p).Error; err != nil {
			return ErrParticipantNotFound
		}
		if p.WokeUpAt != nil {
			return ErrAlreadyAwake
		}

		res := tx.Model(&models.Room{}).Where("id = ?", roomID).
			UpdateColumn("next_rank", gorm.Expr("next_rank + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}

		var room models.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return err
		}
		rank := int(room.NextRank)

		// Timestamp taken after the counter bump, i.e. while holding the
		// room row lock, so wake times order consistently with ranks.
		wokeAt := time.Now().UTC()

		res = tx.Model(&models.Participant{}).
			Where("id = ? AND woke_up_at IS NULL", participantID).
			Updates(map[string]interface{}{"woke_up_at": wokeAt, "rank": rank})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAwake
		}

		if rank == 1 && room.Status == models.RoomStatusWaiting {
			if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
				Update("status", models.RoomStatusActive).Error; err != nil {
				return err
			}
		}

		p.WokeUpAt = &wokeAt
		p.Rank = &rank
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetComment stores a participant's one-shot message. The original client
// only enforced "after waking, at most once" in UI state; here it is
// enforced at the data layer as well.
func (s *RaceService) SetComment(participantID uint, text string) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, participantID).Error; err != nil {
		return nil, ErrParticipantNotFound
	}
	if p.WokeUpAt == nil {
		return nil, ErrStillAsleep
	}
	if p.Comment != nil {
		return nil, ErrCommentAlreadySet
	}

	res := s.db.Model(&models.Participant{}).
		Where("id = ? AND woke_up_at IS NOT NULL AND comment IS NULL", participantID).
		Update("comment", text)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrCommentAlreadySet
	}

	p.Comment = &text
	return &p, nil
}
