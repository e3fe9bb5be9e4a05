package models

import "time"

// Participant is one competitor in a room. Rank is assigned exactly once,
// inside the wake transaction; a null rank means the participant is still
// asleep. The (room_id, rank) unique index backs up the transactional
// guarantee at the schema level.
type Participant struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	RoomID   uint       `gorm:"not null;index;uniqueIndex:idx_room_rank" json:"room_id"`
	Nickname string     `gorm:"size:100;not null" json:"nickname"`
	WokeUpAt *time.Time `json:"woke_up_at"`
	Rank     *int       `gorm:"uniqueIndex:idx_room_rank" json:"rank"`
	Comment  *string    `gorm:"size:500" json:"comment"`
	JoinedAt time.Time  `json:"joined_at"`
}
