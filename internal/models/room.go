package models

import "time"

type Room struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Code         string        `gorm:"size:36;uniqueIndex" json:"code"`
	Status       string        `gorm:"size:20;not null;default:'waiting'" json:"status"`
	NextRank     uint          `gorm:"not null;default:0" json:"-"`
	Participants []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

const (
	RoomStatusWaiting  = "waiting"
	RoomStatusActive   = "active"
	RoomStatusFinished = "finished"
)
