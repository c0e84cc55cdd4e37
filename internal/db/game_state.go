package db

import (
	"time"

	"gorm.io/datatypes"
)

// GameState holds the latest JSON snapshot of one chat's game.
type GameState struct {
	ChatID           int64          `gorm:"primaryKey;autoIncrement:false"`
	Phase            string         `gorm:"size:32;not null"`
	CurrentCardPhase int            `gorm:"not null;default:1"`
	State            datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
}
