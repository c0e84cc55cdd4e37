package db

import "time"

type CardEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Category  string    `gorm:"size:64;not null;uniqueIndex:idx_card_entries_category_text"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_card_entries_category_text"`
	Weight    int       `gorm:"not null;default:1"`
	Detail    string    `gorm:"type:text;not null;default:''"`
	Kind      string    `gorm:"size:64;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
