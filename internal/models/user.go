package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Projects []Project `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}
