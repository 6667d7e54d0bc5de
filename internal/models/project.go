package models

import (
	"time"
)

// Project is owned by the user who created it. Title and due date are fixed
// at creation; progress is derived from Tasks and never stored.
type Project struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null" json:"owner_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	DueDate   time.Time `gorm:"type:date;not null" json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}
