package models

import (
	"time"
)

type Task struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null" json:"project_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool      `gorm:"not null" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
