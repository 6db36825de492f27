package models

import "time"

type Task struct {
	ID          string  `gorm:"primaryKey;size:64" json:"id"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Status      string  `gorm:"size:20" json:"status,omitempty"`
	Type        string  `gorm:"size:20" json:"type,omitempty"`
	PostedBy    string  `gorm:"size:120" json:"postedBy,omitempty"`
	XPPoints    int     `json:"xpPoints,omitempty"`
}

// Application records that a user applied for a task. A user applies to a
// task at most once.
type Application struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_user_task;size:64;not null" json:"userId"`
	TaskID    string    `gorm:"uniqueIndex:idx_user_task;size:64;not null;index" json:"taskId"`
	AppliedAt time.Time `json:"appliedAt"`
}

// AppliedTask is a task joined with the time the user applied for it.
type AppliedTask struct {
	Task
	AppliedAt time.Time `json:"appliedAt"`
}
