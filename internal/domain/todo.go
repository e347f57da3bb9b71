package domain

import "time"

// Todo is the single managed resource. Columns are declared explicitly
// instead of embedding gorm.Model: deletion is permanent, so there is no
// DeletedAt, and the description column needs a default.
type Todo struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null;default:''"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// SeedTodos returns the fixed sample set inserted when the store is empty
// and restored by a reset. A fresh slice every call, so callers can hand it
// straight to GORM without sharing state.
func SeedTodos() []Todo {
	return []Todo{
		{Title: "Learn Go", Description: "Build a REST API with chi and GORM"},
		{Title: "Do the groceries", Description: "Buy vegetables and fruit"},
		{Title: "Run on Monday", Description: "Go for a 5km run"},
	}
}
