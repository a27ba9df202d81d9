package models

import "time"

// Notification types for social actions. Comments do not notify.
const (
	NotificationTypeFollow = "follow"
	NotificationTypeLike   = "like"
)

// Notification represents a directed social event (PostgreSQL). FromID and
// ToID hold MongoDB user ObjectIDs as hex strings, same convention the
// relational side uses everywhere it references a document.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"size:20;index"`
	FromID    string    `json:"from" gorm:"size:24;index"`
	ToID      string    `json:"to" gorm:"size:24;index"`
	IsRead    bool      `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// EnrichedNotification includes the actor's identity.
type EnrichedNotification struct {
	Notification
	From UserSummary `json:"fromUser"`
}
