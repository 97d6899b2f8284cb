package models

import "time"

// Session represents a 1-on-1 chat session between two paired users.
// Message content is never stored; the row only records that the pair
// existed, for the stats and moderation surfaces.
type Session struct {
	// SessionID is the unique identifier for the session (UUID).
	SessionID string `gorm:"primaryKey"`
	// User1ID is the Telegram chat ID of the user who initiated the search.
	User1ID int64
	// User2ID is the Telegram chat ID of the matched partner.
	User2ID int64
	// IsActive indicates whether the session is currently running.
	IsActive bool
	// StartedAt is the timestamp when the pair was formed.
	StartedAt time.Time
	// EndedAt is the timestamp when the session was closed.
	EndedAt time.Time
}
