package model

import "time"

// Activity levels
const (
	ActivityLevelInfo    = "info"
	ActivityLevelWarning = "warning"
	ActivityLevelError   = "error"
)

// Activity categories
const (
	CategoryAuth    = "auth"
	CategoryUser    = "user"
	CategoryContent = "content"
	CategoryMedia   = "media"
	CategoryInbox   = "inbox"
	CategoryConfig  = "config"
	CategorySystem  = "system"
)

// Activity is an entry in the admin activity log.
type Activity struct {
	ID        int64     `db:"id"`
	Level     string    `db:"level"`
	Category  string    `db:"category"`
	Message   string    `db:"message"`
	Path      string    `db:"path"`
	Metadata  string    `db:"metadata"` // JSON object
	CreatedAt time.Time `db:"created_at"`
}
