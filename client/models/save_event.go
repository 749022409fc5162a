package models

import (
	"fmt"
	"time"
)

// SaveEvent is the payload the add-event form sends to the backend
type SaveEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventType   string `json:"eventType"`
	Venue       string `json:"venue"`
	ScheduledAt string `json:"scheduledAt"`
}

// Result is what the backend answers with after a create
type Result struct {
	Item map[string]interface{} `json:"item"`
}

// FormatScheduledAt renders d as D/0M/YYYY with a zero-based month, so
// 15 March 2024 becomes "15/02/2024" and December becomes "011".
// The backend stores the string as-is; existing records depend on this shape.
func FormatScheduledAt(d time.Time) string {
	return fmt.Sprintf("%d/0%d/%d", d.Day(), int(d.Month())-1, d.Year())
}
