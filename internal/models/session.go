package models

import "time"

// Session associates an opaque session token with exactly one username.
// A client without a Session is anonymous.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
