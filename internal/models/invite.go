package models

import "time"

// Invitation is a single-use join credential for the restricted channel.
// It is created once per successful verification and never mutated.
type Invitation struct {
	ID          string    `json:"id"`
	ChatID      int64     `json:"chat_id"`
	MemberLimit int       `json:"member_limit"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
}
