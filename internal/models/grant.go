package models

import "time"

// GrantRecord is the audit entry written for every successful verification.
// Records are append-only; the verification path never reads them back
// except for the single-reissue policy check.
type GrantRecord struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	InviteLink string    `json:"invite_link"`
	GrantedAt  time.Time `json:"granted_at"`
}
