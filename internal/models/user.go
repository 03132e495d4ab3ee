package models

import "fmt"

// User identifies the Telegram account a verification run is acting for.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Mention renders the handle used in audit lines and log fields.
func (u User) Mention() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("(no username, id %d)", u.ID)
}
