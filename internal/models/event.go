package models

// EventKind enumerates the inbound interactions the dispatcher routes.
type EventKind string

const (
	EventBegin   EventKind = "begin"
	EventConfirm EventKind = "confirm"
)

// Event is one inbound interaction taken off the webhook. ChatID is the
// private chat with the user; MessageID points at the message carrying the
// confirm keyboard so the outcome can be rendered in place.
type Event struct {
	Kind            EventKind
	User            User
	ChatID          int64
	MessageID       int
	CallbackQueryID string
}
