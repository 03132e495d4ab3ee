package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
	"github.com/linkmaxxer/gatekeeper/internal/telegram"
)

// ChannelNotifier delivers one audit line to the audit destination.
type ChannelNotifier interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
}

// Recorder captures a grant record for every successful verification: an
// append to the in-memory store plus a line on the audit channel. Channel
// delivery is at-most-attempted; a failure is logged and dropped, never
// surfaced to the verification outcome.
type Recorder struct {
	sink    ChannelNotifier
	store   *Store
	chatID  int64
	timeout time.Duration
	logger  zerolog.Logger
}

func NewRecorder(sink ChannelNotifier, store *Store, chatID int64, timeout time.Duration, logger zerolog.Logger) *Recorder {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Recorder{
		sink:    sink,
		store:   store,
		chatID:  chatID,
		timeout: timeout,
		logger:  logger.With().Str("component", "audit_recorder").Logger(),
	}
}

// RecordGrant appends the grant and announces it on the audit channel.
func (r *Recorder) RecordGrant(ctx context.Context, user models.User, invite models.Invitation) {
	r.store.Append(models.GrantRecord{
		ID:         invite.ID,
		UserID:     user.ID,
		Username:   user.Username,
		InviteLink: invite.Link,
		GrantedAt:  invite.CreatedAt,
	})

	sendCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.sink.SendMessage(sendCtx, r.chatID, "New verification: "+user.Mention(), nil); err != nil {
		r.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to deliver audit notification")
	}
}

// LatestGrant returns the most recent grant recorded for a user.
func (r *Recorder) LatestGrant(userID int64) (models.GrantRecord, bool) {
	return r.store.LatestByUser(userID)
}
