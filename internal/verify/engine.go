package verify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

// MembershipOracle answers whether a user currently belongs to a chat.
type MembershipOracle interface {
	GetChatMember(ctx context.Context, chatID, userID int64) (models.MembershipStatus, error)
}

// InviteIssuer mints join links for a chat with a bounded acceptance limit.
type InviteIssuer interface {
	CreateChatInviteLink(ctx context.Context, chatID int64, memberLimit int) (string, error)
}

// GrantRecorder receives the audit entry for each successful verification
// and serves the single-reissue policy lookup.
type GrantRecorder interface {
	RecordGrant(ctx context.Context, user models.User, invite models.Invitation)
	LatestGrant(userID int64) (models.GrantRecord, bool)
}

// ReissuePolicy controls what a repeated successful confirmation does.
type ReissuePolicy string

const (
	// ReissueAlways mints a fresh single-use link on every confirmation.
	ReissueAlways ReissuePolicy = "always"
	// ReissueSingle re-serves the link recorded for the user's first grant
	// instead of calling the issuer again.
	ReissueSingle ReissuePolicy = "single"
)

// Valid reports whether the policy is one of the supported values.
func (p ReissuePolicy) Valid() bool {
	return p == ReissueAlways || p == ReissueSingle
}

// Engine runs the per-user verification workflow: membership check, invite
// issuance, audit. It holds no state between calls; every failure is
// resolved into an outcome value, never an error return.
type Engine struct {
	oracle      MembershipOracle
	issuer      InviteIssuer
	recorder    GrantRecorder
	entryChatID int64
	mainChatID  int64
	policy      ReissuePolicy
	timeout     time.Duration
	logger      zerolog.Logger
}

func NewEngine(oracle MembershipOracle, issuer InviteIssuer, recorder GrantRecorder, entryChatID, mainChatID int64, policy ReissuePolicy, timeout time.Duration, logger zerolog.Logger) *Engine {
	if !policy.Valid() {
		policy = ReissueAlways
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		oracle:      oracle,
		issuer:      issuer,
		recorder:    recorder,
		entryChatID: entryChatID,
		mainChatID:  mainChatID,
		policy:      policy,
		timeout:     timeout,
		logger:      logger.With().Str("component", "verify_engine").Logger(),
	}
}

// Verify checks the user's entry-channel membership and, when eligible,
// issues a single-use invitation to the main channel. An invitation is only
// created after an eligible membership check in the same attempt; a lookup
// failure never reaches the issuer, and an issuance failure never produces
// an audit record.
func (e *Engine) Verify(ctx context.Context, user models.User) models.VerificationOutcome {
	lookupCtx, cancel := context.WithTimeout(ctx, e.timeout)
	status, err := e.oracle.GetChatMember(lookupCtx, e.entryChatID, user.ID)
	cancel()
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", user.ID).Msg("membership lookup failed")
		return models.Failed(models.ErrorLookup)
	}

	if !status.Eligible() {
		e.logger.Info().Int64("user_id", user.ID).Str("status", string(status)).Msg("verification denied")
		return models.Denied(models.DenialNotAMember)
	}

	if e.policy == ReissueSingle {
		if rec, ok := e.recorder.LatestGrant(user.ID); ok {
			e.logger.Info().Int64("user_id", user.ID).Msg("re-serving previously granted invitation")
			return models.Granted(models.Invitation{
				ID:          rec.ID,
				ChatID:      e.mainChatID,
				MemberLimit: 1,
				Link:        rec.InviteLink,
				CreatedAt:   rec.GrantedAt,
			})
		}
	}

	issueCtx, cancel := context.WithTimeout(ctx, e.timeout)
	link, err := e.issuer.CreateChatInviteLink(issueCtx, e.mainChatID, 1)
	cancel()
	if err != nil {
		e.logger.Error().Err(err).Int64("user_id", user.ID).Msg("invite link creation failed")
		return models.Failed(models.ErrorIssuance)
	}

	invite := models.Invitation{
		ID:          uuid.NewString(),
		ChatID:      e.mainChatID,
		MemberLimit: 1,
		Link:        link,
		CreatedAt:   time.Now().UTC(),
	}

	e.recorder.RecordGrant(ctx, user, invite)
	e.logger.Info().Int64("user_id", user.ID).Str("invite_id", invite.ID).Msg("verification granted")

	return models.Granted(invite)
}
