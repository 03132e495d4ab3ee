package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/linkmaxxer/gatekeeper/internal/models"
)

const (
	testEntryChatID = int64(-1002563211320)
	testMainChatID  = int64(-1002265900301)
)

type fakeOracle struct {
	status models.MembershipStatus
	err    error
	block  bool
	calls  int
}

func (f *fakeOracle) GetChatMember(ctx context.Context, chatID, userID int64) (models.MembershipStatus, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return models.StatusUnknown, ctx.Err()
	}
	if f.err != nil {
		return models.StatusUnknown, f.err
	}
	return f.status, nil
}

type fakeIssuer struct {
	err   error
	calls int
}

func (f *fakeIssuer) CreateChatInviteLink(ctx context.Context, chatID int64, memberLimit int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://t.me/+invite%d", f.calls), nil
}

type fakeRecorder struct {
	records []models.GrantRecord
}

func (f *fakeRecorder) RecordGrant(ctx context.Context, user models.User, invite models.Invitation) {
	f.records = append(f.records, models.GrantRecord{
		ID:         invite.ID,
		UserID:     user.ID,
		Username:   user.Username,
		InviteLink: invite.Link,
		GrantedAt:  invite.CreatedAt,
	})
}

func (f *fakeRecorder) LatestGrant(userID int64) (models.GrantRecord, bool) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].UserID == userID {
			return f.records[i], true
		}
	}
	return models.GrantRecord{}, false
}

type EngineSuite struct {
	suite.Suite
	oracle   *fakeOracle
	issuer   *fakeIssuer
	recorder *fakeRecorder
	ctx      context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.oracle = &fakeOracle{status: models.StatusMember}
	s.issuer = &fakeIssuer{}
	s.recorder = &fakeRecorder{}
	s.ctx = context.Background()
}

func (s *EngineSuite) newEngine(policy ReissuePolicy) *Engine {
	return NewEngine(s.oracle, s.issuer, s.recorder, testEntryChatID, testMainChatID, policy, 100*time.Millisecond, zerolog.Nop())
}

func (s *EngineSuite) user() models.User {
	return models.User{ID: 42, Username: "alice"}
}

func (s *EngineSuite) TestEligibleStatusesAreGranted() {
	for _, status := range []models.MembershipStatus{models.StatusMember, models.StatusAdministrator, models.StatusCreator} {
		s.Run(string(status), func() {
			s.SetupTest()
			s.oracle.status = status

			outcome := s.newEngine(ReissueAlways).Verify(s.ctx, s.user())

			s.Require().Equal(models.OutcomeGranted, outcome.Kind)
			s.Require().NotNil(outcome.Invite)
			s.Equal(1, outcome.Invite.MemberLimit)
			s.Equal(testMainChatID, outcome.Invite.ChatID)
			s.NotEmpty(outcome.Invite.Link)
			s.Len(s.recorder.records, 1, "exactly one audit record per grant")
		})
	}
}

func (s *EngineSuite) TestIneligibleStatusesAreDenied() {
	for _, status := range []models.MembershipStatus{models.StatusLeft, models.StatusKicked, models.StatusRestricted, models.StatusUnknown} {
		s.Run(string(status), func() {
			s.SetupTest()
			s.oracle.status = status

			outcome := s.newEngine(ReissueAlways).Verify(s.ctx, s.user())

			s.Equal(models.OutcomeDenied, outcome.Kind)
			s.Equal(models.DenialNotAMember, outcome.Reason)
			s.Zero(s.issuer.calls, "issuer must not be called for ineligible users")
			s.Empty(s.recorder.records)
		})
	}
}

func (s *EngineSuite) TestLookupFailure() {
	s.oracle.err = errors.New("bot was kicked from the channel")

	outcome := s.newEngine(ReissueAlways).Verify(s.ctx, s.user())

	s.Equal(models.OutcomeFailed, outcome.Kind)
	s.Equal(models.ErrorLookup, outcome.Err)
	s.Zero(s.issuer.calls, "issuer must not be called after a lookup failure")
	s.Empty(s.recorder.records)
}

func (s *EngineSuite) TestLookupTimeout() {
	s.oracle.block = true

	outcome := s.newEngine(ReissueAlways).Verify(s.ctx, s.user())

	s.Equal(models.OutcomeFailed, outcome.Kind)
	s.Equal(models.ErrorLookup, outcome.Err)
	s.Zero(s.issuer.calls)
}

func (s *EngineSuite) TestIssuanceFailure() {
	s.issuer.err = errors.New("not enough rights to manage invite links")

	outcome := s.newEngine(ReissueAlways).Verify(s.ctx, s.user())

	s.Equal(models.OutcomeFailed, outcome.Kind)
	s.Equal(models.ErrorIssuance, outcome.Err)
	s.Empty(s.recorder.records, "no audit record without a grant")
}

func (s *EngineSuite) TestReissueAlwaysMintsFreshLinks() {
	engine := s.newEngine(ReissueAlways)

	first := engine.Verify(s.ctx, s.user())
	second := engine.Verify(s.ctx, s.user())

	s.Require().Equal(models.OutcomeGranted, first.Kind)
	s.Require().Equal(models.OutcomeGranted, second.Kind)
	s.Equal(2, s.issuer.calls)
	s.NotEqual(first.Invite.Link, second.Invite.Link)
	s.Len(s.recorder.records, 2)
}

func (s *EngineSuite) TestReissueSingleReservesRecordedLink() {
	engine := s.newEngine(ReissueSingle)

	first := engine.Verify(s.ctx, s.user())
	second := engine.Verify(s.ctx, s.user())

	s.Require().Equal(models.OutcomeGranted, first.Kind)
	s.Require().Equal(models.OutcomeGranted, second.Kind)
	s.Equal(1, s.issuer.calls, "single policy must not call the issuer twice for one user")
	s.Equal(first.Invite.Link, second.Invite.Link)
	s.Len(s.recorder.records, 1)
}

func (s *EngineSuite) TestReissueSingleStillChecksMembership() {
	engine := s.newEngine(ReissueSingle)

	s.Require().Equal(models.OutcomeGranted, engine.Verify(s.ctx, s.user()).Kind)

	// The user left the entry channel after the first grant.
	s.oracle.status = models.StatusLeft
	outcome := engine.Verify(s.ctx, s.user())

	s.Equal(models.OutcomeDenied, outcome.Kind)
	s.Equal(2, s.oracle.calls, "membership is re-checked on every attempt")
}

func (s *EngineSuite) TestVerifyIsIndependentPerUser() {
	engine := s.newEngine(ReissueSingle)

	s.Require().Equal(models.OutcomeGranted, engine.Verify(s.ctx, models.User{ID: 1}).Kind)
	s.Require().Equal(models.OutcomeGranted, engine.Verify(s.ctx, models.User{ID: 2}).Kind)

	s.Equal(2, s.issuer.calls, "grants for one user must not suppress another's")
}
