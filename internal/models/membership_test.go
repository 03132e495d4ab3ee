package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		status   MembershipStatus
		eligible bool
	}{
		{StatusMember, true},
		{StatusAdministrator, true},
		{StatusCreator, true},
		{StatusRestricted, false},
		{StatusLeft, false},
		{StatusKicked, false},
		{StatusUnknown, false},
		{MembershipStatus("banned"), false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.eligible, tc.status.Eligible(), "status %q", tc.status)
	}
}

func TestMention(t *testing.T) {
	require.Equal(t, "@alice", User{ID: 1, Username: "alice"}.Mention())
	require.Equal(t, "(no username, id 99)", User{ID: 99}.Mention())
}
