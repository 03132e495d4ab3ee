package models

// MembershipStatus is the chat membership state reported by the Bot API.
// It is derived fresh on every verification attempt and never cached.
type MembershipStatus string

const (
	StatusMember        MembershipStatus = "member"
	StatusAdministrator MembershipStatus = "administrator"
	StatusCreator       MembershipStatus = "creator"
	StatusRestricted    MembershipStatus = "restricted"
	StatusLeft          MembershipStatus = "left"
	StatusKicked        MembershipStatus = "kicked"
	StatusUnknown       MembershipStatus = "unknown"
)

// Eligible reports whether the status qualifies for an invitation to the
// restricted channel.
func (s MembershipStatus) Eligible() bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusCreator:
		return true
	default:
		return false
	}
}
