package models

// OutcomeKind tags the result of a verification attempt.
type OutcomeKind string

const (
	OutcomeDenied  OutcomeKind = "denied"
	OutcomeGranted OutcomeKind = "granted"
	OutcomeFailed  OutcomeKind = "failed"
)

// ErrorKind classifies a failed verification attempt.
type ErrorKind string

const (
	// ErrorLookup means the membership check could not be completed.
	ErrorLookup ErrorKind = "lookup_error"
	// ErrorIssuance means the invite link could not be minted.
	ErrorIssuance ErrorKind = "issuance_error"
)

// DenialReason explains a negative (non-error) verification result.
type DenialReason string

const DenialNotAMember DenialReason = "not_a_member"

// VerificationOutcome is the single value every verification attempt
// resolves to. Exactly one of Reason, Err, or Invite is meaningful,
// selected by Kind.
type VerificationOutcome struct {
	Kind   OutcomeKind
	Reason DenialReason
	Err    ErrorKind
	Invite *Invitation
}

// Denied builds an outcome for an ineligible user.
func Denied(reason DenialReason) VerificationOutcome {
	return VerificationOutcome{Kind: OutcomeDenied, Reason: reason}
}

// Granted builds an outcome carrying the issued invitation.
func Granted(invite Invitation) VerificationOutcome {
	return VerificationOutcome{Kind: OutcomeGranted, Invite: &invite}
}

// Failed builds an outcome for an attempt that could not be completed.
func Failed(kind ErrorKind) VerificationOutcome {
	return VerificationOutcome{Kind: OutcomeFailed, Err: kind}
}
