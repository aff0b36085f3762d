package models

// Group statuses
const (
	GroupStatusOpen       = "open"
	GroupStatusFull       = "full"
	GroupStatusInProgress = "in_progress"
	GroupStatusCompleted  = "completed"
	GroupStatusCancelled  = "cancelled"
)

// Membership statuses
const (
	MembershipStatusPending  = "pending"
	MembershipStatusApproved = "approved"
	MembershipStatusRejected = "rejected"
	MembershipStatusLeft     = "left"
)

// Membership roles
const (
	RoleCreator  = "creator"
	RoleCoLeader = "co_leader"
	RoleMember   = "member"
)

// Verification methods
const (
	VerificationMethodBooking = "booking"
	VerificationMethodID      = "id"
	VerificationMethodPhone   = "phone"
)

// IsTerminalGroupStatus reports whether a group in status s can never transition again.
func IsTerminalGroupStatus(s string) bool {
	return s == GroupStatusCompleted || s == GroupStatusCancelled
}

// ValidGroupStatus reports whether s is a known group status.
func ValidGroupStatus(s string) bool {
	switch s {
	case GroupStatusOpen, GroupStatusFull, GroupStatusInProgress, GroupStatusCompleted, GroupStatusCancelled:
		return true
	}
	return false
}

// ValidVerificationMethod reports whether m is a known verification method.
func ValidVerificationMethod(m string) bool {
	switch m {
	case VerificationMethodBooking, VerificationMethodID, VerificationMethodPhone:
		return true
	}
	return false
}
