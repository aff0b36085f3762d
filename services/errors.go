package services

import (
	"errors"
	"fmt"
)

// Two error kinds cross the service boundary. A Refusal is an expected
// negative outcome of a business-rule precondition (insufficient level, group
// full, wrong role) and maps to a 4xx for user-facing messaging. Everything
// else is a fault: persistence unavailable, referenced entity missing when it
// was assumed present, write partially applied. Faults are logged and surfaced
// generically without leaking storage detail.

// ErrNotFound marks a keyed read whose row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConditionFailed marks a conditional write lost to a concurrent update.
// Services either retry their compare-and-set loop or translate it into a
// Refusal; it never escapes to controllers.
var ErrConditionFailed = errors.New("conditional write failed")

// Refusal codes
const (
	RefusalLevelTooLow          = "level_too_low"
	RefusalCommunityLocked      = "community_locked"
	RefusalGroupNotOpen         = "group_not_open"
	RefusalGroupFull            = "group_full"
	RefusalDuplicateMembership  = "duplicate_membership"
	RefusalNotGroupCreator      = "not_group_creator"
	RefusalCreatorCannotLeave   = "creator_cannot_leave"
	RefusalMembershipNotPending = "membership_not_pending"
	RefusalNotApprovedMember    = "membership_not_approved"
	RefusalInvalidStatus        = "invalid_status"
	RefusalInvalidAction        = "invalid_action"
	RefusalImmutableField       = "immutable_field"
)

// Refusal is a typed expected-negative outcome, distinct from a fault.
type Refusal struct {
	Code    string
	Message string
}

func (r *Refusal) Error() string {
	return fmt.Sprintf("refused (%s): %s", r.Code, r.Message)
}

// Refuse builds a Refusal error.
func Refuse(code, format string, args ...interface{}) error {
	return &Refusal{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsRefusal unwraps err into a Refusal, if it is one.
func AsRefusal(err error) (*Refusal, bool) {
	var r *Refusal
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

func isConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}
