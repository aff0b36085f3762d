package models

import "time"

// TripGroup is a capacity-bounded, date-anchored gathering of members planning
// the same trek. CurrentMembers always equals the count of approved
// memberships and never exceeds MaxMembers.
type TripGroup struct {
	ID            string    `dynamodbav:"groupId" json:"groupId"` // Partition Key
	CreatorID     string    `dynamodbav:"creatorId" json:"creatorId"`
	TrekSlug      string    `dynamodbav:"trekSlug" json:"trekSlug"`
	TrekTitle     string    `dynamodbav:"trekTitle" json:"trekTitle"`
	Title         string    `dynamodbav:"title" json:"title"`
	Description   string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	PlannedDate   string    `dynamodbav:"plannedDate" json:"plannedDate"` // RFC 3339 date
	FlexibleDates bool      `dynamodbav:"flexibleDates" json:"flexibleDates"`
	MaxMembers    int       `dynamodbav:"maxMembers" json:"maxMembers"`
	CurrentMembers int      `dynamodbav:"currentMembers" json:"currentMembers"`
	IsPublic      bool      `dynamodbav:"isPublic" json:"isPublic"`
	InviteCode    string    `dynamodbav:"inviteCode,omitempty" json:"inviteCode,omitempty"` // present iff private
	PhotoKey      string    `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	Status        string    `dynamodbav:"status" json:"status"` // open | full | in_progress | completed | cancelled
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// GroupMembership ties a profile to a group with a role and approval status.
// At most one active (pending or approved) membership may exist per
// (group, profile) pair.
type GroupMembership struct {
	ID            string     `dynamodbav:"membershipId" json:"membershipId"` // Partition Key
	GroupID       string     `dynamodbav:"groupId" json:"groupId"`
	UserProfileID string     `dynamodbav:"userProfileId" json:"userProfileId"`
	Role          string     `dynamodbav:"role" json:"role"`     // creator | co_leader | member
	Status        string     `dynamodbav:"status" json:"status"` // pending | approved | rejected | left
	JoinedAt      *time.Time `dynamodbav:"joinedAt,omitempty" json:"joinedAt,omitempty"` // set only on approval
	CreatedAt     time.Time  `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the membership still occupies the (group, profile)
// slot: pending and approved block a fresh join request, rejected and left do not.
func (m GroupMembership) IsActive() bool {
	return m.Status == MembershipStatusPending || m.Status == MembershipStatusApproved
}

// TripGroupsTable is the DynamoDB table name for trip groups
const TripGroupsTable = "TripGroups"

// GroupMembershipsTable is the DynamoDB table name for group memberships
const GroupMembershipsTable = "GroupMemberships"

// GSI Index Names
const CreatorIndex = "creatorId-index"          // groups by creator
const InviteCodeIndex = "inviteCode-index"      // private group lookup / uniqueness probe
const GroupIndex = "groupId-index"              // memberships by group
const MemberProfileIndex = "userProfileId-index" // memberships by profile
