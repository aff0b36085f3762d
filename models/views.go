package models

// Read-side projections assembled at query time by joining the owned entities.
// These are never persisted.

// MemberDetails carries the display fields of a member's profile.
type MemberDetails struct {
	ProfileID   string `json:"profileId"`
	DisplayName string `json:"displayName"`
	Level       Level  `json:"level"`
	IsVerified  bool   `json:"isVerified"`
	PhotoKey    string `json:"photoKey,omitempty"`
}

// TripGroupView is a group joined with its creator and approved members.
type TripGroupView struct {
	TripGroup
	Creator *MemberDetails  `json:"creator,omitempty"`
	Members []MemberDetails `json:"members,omitempty"`
}

// JoinRequestView is a pending membership joined with its requester's profile
// and the group it targets, shaped for the creator's approval screen.
type JoinRequestView struct {
	Membership GroupMembership `json:"membership"`
	Requester  *MemberDetails  `json:"requester,omitempty"`
	GroupTitle string          `json:"groupTitle"`
}

// Permissions holds the level-derived capability booleans for a profile.
type Permissions struct {
	CanAccessCommunity     bool `json:"canAccessCommunity"`
	CanJoinGroups          bool `json:"canJoinGroups"`
	CanCreateGroups        bool `json:"canCreateGroups"`
	CanCreatePrivateGroups bool `json:"canCreatePrivateGroups"`
}

// CommunitySnapshot aggregates everything the community screens need for one
// signed-in user: profile, derived permissions, level progress, the user's
// groups, and requests awaiting the user's decision.
type CommunitySnapshot struct {
	Profile         *UserProfile      `json:"profile"`
	Permissions     Permissions       `json:"permissions"`
	ProgressPercent int               `json:"progressPercent"`
	NextLevel       *Level            `json:"nextLevel,omitempty"`
	MyGroups        []TripGroupView   `json:"myGroups"`
	CreatedGroups   []TripGroupView   `json:"createdGroups"`
	PendingRequests []JoinRequestView `json:"pendingRequests"`
}

// PermissionsFor derives the capability booleans from a tier.
func PermissionsFor(level Level) Permissions {
	return Permissions{
		CanAccessCommunity:     CanAccessCommunity(level),
		CanJoinGroups:          CanJoinGroups(level),
		CanCreateGroups:        CanCreateGroups(level),
		CanCreatePrivateGroups: CanCreatePrivateGroups(level),
	}
}
