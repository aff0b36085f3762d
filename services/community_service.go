package services

import (
	"context"
	"fmt"
	"log"

	"trekmate_server/models"
)

// CommunityService is the session facade the community screens talk to. It
// resolves the auth identity to a profile first, then assembles everything
// keyed by profile id: permissions, level progress, the user's groups, and
// join requests awaiting the user's decision.
type CommunityService struct {
	Profiles *UserProfileService
	Groups   *TripGroupService
	Ledger   *XPLedgerService
}

// CommunityGroups bundles the three group collections the facade exposes.
type CommunityGroups struct {
	MyGroups        []models.TripGroupView   `json:"myGroups"`
	CreatedGroups   []models.TripGroupView   `json:"createdGroups"`
	PendingRequests []models.JoinRequestView `json:"pendingRequests"`
}

// GetSnapshot ensures a profile exists for the auth identity (first community
// interaction creates one) and returns the full session view. Group data is
// only populated once the profile clears the community gate.
func (cs *CommunityService) GetSnapshot(ctx context.Context, userID, displayName string) (*models.CommunitySnapshot, error) {
	profile, err := cs.Profiles.EnsureProfile(ctx, userID, displayName)
	if err != nil {
		return nil, err
	}

	snapshot := &models.CommunitySnapshot{
		Profile:         profile,
		Permissions:     models.PermissionsFor(profile.Level),
		ProgressPercent: models.ProgressPercent(profile.XPPoints, profile.Level),
		MyGroups:        []models.TripGroupView{},
		CreatedGroups:   []models.TripGroupView{},
		PendingRequests: []models.JoinRequestView{},
	}
	if next, ok := models.NextLevel(profile.Level); ok {
		snapshot.NextLevel = &next
	}

	if !snapshot.Permissions.CanAccessCommunity {
		return snapshot, nil
	}

	groups, err := cs.RefreshGroups(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	snapshot.MyGroups = groups.MyGroups
	snapshot.CreatedGroups = groups.CreatedGroups
	snapshot.PendingRequests = groups.PendingRequests
	return snapshot, nil
}

// RefreshProfile re-fetches the profile for an auth identity. Explicit
// re-fetch only; there is no background polling.
func (cs *CommunityService) RefreshProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return cs.Profiles.GetUserProfileByUserID(ctx, userID)
}

// RefreshGroups re-fetches the three group collections for a profile: groups
// the profile belongs to, groups it created, and pending join requests on the
// created groups (empty unless the profile has created groups).
func (cs *CommunityService) RefreshGroups(ctx context.Context, profileID string) (*CommunityGroups, error) {
	result := &CommunityGroups{
		MyGroups:        []models.TripGroupView{},
		CreatedGroups:   []models.TripGroupView{},
		PendingRequests: []models.JoinRequestView{},
	}

	memberships, err := cs.Groups.ListMembershipsByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for _, membership := range memberships {
		if membership.Status != models.MembershipStatusApproved {
			continue
		}
		view, err := cs.buildGroupView(ctx, membership.GroupID)
		if err != nil {
			// A membership pointing at a vanished group is a data problem,
			// not a reason to blank the whole screen.
			log.Printf("skipping group %s for profile %s: %v", membership.GroupID, profileID, err)
			continue
		}
		result.MyGroups = append(result.MyGroups, *view)
	}

	createdGroups, err := cs.Groups.ListGroupsByCreator(ctx, profileID)
	if err != nil {
		return nil, err
	}
	for _, group := range createdGroups {
		view, err := cs.buildGroupViewFrom(ctx, group)
		if err != nil {
			return nil, err
		}
		result.CreatedGroups = append(result.CreatedGroups, *view)

		pending, err := cs.pendingRequestsFor(ctx, group)
		if err != nil {
			return nil, err
		}
		result.PendingRequests = append(result.PendingRequests, pending...)
	}

	return result, nil
}

// AwardXP is the facade's pass-through to the ledger; callers adopt the
// returned profile as their new local snapshot. Unknown actions from the wire
// are refused before they reach the reward table.
func (cs *CommunityService) AwardXP(ctx context.Context, profileID string, action models.XPAction, referenceID, referenceType string) (*models.UserProfile, *models.XPTransaction, error) {
	if !models.KnownXPAction(action) {
		return nil, nil, Refuse(RefusalInvalidAction, "unknown XP action %q", action)
	}
	return cs.Ledger.AwardXP(ctx, profileID, action, referenceID, referenceType)
}

func (cs *CommunityService) buildGroupView(ctx context.Context, groupID string) (*models.TripGroupView, error) {
	group, err := cs.Groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return cs.buildGroupViewFrom(ctx, *group)
}

// buildGroupViewFrom joins a group with its creator and approved member
// profiles via explicit id-keyed lookups.
func (cs *CommunityService) buildGroupViewFrom(ctx context.Context, group models.TripGroup) (*models.TripGroupView, error) {
	view := &models.TripGroupView{TripGroup: group}

	if creator, err := cs.Profiles.GetUserProfile(ctx, group.CreatorID); err == nil {
		details := memberDetails(creator)
		view.Creator = &details
	}

	memberships, err := cs.Groups.ListGroupMemberships(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	for _, membership := range memberships {
		if membership.Status != models.MembershipStatusApproved {
			continue
		}
		profile, err := cs.Profiles.GetUserProfile(ctx, membership.UserProfileID)
		if err != nil {
			return nil, fmt.Errorf("failed to load member profile %s: %w", membership.UserProfileID, err)
		}
		view.Members = append(view.Members, memberDetails(profile))
	}
	return view, nil
}

func (cs *CommunityService) pendingRequestsFor(ctx context.Context, group models.TripGroup) ([]models.JoinRequestView, error) {
	memberships, err := cs.Groups.ListGroupMemberships(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	var requests []models.JoinRequestView
	for _, membership := range memberships {
		if membership.Status != models.MembershipStatusPending {
			continue
		}
		request := models.JoinRequestView{
			Membership: membership,
			GroupTitle: group.Title,
		}
		if requester, err := cs.Profiles.GetUserProfile(ctx, membership.UserProfileID); err == nil {
			details := memberDetails(requester)
			request.Requester = &details
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func memberDetails(profile *models.UserProfile) models.MemberDetails {
	return models.MemberDetails{
		ProfileID:   profile.ID,
		DisplayName: profile.DisplayName,
		Level:       profile.Level,
		IsVerified:  profile.IsVerified,
		PhotoKey:    profile.PhotoKey,
	}
}
