package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmate_server/models"
)

func newCommunityService(dynamo *stubDynamo, notifier Notifier) *CommunityService {
	profiles := &UserProfileService{Dynamo: dynamo}
	return &CommunityService{
		Profiles: profiles,
		Groups:   &TripGroupService{Dynamo: dynamo, Profiles: profiles, Notifier: notifier},
		Ledger:   &XPLedgerService{Dynamo: dynamo, Notifier: notifier},
	}
}

func TestGetSnapshotCreatesProfileOnFirstVisit(t *testing.T) {
	dynamo := newStubDynamo()
	svc := newCommunityService(dynamo, nil)

	snapshot, err := svc.GetSnapshot(context.Background(), "auth-fresh", "Mira")
	require.NoError(t, err)
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, "Mira", snapshot.Profile.DisplayName)
	assert.Equal(t, models.LevelNewcomer, snapshot.Profile.Level)
	assert.Equal(t, 0, snapshot.ProgressPercent)
	require.NotNil(t, snapshot.NextLevel)
	assert.Equal(t, models.LevelBronze, *snapshot.NextLevel)
}

func TestGetSnapshotBelowSilverSkipsGroups(t *testing.T) {
	dynamo := newStubDynamo()
	profile := seedProfile(t, dynamo, "bronze", 100)
	// membership exists, but the gate hides it until silver
	seedMembership(t, dynamo, models.GroupMembership{
		ID: "m1", GroupID: "g1", UserProfileID: profile.ID,
		Role: models.RoleMember, Status: models.MembershipStatusApproved,
	})

	svc := newCommunityService(dynamo, nil)
	snapshot, err := svc.GetSnapshot(context.Background(), profile.UserID, "")
	require.NoError(t, err)

	assert.False(t, snapshot.Permissions.CanAccessCommunity)
	assert.False(t, snapshot.Permissions.CanJoinGroups)
	assert.Empty(t, snapshot.MyGroups)
	assert.Empty(t, snapshot.CreatedGroups)
	assert.Empty(t, snapshot.PendingRequests)
	assert.NotNil(t, snapshot.MyGroups, "collections serialize as [] rather than null")
}

func TestGetSnapshotForCreatorIncludesPendingRequests(t *testing.T) {
	dynamo := newStubDynamo()
	creator := seedProfile(t, dynamo, "creator", 800)
	requester := seedProfile(t, dynamo, "requester", 300)
	now := time.Now().UTC()

	group := seedGroup(t, dynamo, models.TripGroup{
		ID: "g1", CreatorID: creator.ID, Title: "Sunrise summit push",
		MaxMembers: 4, CurrentMembers: 1,
	})
	seedMembership(t, dynamo, models.GroupMembership{
		ID: "m-creator", GroupID: group.ID, UserProfileID: creator.ID,
		Role: models.RoleCreator, Status: models.MembershipStatusApproved, JoinedAt: &now,
	})
	seedMembership(t, dynamo, models.GroupMembership{
		ID: "m-pending", GroupID: group.ID, UserProfileID: requester.ID,
		Role: models.RoleMember, Status: models.MembershipStatusPending,
	})

	svc := newCommunityService(dynamo, nil)
	snapshot, err := svc.GetSnapshot(context.Background(), creator.UserID, "")
	require.NoError(t, err)

	require.Len(t, snapshot.MyGroups, 1, "creator membership is approved")
	require.Len(t, snapshot.CreatedGroups, 1)
	created := snapshot.CreatedGroups[0]
	assert.Equal(t, group.ID, created.ID)
	require.NotNil(t, created.Creator)
	assert.Equal(t, creator.ID, created.Creator.ProfileID)
	require.Len(t, created.Members, 1, "pending requesters are not members yet")

	require.Len(t, snapshot.PendingRequests, 1)
	request := snapshot.PendingRequests[0]
	assert.Equal(t, "m-pending", request.Membership.ID)
	assert.Equal(t, "Sunrise summit push", request.GroupTitle)
	require.NotNil(t, request.Requester)
	assert.Equal(t, requester.ID, request.Requester.ProfileID)
}

func TestRefreshGroupsSkipsVanishedGroup(t *testing.T) {
	dynamo := newStubDynamo()
	profile := seedProfile(t, dynamo, "member", 300)
	now := time.Now().UTC()

	group := seedGroup(t, dynamo, models.TripGroup{
		ID: "g-alive", CreatorID: "someone", MaxMembers: 4, CurrentMembers: 2,
	})
	seedMembership(t, dynamo, models.GroupMembership{
		ID: "m-alive", GroupID: group.ID, UserProfileID: profile.ID,
		Role: models.RoleMember, Status: models.MembershipStatusApproved, JoinedAt: &now,
	})
	seedMembership(t, dynamo, models.GroupMembership{
		ID: "m-orphan", GroupID: "g-deleted", UserProfileID: profile.ID,
		Role: models.RoleMember, Status: models.MembershipStatusApproved, JoinedAt: &now,
	})

	svc := newCommunityService(dynamo, nil)
	groups, err := svc.RefreshGroups(context.Background(), profile.ID)
	require.NoError(t, err, "one orphaned membership must not fail the whole refresh")
	require.Len(t, groups.MyGroups, 1)
	assert.Equal(t, "g-alive", groups.MyGroups[0].ID)
}

func TestCommunityAwardXPRejectsUnknownAction(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 300)

	svc := newCommunityService(dynamo, nil)
	_, _, err := svc.AwardXP(context.Background(), "p1", models.XPAction("hack_the_ledger"), "", "")
	refusal, ok := AsRefusal(err)
	require.True(t, ok)
	assert.Equal(t, RefusalInvalidAction, refusal.Code)
	assert.Zero(t, dynamo.updateCalls)
}

func TestCommunityAwardXPPassesThrough(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 220)

	svc := newCommunityService(dynamo, nil)
	profile, txn, err := svc.AwardXP(context.Background(), "p1", models.ActionGroupJoin, "g1", "group")
	require.NoError(t, err)
	assert.Equal(t, 250, profile.XPPoints)
	assert.Equal(t, models.LevelSilver, profile.Level, "crossing 250 promotes to silver")
	require.NotNil(t, txn)
	assert.Equal(t, "g1", txn.ReferenceID)
}
