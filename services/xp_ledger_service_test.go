package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trekmate_server/models"
)

var _ DynamoAPI = (*stubDynamo)(nil)

func seedProfile(t *testing.T, dynamo *stubDynamo, id string, xp int) models.UserProfile {
	t.Helper()
	profile := models.UserProfile{
		ID:          id,
		UserID:      "auth-" + id,
		DisplayName: "Trekker " + id,
		XPPoints:    xp,
		Level:       models.LevelForXP(xp),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	dynamo.seed(t, models.UserProfilesTable, profile)
	return profile
}

func TestAwardXPUpdatesCounterAndLevelTogether(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 700) // gold

	ledger := &XPLedgerService{Dynamo: dynamo}
	profile, txn, err := ledger.AwardXP(context.Background(), "p1", models.ActionBookingComplete, "booking-9", "booking")
	require.NoError(t, err)

	// 700 + 50 lands exactly on gold's own threshold: level stays gold
	assert.Equal(t, 750, profile.XPPoints)
	assert.Equal(t, models.LevelGold, profile.Level)

	require.NotNil(t, txn)
	assert.Equal(t, models.ActionBookingComplete, txn.Action)
	assert.Equal(t, 50, txn.XPAmount)
	assert.Equal(t, "booking-9", txn.ReferenceID)

	var stored models.UserProfile
	dynamo.get(t, models.UserProfilesTable, "p1", &stored)
	assert.Equal(t, 750, stored.XPPoints)
	assert.Equal(t, models.LevelForXP(stored.XPPoints), stored.Level)
}

func TestAwardXPLevelUpEmitsNotification(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 1480) // gold, 20 shy of platinum

	notifier := &recordingNotifier{}
	ledger := &XPLedgerService{Dynamo: dynamo, Notifier: notifier}
	profile, _, err := ledger.AwardXP(context.Background(), "p1", models.ActionGroupJoin, "", "")
	require.NoError(t, err)

	assert.Equal(t, 1510, profile.XPPoints)
	assert.Equal(t, models.LevelPlatinum, profile.Level)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventLevelUp, notifier.events[0].Event)
	assert.Equal(t, "p1", notifier.events[0].ProfileID)
}

func TestAwardXPNoNotificationWithinSameLevel(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 300) // silver

	notifier := &recordingNotifier{}
	ledger := &XPLedgerService{Dynamo: dynamo, Notifier: notifier}
	_, _, err := ledger.AwardXP(context.Background(), "p1", models.ActionReviewGiven, "", "")
	require.NoError(t, err)
	assert.Empty(t, notifier.events)
}

func TestAwardXPMissingProfileIsNotFound(t *testing.T) {
	dynamo := newStubDynamo()
	ledger := &XPLedgerService{Dynamo: dynamo}

	_, _, err := ledger.AwardXP(context.Background(), "ghost", models.ActionReferral, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Zero(t, dynamo.putCalls, "no ledger row may be written without a committed profile update")
}

func TestAwardXPRetriesLostRace(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 100)
	dynamo.failConditionHits = 2 // lose twice, then win

	ledger := &XPLedgerService{Dynamo: dynamo}
	profile, txn, err := ledger.AwardXP(context.Background(), "p1", models.ActionReferral, "", "")
	require.NoError(t, err)
	assert.Equal(t, 150, profile.XPPoints)
	assert.NotNil(t, txn)
	assert.Equal(t, 3, dynamo.updateCalls)
}

func TestAwardXPGivesUpAfterTooManyRaces(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 100)
	dynamo.failConditionHits = awardMaxAttempts

	ledger := &XPLedgerService{Dynamo: dynamo}
	_, _, err := ledger.AwardXP(context.Background(), "p1", models.ActionReferral, "", "")
	require.Error(t, err)
	assert.Zero(t, dynamo.putCalls)
}

func TestAwardXPLedgerAppendFailureStillSucceeds(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 0)
	dynamo.failPuts[models.XPTransactionsTable] = errors.New("table throttled")

	ledger := &XPLedgerService{Dynamo: dynamo}
	profile, txn, err := ledger.AwardXP(context.Background(), "p1", models.ActionFirstBooking, "", "")
	require.NoError(t, err, "the counter is the source of truth")
	assert.Equal(t, 100, profile.XPPoints)
	assert.Nil(t, txn)
}

func TestLedgerReconcilesWithCounter(t *testing.T) {
	dynamo := newStubDynamo()
	seedProfile(t, dynamo, "p1", 0)

	ledger := &XPLedgerService{Dynamo: dynamo}
	actions := []models.XPAction{
		models.ActionFirstBooking, models.ActionGroupCreate,
		models.ActionGroupJoin, models.ActionReviewGiven, models.ActionBookingComplete,
	}
	for _, action := range actions {
		_, _, err := ledger.AwardXP(context.Background(), "p1", action, "", "")
		require.NoError(t, err)
	}

	transactions, err := ledger.ListTransactions(context.Background(), "p1", 0)
	require.NoError(t, err)
	require.Len(t, transactions, len(actions))

	sum := 0
	for _, txn := range transactions {
		sum += txn.XPAmount
	}
	var stored models.UserProfile
	dynamo.get(t, models.UserProfilesTable, "p1", &stored)
	assert.Equal(t, stored.XPPoints, sum, "ledger sum must equal the cached counter")
	assert.Equal(t, models.LevelForXP(stored.XPPoints), stored.Level)
}
