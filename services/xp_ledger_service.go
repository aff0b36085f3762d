package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"trekmate_server/models"
	"trekmate_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// XPLedgerService owns the only write path for xpPoints and the cached level.
// Both land in a single conditional write so the stored level can never
// diverge from LevelForXP(xpPoints).
type XPLedgerService struct {
	Dynamo   DynamoAPI
	Notifier Notifier
}

// awardMaxAttempts bounds the compare-and-set loop under concurrent awards.
const awardMaxAttempts = 5

// AwardXP grants the fixed reward for action to a profile and appends a ledger
// row. The profile update is authoritative; the ledger append is best-effort —
// on append failure the award still reports success with a nil transaction and
// the failure is logged for reconciliation.
func (xls *XPLedgerService) AwardXP(ctx context.Context, profileID string, action models.XPAction, referenceID, referenceType string) (*models.UserProfile, *models.XPTransaction, error) {
	reward := models.XPRewardFor(action)

	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}

	var updated models.UserProfile
	var previousLevel models.Level
	applied := false

	for attempt := 0; attempt < awardMaxAttempts && !applied; attempt++ {
		item, err := xls.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
		if err != nil {
			return nil, nil, err
		}
		observedXP := utils.ExtractInt(item, "xpPoints")
		observedLevel := models.Level(utils.ExtractString(item, "level"))

		newXP := observedXP + reward
		newLevel := models.LevelForXP(newXP)

		// LEVEL is a DynamoDB reserved word, hence the #level alias.
		updateExpression := "SET xpPoints = :newXp, #level = :newLevel, updatedAt = :updatedAt"
		conditionExpression := "xpPoints = :observedXp"
		expressionAttributeValues := map[string]types.AttributeValue{
			":newXp":      &types.AttributeValueMemberN{Value: strconv.Itoa(newXP)},
			":newLevel":   &types.AttributeValueMemberS{Value: string(newLevel)},
			":updatedAt":  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
			":observedXp": &types.AttributeValueMemberN{Value: strconv.Itoa(observedXP)},
		}
		expressionAttributeNames := map[string]string{"#level": "level"}

		newItem, err := xls.Dynamo.UpdateItemWithCondition(ctx, models.UserProfilesTable,
			updateExpression, conditionExpression, key, expressionAttributeValues, expressionAttributeNames)
		if err != nil {
			if isConditionFailed(err) {
				continue // lost the race to a concurrent award, re-read and retry
			}
			return nil, nil, err
		}

		if err := attributevalue.UnmarshalMap(newItem, &updated); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
		previousLevel = observedLevel
		applied = true
	}

	if !applied {
		return nil, nil, fmt.Errorf("xp award for profile '%s' kept losing concurrent updates", profileID)
	}

	transaction := &models.XPTransaction{
		UserProfileID: profileID,
		ID:            uuid.NewString(),
		Action:        action,
		XPAmount:      reward,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
		CreatedAt:     time.Now().UTC(),
	}
	if err := xls.Dynamo.PutItem(ctx, models.XPTransactionsTable, transaction); err != nil {
		// The counter is the source of truth; a lost ledger row is logged so a
		// reconciliation pass can detect the gap.
		log.Printf("⚠️ XP awarded to profile %s but ledger append failed: %v", profileID, err)
		transaction = nil
	}

	if xls.Notifier != nil && updated.Level != previousLevel {
		xls.Notifier.Notify(profileID, EventLevelUp, map[string]interface{}{
			"level":    updated.Level,
			"xpPoints": updated.XPPoints,
		})
	}

	return &updated, transaction, nil
}

// ListTransactions returns a profile's ledger rows, newest first.
func (xls *XPLedgerService) ListTransactions(ctx context.Context, profileID string, limit int32) ([]models.XPTransaction, error) {
	keyCondition := "userProfileId = :pid"
	expressionAttributeValues := map[string]types.AttributeValue{
		":pid": &types.AttributeValueMemberS{Value: profileID},
	}

	items, err := xls.Dynamo.QueryItems(ctx, models.XPTransactionsTable, keyCondition, expressionAttributeValues, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch xp transactions: %w", err)
	}

	transactions := make([]models.XPTransaction, 0, len(items))
	for _, item := range items {
		var txn models.XPTransaction
		if err := attributevalue.UnmarshalMap(item, &txn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal xp transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions, nil
}
