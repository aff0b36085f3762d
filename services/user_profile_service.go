package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trekmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type UserProfileService struct {
	Dynamo DynamoAPI
}

// CreateProfileInput carries the caller-supplied fields for a new profile.
type CreateProfileInput struct {
	UserID             string   `json:"userId" validate:"required"`
	DisplayName        string   `json:"displayName" validate:"required,max=80"`
	Bio                string   `json:"bio" validate:"max=500"`
	PreferredTrekTypes []string `json:"preferredTrekTypes"`
	ExperienceLevel    string   `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// profileUpdateBlocklist names the fields only dedicated write paths may touch:
// xpPoints/level belong to the XP ledger, the keys are immutable, and
// verification goes through VerifyUser.
var profileUpdateBlocklist = map[string]bool{
	"profileId":          true,
	"userId":             true,
	"xpPoints":           true,
	"level":              true,
	"isVerified":         true,
	"verifiedAt":         true,
	"verificationMethod": true,
	"createdAt":          true,
}

// AddUserProfile inserts a fresh profile at zero XP. The conditional insert
// guards against clobbering an existing profile id.
func (ups *UserProfileService) AddUserProfile(ctx context.Context, input CreateProfileInput) (*models.UserProfile, error) {
	now := time.Now().UTC()
	profile := models.UserProfile{
		ID:                 uuid.NewString(),
		UserID:             input.UserID,
		DisplayName:        input.DisplayName,
		Bio:                input.Bio,
		PreferredTrekTypes: input.PreferredTrekTypes,
		ExperienceLevel:    input.ExperienceLevel,
		XPPoints:           0,
		Level:              models.LevelForXP(0),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := ups.Dynamo.PutItemWithCondition(ctx, models.UserProfilesTable, profile,
		"attribute_not_exists(profileId)", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfile retrieves a profile by its profile id.
func (ups *UserProfileService) GetUserProfile(ctx context.Context, profileID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetUserProfileByUserID looks a profile up by the external auth identity.
func (ups *UserProfileService) GetUserProfileByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	keyCondition := "userId = :userId"
	expressionAttributeValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := ups.Dynamo.QueryItemsWithIndex(ctx, models.UserProfilesTable, models.UserIDIndex,
		keyCondition, expressionAttributeValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile by user id: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("profile for user '%s': %w", userID, ErrNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(items[0], &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// EnsureProfile returns the profile mapped to userID, creating one on first
// community interaction.
func (ups *UserProfileService) EnsureProfile(ctx context.Context, userID, displayName string) (*models.UserProfile, error) {
	profile, err := ups.GetUserProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return ups.AddUserProfile(ctx, CreateProfileInput{UserID: userID, DisplayName: displayName})
}

// UpdateUserProfile applies caller-supplied edits. Fields owned by other write
// paths are refused rather than silently dropped.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, profileID string, updates map[string]interface{}) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return ups.GetUserProfile(ctx, profileID)
	}
	for field := range updates {
		if profileUpdateBlocklist[field] {
			return nil, Refuse(RefusalImmutableField, "field %q cannot be edited directly", field)
		}
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for field, value := range updates {
		placeholder := ":" + field
		attributeName := "#" + field
		updateExpression += " " + attributeName + " = " + placeholder + ","

		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update for %q: %w", field, err)
		}
		expressionAttributeValues[placeholder] = av
		expressionAttributeNames[attributeName] = field
	}

	updateExpression += " #updatedAt = :updatedAt"
	expressionAttributeNames["#updatedAt"] = "updatedAt"
	expressionAttributeValues[":updatedAt"] = &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)}

	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}

	// Condition ensures the update cannot materialize a phantom profile row.
	updatedItem, err := ups.Dynamo.UpdateItemWithCondition(ctx, models.UserProfilesTable,
		updateExpression, "attribute_exists(profileId)", key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, fmt.Errorf("profile '%s': %w", profileID, ErrNotFound)
		}
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &updatedProfile, nil
}

// VerifyUser marks a profile verified via the given method.
func (ups *UserProfileService) VerifyUser(ctx context.Context, profileID, method string) (*models.UserProfile, error) {
	if !models.ValidVerificationMethod(method) {
		return nil, Refuse(RefusalInvalidStatus, "unknown verification method %q", method)
	}

	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpression := "SET isVerified = :verified, verifiedAt = :verifiedAt, verificationMethod = :method, updatedAt = :updatedAt"
	expressionAttributeValues := map[string]types.AttributeValue{
		":verified":   &types.AttributeValueMemberBOOL{Value: true},
		":verifiedAt": &types.AttributeValueMemberS{Value: now},
		":method":     &types.AttributeValueMemberS{Value: method},
		":updatedAt":  &types.AttributeValueMemberS{Value: now},
	}

	updatedItem, err := ups.Dynamo.UpdateItemWithCondition(ctx, models.UserProfilesTable,
		updateExpression, "attribute_exists(profileId)", key, expressionAttributeValues, nil)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, fmt.Errorf("profile '%s': %w", profileID, ErrNotFound)
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}
