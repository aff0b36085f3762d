package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"trekmate_server/models"
	"trekmate_server/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// TripGroupService owns the group lifecycle and the membership state machine.
// Capacity-sensitive transitions (approve, leave) run as transactional writes
// conditioned on the observed member count, so two concurrent approvals can
// never admit past MaxMembers.
type TripGroupService struct {
	Dynamo   DynamoAPI
	Profiles *UserProfileService
	Notifier Notifier
}

// groupWriteMaxAttempts bounds the re-read loop when a transactional write
// loses to a concurrent update.
const groupWriteMaxAttempts = 3

// inviteCodeMaxAttempts bounds regeneration when a fresh invite code collides.
const inviteCodeMaxAttempts = 5

// CreateGroupInput carries the caller-supplied fields for a new trip group.
type CreateGroupInput struct {
	TrekSlug      string `json:"trekSlug" validate:"required"`
	TrekTitle     string `json:"trekTitle" validate:"required"`
	Title         string `json:"title" validate:"required,max=120"`
	Description   string `json:"description" validate:"max=1000"`
	PlannedDate   string `json:"plannedDate" validate:"required"`
	FlexibleDates bool   `json:"flexibleDates"`
	MaxMembers    int    `json:"maxMembers" validate:"required,min=1"`
	IsPublic      *bool  `json:"isPublic"` // nil means public
}

// GroupFilters narrows the public-group listing.
type GroupFilters struct {
	TrekSlug      string
	DateFrom      string
	DateTo        string
	Status        string // defaults to open
	AvailableOnly bool
}

// CreateGroup creates a group plus the creator's pre-approved membership in a
// single transactional write. MaxMembers is clamped to the creator's
// level-derived cap; private groups require platinum and get a unique invite
// code.
func (tgs *TripGroupService) CreateGroup(ctx context.Context, creatorProfileID string, input CreateGroupInput) (*models.TripGroup, error) {
	creator, err := tgs.Profiles.GetUserProfile(ctx, creatorProfileID)
	if err != nil {
		return nil, err
	}

	if !models.CanCreateGroups(creator.Level) {
		return nil, Refuse(RefusalLevelTooLow, "level %s cannot create trip groups", creator.Level)
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}
	if !isPublic && !models.CanCreatePrivateGroups(creator.Level) {
		return nil, Refuse(RefusalLevelTooLow, "level %s cannot create private groups", creator.Level)
	}

	maxMembers := input.MaxMembers
	if sizeCap := models.MaxGroupSize(creator.Level); maxMembers > sizeCap {
		maxMembers = sizeCap
	}
	// The creator occupies a slot, so a group can never hold fewer than one.
	if maxMembers < 1 {
		maxMembers = 1
	}

	inviteCode := ""
	if !isPublic {
		inviteCode, err = tgs.uniqueInviteCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	status := models.GroupStatusOpen
	if maxMembers == 1 {
		status = models.GroupStatusFull
	}

	now := time.Now().UTC()
	group := models.TripGroup{
		ID:             uuid.NewString(),
		CreatorID:      creatorProfileID,
		TrekSlug:       input.TrekSlug,
		TrekTitle:      input.TrekTitle,
		Title:          input.Title,
		Description:    input.Description,
		PlannedDate:    input.PlannedDate,
		FlexibleDates:  input.FlexibleDates,
		MaxMembers:     maxMembers,
		CurrentMembers: 1,
		IsPublic:       isPublic,
		InviteCode:     inviteCode,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	membership := models.GroupMembership{
		ID:            uuid.NewString(),
		GroupID:       group.ID,
		UserProfileID: creatorProfileID,
		Role:          models.RoleCreator,
		Status:        models.MembershipStatusApproved,
		JoinedAt:      &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	groupItem, err := attributevalue.MarshalMap(group)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group: %w", err)
	}
	membershipItem, err := attributevalue.MarshalMap(membership)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal membership: %w", err)
	}

	// One transaction: a failure can never leave an orphan group without its
	// creator membership.
	err = tgs.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:           aws.String(models.TripGroupsTable),
			Item:                groupItem,
			ConditionExpression: aws.String("attribute_not_exists(groupId)"),
		}},
		{Put: &types.Put{
			TableName:           aws.String(models.GroupMembershipsTable),
			Item:                membershipItem,
			ConditionExpression: aws.String("attribute_not_exists(membershipId)"),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &group, nil
}

func (tgs *TripGroupService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeMaxAttempts; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return "", err
		}
		items, err := tgs.Dynamo.QueryItemsWithIndex(ctx, models.TripGroupsTable, models.InviteCodeIndex,
			"inviteCode = :code",
			map[string]types.AttributeValue{":code": &types.AttributeValueMemberS{Value: code}},
			nil, 1)
		if err != nil {
			return "", err
		}
		if len(items) == 0 {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique invite code")
}

// GetGroup retrieves a group by id.
func (tgs *TripGroupService) GetGroup(ctx context.Context, groupID string) (*models.TripGroup, error) {
	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
	item, err := tgs.Dynamo.GetItem(ctx, models.TripGroupsTable, key)
	if err != nil {
		return nil, err
	}
	var group models.TripGroup
	if err := attributevalue.UnmarshalMap(item, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return &group, nil
}

// GetGroupByInviteCode resolves a private group from its code,
// case-insensitively.
func (tgs *TripGroupService) GetGroupByInviteCode(ctx context.Context, code string) (*models.TripGroup, error) {
	normalized := utils.NormalizeInviteCode(code)
	items, err := tgs.Dynamo.QueryItemsWithIndex(ctx, models.TripGroupsTable, models.InviteCodeIndex,
		"inviteCode = :code",
		map[string]types.AttributeValue{":code": &types.AttributeValueMemberS{Value: normalized}},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("group with invite code '%s': %w", normalized, ErrNotFound)
	}
	var group models.TripGroup
	if err := attributevalue.UnmarshalMap(items[0], &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return &group, nil
}

// GetPublicGroups lists public groups, default-filtered to open status,
// ordered by planned date ascending. Pure read.
func (tgs *TripGroupService) GetPublicGroups(ctx context.Context, filters GroupFilters, limit, offset int) ([]models.TripGroup, error) {
	status := filters.Status
	if status == "" {
		status = models.GroupStatusOpen
	}
	if !models.ValidGroupStatus(status) {
		return nil, Refuse(RefusalInvalidStatus, "unknown group status %q", status)
	}

	filterExpression := "isPublic = :public AND #status = :status"
	expressionAttributeValues := map[string]types.AttributeValue{
		":public": &types.AttributeValueMemberBOOL{Value: true},
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionAttributeNames := map[string]string{"#status": "status"}

	if filters.TrekSlug != "" {
		filterExpression += " AND trekSlug = :trek"
		expressionAttributeValues[":trek"] = &types.AttributeValueMemberS{Value: filters.TrekSlug}
	}
	if filters.DateFrom != "" {
		filterExpression += " AND plannedDate >= :from"
		expressionAttributeValues[":from"] = &types.AttributeValueMemberS{Value: filters.DateFrom}
	}
	if filters.DateTo != "" {
		filterExpression += " AND plannedDate <= :to"
		expressionAttributeValues[":to"] = &types.AttributeValueMemberS{Value: filters.DateTo}
	}
	if filters.AvailableOnly {
		filterExpression += " AND currentMembers < maxMembers"
	}

	items, err := tgs.Dynamo.ScanItems(ctx, models.TripGroupsTable, filterExpression, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	groups := make([]models.TripGroup, 0, len(items))
	for _, item := range items {
		var group models.TripGroup
		if err := attributevalue.UnmarshalMap(item, &group); err != nil {
			return nil, fmt.Errorf("failed to unmarshal group: %w", err)
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].PlannedDate < groups[j].PlannedDate
	})

	if offset >= len(groups) {
		return []models.TripGroup{}, nil
	}
	groups = groups[offset:]
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}
	return groups, nil
}

// RequestToJoinGroup inserts a pending membership after the four ordered
// guards: joining level, open status, free capacity, no active membership for
// the pair. A failed guard refuses without writing.
func (tgs *TripGroupService) RequestToJoinGroup(ctx context.Context, groupID, profileID string) (*models.GroupMembership, error) {
	profile, err := tgs.Profiles.GetUserProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !models.CanJoinGroups(profile.Level) {
		return nil, Refuse(RefusalLevelTooLow, "level %s cannot join trip groups", profile.Level)
	}

	group, err := tgs.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Status != models.GroupStatusOpen {
		return nil, Refuse(RefusalGroupNotOpen, "group is %s", group.Status)
	}
	if group.CurrentMembers >= group.MaxMembers {
		return nil, Refuse(RefusalGroupFull, "group already has %d of %d members", group.CurrentMembers, group.MaxMembers)
	}

	existing, err := tgs.findActiveMembership(ctx, groupID, profileID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Refuse(RefusalDuplicateMembership, "an active membership already exists for this group")
	}

	now := time.Now().UTC()
	membership := models.GroupMembership{
		ID:            uuid.NewString(),
		GroupID:       groupID,
		UserProfileID: profileID,
		Role:          models.RoleMember,
		Status:        models.MembershipStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = tgs.Dynamo.PutItemWithCondition(ctx, models.GroupMembershipsTable, membership,
		"attribute_not_exists(membershipId)", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	if tgs.Notifier != nil {
		tgs.Notifier.Notify(group.CreatorID, EventJoinRequest, map[string]interface{}{
			"groupId":      groupID,
			"membershipId": membership.ID,
			"profileId":    profileID,
		})
	}
	return &membership, nil
}

// ApproveJoinRequest flips a pending membership to approved and increments the
// group counter in one transaction, transitioning the group to full at
// capacity. Only the group's creator may approve; the authorization check runs
// against the group row, not the membership.
func (tgs *TripGroupService) ApproveJoinRequest(ctx context.Context, membershipID, approverProfileID string) (*models.GroupMembership, error) {
	for attempt := 0; attempt < groupWriteMaxAttempts; attempt++ {
		membership, err := tgs.getMembership(ctx, membershipID)
		if err != nil {
			return nil, err
		}
		group, err := tgs.GetGroup(ctx, membership.GroupID)
		if err != nil {
			return nil, err
		}

		if group.CreatorID != approverProfileID {
			return nil, Refuse(RefusalNotGroupCreator, "only the group creator can approve join requests")
		}
		if membership.Status != models.MembershipStatusPending {
			return nil, Refuse(RefusalMembershipNotPending, "request is %s", membership.Status)
		}
		if group.Status != models.GroupStatusOpen {
			return nil, Refuse(RefusalGroupNotOpen, "group is %s", group.Status)
		}
		if group.CurrentMembers >= group.MaxMembers {
			return nil, Refuse(RefusalGroupFull, "group already has %d of %d members", group.CurrentMembers, group.MaxMembers)
		}

		newCount := group.CurrentMembers + 1
		newStatus := models.GroupStatusOpen
		if newCount == group.MaxMembers {
			newStatus = models.GroupStatusFull
		}

		now := time.Now().UTC()
		nowStr := now.Format(time.RFC3339Nano)

		err = tgs.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
			{Update: &types.Update{
				TableName: aws.String(models.GroupMembershipsTable),
				Key: map[string]types.AttributeValue{
					"membershipId": &types.AttributeValueMemberS{Value: membershipID},
				},
				UpdateExpression:    aws.String("SET #status = :approved, joinedAt = :now, updatedAt = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":approved": &types.AttributeValueMemberS{Value: models.MembershipStatusApproved},
					":pending":  &types.AttributeValueMemberS{Value: models.MembershipStatusPending},
					":now":      &types.AttributeValueMemberS{Value: nowStr},
				},
			}},
			{Update: &types.Update{
				TableName: aws.String(models.TripGroupsTable),
				Key: map[string]types.AttributeValue{
					"groupId": &types.AttributeValueMemberS{Value: group.ID},
				},
				UpdateExpression:    aws.String("SET currentMembers = :newCount, #status = :newStatus, updatedAt = :now"),
				ConditionExpression: aws.String("currentMembers = :observed AND #status = :open"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":newCount":  &types.AttributeValueMemberN{Value: strconv.Itoa(newCount)},
					":newStatus": &types.AttributeValueMemberS{Value: newStatus},
					":observed":  &types.AttributeValueMemberN{Value: strconv.Itoa(group.CurrentMembers)},
					":open":      &types.AttributeValueMemberS{Value: models.GroupStatusOpen},
					":now":       &types.AttributeValueMemberS{Value: nowStr},
				},
			}},
		})
		if err != nil {
			if isConditionFailed(err) {
				continue // concurrent approval moved the count or the request, re-evaluate
			}
			return nil, err
		}

		membership.Status = models.MembershipStatusApproved
		membership.JoinedAt = &now
		membership.UpdatedAt = now

		if tgs.Notifier != nil {
			tgs.Notifier.Notify(membership.UserProfileID, EventRequestApproved, map[string]interface{}{
				"groupId":    group.ID,
				"groupTitle": group.Title,
			})
		}
		return membership, nil
	}
	return nil, fmt.Errorf("approval of membership '%s' kept losing concurrent updates", membershipID)
}

// RejectJoinRequest flips a pending membership to rejected. No counter change.
func (tgs *TripGroupService) RejectJoinRequest(ctx context.Context, membershipID, rejecterProfileID string) (*models.GroupMembership, error) {
	membership, err := tgs.getMembership(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	group, err := tgs.GetGroup(ctx, membership.GroupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != rejecterProfileID {
		return nil, Refuse(RefusalNotGroupCreator, "only the group creator can reject join requests")
	}
	if membership.Status != models.MembershipStatusPending {
		return nil, Refuse(RefusalMembershipNotPending, "request is %s", membership.Status)
	}

	now := time.Now().UTC()
	key := map[string]types.AttributeValue{
		"membershipId": &types.AttributeValueMemberS{Value: membershipID},
	}
	_, err = tgs.Dynamo.UpdateItemWithCondition(ctx, models.GroupMembershipsTable,
		"SET #status = :rejected, updatedAt = :now",
		"#status = :pending",
		key,
		map[string]types.AttributeValue{
			":rejected": &types.AttributeValueMemberS{Value: models.MembershipStatusRejected},
			":pending":  &types.AttributeValueMemberS{Value: models.MembershipStatusPending},
			":now":      &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		map[string]string{"#status": "status"})
	if err != nil {
		if isConditionFailed(err) {
			return nil, Refuse(RefusalMembershipNotPending, "request was already decided")
		}
		return nil, err
	}

	membership.Status = models.MembershipStatusRejected
	membership.UpdatedAt = now

	if tgs.Notifier != nil {
		tgs.Notifier.Notify(membership.UserProfileID, EventRequestRejected, map[string]interface{}{
			"groupId":    group.ID,
			"groupTitle": group.Title,
		})
	}
	return membership, nil
}

// LeaveGroup flips the member's approved membership to left and decrements the
// group counter, reopening a full group. The creator cannot leave; they cancel
// the group instead.
func (tgs *TripGroupService) LeaveGroup(ctx context.Context, groupID, profileID string) error {
	membership, err := tgs.findActiveMembership(ctx, groupID, profileID)
	if err != nil {
		return err
	}
	if membership == nil {
		return fmt.Errorf("membership in group '%s': %w", groupID, ErrNotFound)
	}
	if membership.Role == models.RoleCreator {
		return Refuse(RefusalCreatorCannotLeave, "the creator must cancel the group instead of leaving")
	}
	if membership.Status != models.MembershipStatusApproved {
		return Refuse(RefusalNotApprovedMember, "membership is %s", membership.Status)
	}

	for attempt := 0; attempt < groupWriteMaxAttempts; attempt++ {
		group, err := tgs.GetGroup(ctx, groupID)
		if err != nil {
			return err
		}

		newCount := group.CurrentMembers - 1
		newStatus := group.Status
		if group.Status == models.GroupStatusFull {
			newStatus = models.GroupStatusOpen
		}

		nowStr := time.Now().UTC().Format(time.RFC3339Nano)
		err = tgs.Dynamo.TransactWriteItems(ctx, []types.TransactWriteItem{
			{Update: &types.Update{
				TableName: aws.String(models.GroupMembershipsTable),
				Key: map[string]types.AttributeValue{
					"membershipId": &types.AttributeValueMemberS{Value: membership.ID},
				},
				UpdateExpression:    aws.String("SET #status = :left, updatedAt = :now"),
				ConditionExpression: aws.String("#status = :approved"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":left":     &types.AttributeValueMemberS{Value: models.MembershipStatusLeft},
					":approved": &types.AttributeValueMemberS{Value: models.MembershipStatusApproved},
					":now":      &types.AttributeValueMemberS{Value: nowStr},
				},
			}},
			{Update: &types.Update{
				TableName: aws.String(models.TripGroupsTable),
				Key: map[string]types.AttributeValue{
					"groupId": &types.AttributeValueMemberS{Value: groupID},
				},
				UpdateExpression:    aws.String("SET currentMembers = :newCount, #status = :newStatus, updatedAt = :now"),
				ConditionExpression: aws.String("currentMembers = :observed"),
				ExpressionAttributeNames: map[string]string{"#status": "status"},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":newCount":  &types.AttributeValueMemberN{Value: strconv.Itoa(newCount)},
					":newStatus": &types.AttributeValueMemberS{Value: newStatus},
					":observed":  &types.AttributeValueMemberN{Value: strconv.Itoa(group.CurrentMembers)},
					":now":       &types.AttributeValueMemberS{Value: nowStr},
				},
			}},
		})
		if err != nil {
			if isConditionFailed(err) {
				continue
			}
			return err
		}

		if tgs.Notifier != nil {
			tgs.Notifier.Notify(group.CreatorID, EventMemberLeft, map[string]interface{}{
				"groupId":   groupID,
				"profileId": profileID,
			})
		}
		return nil
	}
	return fmt.Errorf("leaving group '%s' kept losing concurrent updates", groupID)
}

// UpdateGroupStatus is the creator's explicit status write. open and full are
// derived from the member count and can only change through the membership
// paths; terminal statuses never transition further.
func (tgs *TripGroupService) UpdateGroupStatus(ctx context.Context, groupID, creatorProfileID, status string) (*models.TripGroup, error) {
	if !models.ValidGroupStatus(status) {
		return nil, Refuse(RefusalInvalidStatus, "unknown group status %q", status)
	}
	if status == models.GroupStatusOpen || status == models.GroupStatusFull {
		return nil, Refuse(RefusalInvalidStatus, "status %q follows the member count and cannot be set directly", status)
	}

	group, err := tgs.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.CreatorID != creatorProfileID {
		return nil, Refuse(RefusalNotGroupCreator, "only the group creator can change its status")
	}
	if models.IsTerminalGroupStatus(group.Status) {
		return nil, Refuse(RefusalInvalidStatus, "group is %s and cannot transition", group.Status)
	}

	key := map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
	updatedItem, err := tgs.Dynamo.UpdateItemWithCondition(ctx, models.TripGroupsTable,
		"SET #status = :status, updatedAt = :now",
		"#status = :observed",
		key,
		map[string]types.AttributeValue{
			":status":   &types.AttributeValueMemberS{Value: status},
			":observed": &types.AttributeValueMemberS{Value: group.Status},
			":now":      &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		map[string]string{"#status": "status"})
	if err != nil {
		if isConditionFailed(err) {
			return nil, Refuse(RefusalInvalidStatus, "group status changed concurrently")
		}
		return nil, err
	}

	var updated models.TripGroup
	if err := attributevalue.UnmarshalMap(updatedItem, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}
	return &updated, nil
}

// ListGroupsByCreator returns all groups a profile created.
func (tgs *TripGroupService) ListGroupsByCreator(ctx context.Context, creatorProfileID string) ([]models.TripGroup, error) {
	items, err := tgs.Dynamo.QueryItemsWithIndex(ctx, models.TripGroupsTable, models.CreatorIndex,
		"creatorId = :creator",
		map[string]types.AttributeValue{":creator": &types.AttributeValueMemberS{Value: creatorProfileID}},
		nil, 0)
	if err != nil {
		return nil, err
	}
	groups := make([]models.TripGroup, 0, len(items))
	for _, item := range items {
		var group models.TripGroup
		if err := attributevalue.UnmarshalMap(item, &group); err != nil {
			return nil, fmt.Errorf("failed to unmarshal group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// ListMembershipsByProfile returns a profile's memberships across groups.
func (tgs *TripGroupService) ListMembershipsByProfile(ctx context.Context, profileID string) ([]models.GroupMembership, error) {
	items, err := tgs.Dynamo.QueryItemsWithIndex(ctx, models.GroupMembershipsTable, models.MemberProfileIndex,
		"userProfileId = :pid",
		map[string]types.AttributeValue{":pid": &types.AttributeValueMemberS{Value: profileID}},
		nil, 0)
	if err != nil {
		return nil, err
	}
	return unmarshalMemberships(items)
}

// ListGroupMemberships returns every membership row of a group.
func (tgs *TripGroupService) ListGroupMemberships(ctx context.Context, groupID string) ([]models.GroupMembership, error) {
	items, err := tgs.Dynamo.QueryItemsWithIndex(ctx, models.GroupMembershipsTable, models.GroupIndex,
		"groupId = :gid",
		map[string]types.AttributeValue{":gid": &types.AttributeValueMemberS{Value: groupID}},
		nil, 0)
	if err != nil {
		return nil, err
	}
	return unmarshalMemberships(items)
}

func (tgs *TripGroupService) getMembership(ctx context.Context, membershipID string) (*models.GroupMembership, error) {
	key := map[string]types.AttributeValue{
		"membershipId": &types.AttributeValueMemberS{Value: membershipID},
	}
	item, err := tgs.Dynamo.GetItem(ctx, models.GroupMembershipsTable, key)
	if err != nil {
		return nil, err
	}
	var membership models.GroupMembership
	if err := attributevalue.UnmarshalMap(item, &membership); err != nil {
		return nil, fmt.Errorf("failed to unmarshal membership: %w", err)
	}
	return &membership, nil
}

// findActiveMembership returns the pending or approved membership for a
// (group, profile) pair, or nil when none exists.
func (tgs *TripGroupService) findActiveMembership(ctx context.Context, groupID, profileID string) (*models.GroupMembership, error) {
	memberships, err := tgs.ListGroupMemberships(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range memberships {
		if memberships[i].UserProfileID == profileID && memberships[i].IsActive() {
			return &memberships[i], nil
		}
	}
	return nil, nil
}

func unmarshalMemberships(items []map[string]types.AttributeValue) ([]models.GroupMembership, error) {
	memberships := make([]models.GroupMembership, 0, len(items))
	for _, item := range items {
		var membership models.GroupMembership
		if err := attributevalue.UnmarshalMap(item, &membership); err != nil {
			return nil, fmt.Errorf("failed to unmarshal membership: %w", err)
		}
		memberships = append(memberships, membership)
	}
	return memberships, nil
}
