package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"trekmate_server/models"
)

// stubDynamo is an in-memory DynamoAPI with just enough expression support
// (single-attribute key conditions, SET updates, =/>=/<=/< condition
// conjuncts) to exercise the services' guard logic and conditional writes.
type stubDynamo struct {
	tables map[string]map[string]map[string]types.AttributeValue // table → pk value → item

	// failure injection
	failPuts          map[string]error // table → error returned from PutItem
	failConditionHits int              // next N conditional writes lose the race

	// call recording
	putCalls      int
	updateCalls   int
	transactCalls int
}

var tableKeys = map[string]string{
	models.UserProfilesTable:     "profileId",
	models.XPTransactionsTable:   "transactionId",
	models.TripGroupsTable:       "groupId",
	models.GroupMembershipsTable: "membershipId",
}

func newStubDynamo() *stubDynamo {
	return &stubDynamo{
		tables:   map[string]map[string]map[string]types.AttributeValue{},
		failPuts: map[string]error{},
	}
}

func (s *stubDynamo) seed(t *testing.T, table string, entity interface{}) {
	t.Helper()
	item, err := attributevalue.MarshalMap(entity)
	require.NoError(t, err)
	s.store(table, item)
}

func (s *stubDynamo) store(table string, item map[string]types.AttributeValue) {
	if s.tables[table] == nil {
		s.tables[table] = map[string]map[string]types.AttributeValue{}
	}
	pk := stringAttr(item, tableKeys[table])
	s.tables[table][pk] = item
}

func (s *stubDynamo) get(t *testing.T, table, pk string, out interface{}) {
	t.Helper()
	item, ok := s.tables[table][pk]
	require.True(t, ok, "item %s not found in %s", pk, table)
	require.NoError(t, attributevalue.UnmarshalMap(item, out))
}

func stringAttr(item map[string]types.AttributeValue, field string) string {
	if v, ok := item[field].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (s *stubDynamo) GetItem(_ context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	for _, v := range key {
		pk := v.(*types.AttributeValueMemberS).Value
		if item, ok := s.tables[table][pk]; ok {
			return item, nil
		}
	}
	return nil, fmt.Errorf("item in table '%s': %w", table, ErrNotFound)
}

func (s *stubDynamo) PutItem(_ context.Context, table string, entity interface{}) error {
	s.putCalls++
	if err := s.failPuts[table]; err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return err
	}
	s.store(table, item)
	return nil
}

func (s *stubDynamo) PutItemWithCondition(_ context.Context, table string, entity interface{}, condition string, names map[string]string) error {
	s.putCalls++
	if err := s.failPuts[table]; err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(entity)
	if err != nil {
		return err
	}
	pk := stringAttr(item, tableKeys[table])
	if strings.HasPrefix(condition, "attribute_not_exists") {
		if _, exists := s.tables[table][pk]; exists {
			return ErrConditionFailed
		}
	}
	s.store(table, item)
	return nil
}

func (s *stubDynamo) UpdateItem(ctx context.Context, table, update string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return s.UpdateItemWithCondition(ctx, table, update, "", key, values, names)
}

func (s *stubDynamo) UpdateItemWithCondition(_ context.Context, table, update, condition string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	s.updateCalls++
	if s.failConditionHits > 0 {
		s.failConditionHits--
		return nil, ErrConditionFailed
	}

	var pk string
	for _, v := range key {
		pk = v.(*types.AttributeValueMemberS).Value
	}
	item, exists := s.tables[table][pk]
	if condition != "" && !s.checkCondition(item, exists, condition, values, names) {
		return nil, ErrConditionFailed
	}
	if !exists {
		item = map[string]types.AttributeValue{}
		for k, v := range key {
			item[k] = v
		}
	}
	applySet(item, update, values, names)
	s.tables[table][pk] = item
	return item, nil
}

func (s *stubDynamo) QueryItems(_ context.Context, table, keyCond string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return s.match(table, keyCond, values, names, limit), nil
}

func (s *stubDynamo) QueryItemsWithIndex(_ context.Context, table, index, keyCond string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return s.match(table, keyCond, values, names, limit), nil
}

func (s *stubDynamo) ScanItems(_ context.Context, table, filter string, values map[string]types.AttributeValue, names map[string]string) ([]map[string]types.AttributeValue, error) {
	var out []map[string]types.AttributeValue
	for _, item := range s.tables[table] {
		if filter == "" || evalConjuncts(item, filter, values, names) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubDynamo) TransactWriteItems(_ context.Context, items []types.TransactWriteItem) error {
	s.transactCalls++
	if s.failConditionHits > 0 {
		s.failConditionHits--
		return fmt.Errorf("transactional write cancelled: %w", ErrConditionFailed)
	}

	// all-or-nothing: check every condition before applying anything
	for _, twi := range items {
		if twi.Put != nil {
			pk := stringAttr(twi.Put.Item, tableKeys[*twi.Put.TableName])
			if twi.Put.ConditionExpression != nil && strings.HasPrefix(*twi.Put.ConditionExpression, "attribute_not_exists") {
				if _, exists := s.tables[*twi.Put.TableName][pk]; exists {
					return fmt.Errorf("transactional write cancelled: %w", ErrConditionFailed)
				}
			}
		}
		if twi.Update != nil {
			table := *twi.Update.TableName
			var pk string
			for _, v := range twi.Update.Key {
				pk = v.(*types.AttributeValueMemberS).Value
			}
			item, exists := s.tables[table][pk]
			if twi.Update.ConditionExpression != nil &&
				!s.checkCondition(item, exists, *twi.Update.ConditionExpression, twi.Update.ExpressionAttributeValues, twi.Update.ExpressionAttributeNames) {
				return fmt.Errorf("transactional write cancelled: %w", ErrConditionFailed)
			}
		}
	}
	for _, twi := range items {
		if twi.Put != nil {
			s.store(*twi.Put.TableName, twi.Put.Item)
		}
		if twi.Update != nil {
			table := *twi.Update.TableName
			var pk string
			for _, v := range twi.Update.Key {
				pk = v.(*types.AttributeValueMemberS).Value
			}
			item := s.tables[table][pk]
			applySet(item, *twi.Update.UpdateExpression, twi.Update.ExpressionAttributeValues, twi.Update.ExpressionAttributeNames)
			s.tables[table][pk] = item
		}
	}
	return nil
}

func (s *stubDynamo) match(table, keyCond string, values map[string]types.AttributeValue, names map[string]string, limit int32) []map[string]types.AttributeValue {
	var out []map[string]types.AttributeValue
	for _, item := range s.tables[table] {
		if evalConjuncts(item, keyCond, values, names) {
			out = append(out, item)
			if limit > 0 && int32(len(out)) >= limit {
				break
			}
		}
	}
	return out
}

func (s *stubDynamo) checkCondition(item map[string]types.AttributeValue, exists bool, condition string, values map[string]types.AttributeValue, names map[string]string) bool {
	for _, conjunct := range strings.Split(condition, " AND ") {
		conjunct = strings.TrimSpace(conjunct)
		if strings.HasPrefix(conjunct, "attribute_exists") {
			if !exists {
				return false
			}
			continue
		}
		if !exists || !evalComparison(item, conjunct, values, names) {
			return false
		}
	}
	return true
}

func evalConjuncts(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue, names map[string]string) bool {
	for _, conjunct := range strings.Split(expr, " AND ") {
		if !evalComparison(item, strings.TrimSpace(conjunct), values, names) {
			return false
		}
	}
	return true
}

func evalComparison(item map[string]types.AttributeValue, conjunct string, values map[string]types.AttributeValue, names map[string]string) bool {
	for _, op := range []string{">=", "<=", "=", "<"} {
		lhs, rhs, found := strings.Cut(conjunct, " "+op+" ")
		if !found {
			continue
		}
		left := resolveOperand(item, strings.TrimSpace(lhs), values, names)
		right := resolveOperand(item, strings.TrimSpace(rhs), values, names)
		return compareAttr(left, right, op)
	}
	return false
}

func resolveOperand(item map[string]types.AttributeValue, operand string, values map[string]types.AttributeValue, names map[string]string) types.AttributeValue {
	if strings.HasPrefix(operand, ":") {
		return values[operand]
	}
	if strings.HasPrefix(operand, "#") {
		operand = names[operand]
	}
	return item[operand]
}

func compareAttr(a, b types.AttributeValue, op string) bool {
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return false
		}
		switch op {
		case "=":
			return av.Value == bv.Value
		case ">=":
			return av.Value >= bv.Value
		case "<=":
			return av.Value <= bv.Value
		case "<":
			return av.Value < bv.Value
		}
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		an, _ := strconv.Atoi(av.Value)
		bn, _ := strconv.Atoi(bv.Value)
		switch op {
		case "=":
			return an == bn
		case ">=":
			return an >= bn
		case "<=":
			return an <= bn
		case "<":
			return an < bn
		}
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && op == "=" && av.Value == bv.Value
	}
	return false
}

func applySet(item map[string]types.AttributeValue, update string, values map[string]types.AttributeValue, names map[string]string) {
	update = strings.TrimPrefix(update, "SET ")
	for _, assignment := range strings.Split(update, ",") {
		lhs, rhs, found := strings.Cut(assignment, "=")
		if !found {
			continue
		}
		field := strings.TrimSpace(lhs)
		if strings.HasPrefix(field, "#") {
			field = names[field]
		}
		item[field] = values[strings.TrimSpace(rhs)]
	}
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	events []recordedEvent
}

type recordedEvent struct {
	ProfileID string
	Event     string
	Payload   interface{}
}

func (n *recordingNotifier) Notify(profileID, event string, payload interface{}) {
	n.events = append(n.events, recordedEvent{ProfileID: profileID, Event: event, Payload: payload})
}
