package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoAPI used by the service tests. It
// understands the expression subset the services issue: SET and ADD
// updates, equality key conditions, and conditions built from
// attribute_not_exists, =, <> and >= joined with AND.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

// fakeTableKeys mirrors each table's key schema so puts can be addressed.
var fakeTableKeys = map[string][]string{
	models.UserProfilesTable:    {"userId"},
	models.SwipesTable:          {"swiperId", "targetId"},
	models.PendingRequestsTable: {"requestId"},
	models.MatchesTable:         {"matchId"},
	models.MatchPairsTable:      {"pairKey"},
	models.MessagesTable:        {"matchId", "createdAt"},
	models.SubmissionsTable:     {"matchId", "userId"},
	models.CreditGrantsTable:    {"sessionId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

var _ DynamoAPI = (*fakeDynamo)(nil)

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = map[string]map[string]types.AttributeValue{}
	}
	return f.tables[name]
}

func (f *fakeDynamo) keyString(tableName string, item map[string]types.AttributeValue) (string, error) {
	fields, ok := fakeTableKeys[tableName]
	if !ok {
		return "", fmt.Errorf("fake: unknown table %q", tableName)
	}
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		s, ok := item[field].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("fake: missing key field %q for table %q", field, tableName)
		}
		parts = append(parts, s.Value)
	}
	return strings.Join(parts, "|"), nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) GetItem(_ context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ks, err := f.keyString(tableName, key)
	if err != nil {
		return nil, err
	}
	item, ok := f.table(tableName)[ks]
	if !ok {
		return nil, nil
	}
	return copyItem(item), nil
}

func (f *fakeDynamo) PutItem(_ context.Context, tableName string, item interface{}) error {
	return f.putItem(tableName, item, "")
}

func (f *fakeDynamo) PutItemWithCondition(_ context.Context, tableName string, item interface{}, condition string) error {
	return f.putItem(tableName, item, condition)
}

func (f *fakeDynamo) putItem(tableName string, item interface{}, condition string) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ks, err := f.keyString(tableName, marshaled)
	if err != nil {
		return err
	}
	existing := f.table(tableName)[ks]
	if condition != "" && !evalCondition(existing, condition, nil, nil) {
		return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	f.table(tableName)[ks] = marshaled
	return nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	return f.UpdateItemWithCondition(ctx, tableName, updateExpression, key, values, names, "")
}

func (f *fakeDynamo) UpdateItemWithCondition(_ context.Context, tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string, condition string) (map[string]types.AttributeValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	updated, err := f.applyUpdateLocked(tableName, updateExpression, key, values, names, condition)
	if err != nil {
		return nil, err
	}
	return copyItem(updated), nil
}

func (f *fakeDynamo) applyUpdateLocked(tableName, updateExpression string, key, values map[string]types.AttributeValue, names map[string]string, condition string) (map[string]types.AttributeValue, error) {
	ks, err := f.keyString(tableName, key)
	if err != nil {
		return nil, err
	}

	existing := f.table(tableName)[ks]
	if condition != "" && !evalCondition(existing, condition, values, names) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}

	// Updating a missing item creates it carrying just the key attributes.
	if existing == nil {
		existing = copyItem(key)
	}
	if err := applyUpdateExpression(existing, updateExpression, values, names); err != nil {
		return nil, err
	}
	f.table(tableName)[ks] = existing
	return existing, nil
}

func (f *fakeDynamo) QueryItems(ctx context.Context, tableName, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return f.query(tableName, keyConditionExpression, values, names, limit, true)
}

func (f *fakeDynamo) QueryItemsDesc(_ context.Context, tableName, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return f.query(tableName, keyConditionExpression, values, names, limit, false)
}

func (f *fakeDynamo) QueryItemsWithIndex(_ context.Context, tableName, _, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return f.query(tableName, keyConditionExpression, values, names, limit, true)
}

// query matches on a single equality condition, orders by the table's sort
// key like DynamoDB would, and applies the limit after ordering.
func (f *fakeDynamo) query(tableName, keyConditionExpression string, values map[string]types.AttributeValue, names map[string]string, limit int32, forward bool) ([]map[string]types.AttributeValue, error) {
	field, placeholder, err := parseEquality(keyConditionExpression, names)
	if err != nil {
		return nil, err
	}
	want, ok := values[placeholder]
	if !ok {
		return nil, fmt.Errorf("fake: missing value %q", placeholder)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		if attrEqual(item[field], want) {
			out = append(out, copyItem(item))
		}
	}

	if fields := fakeTableKeys[tableName]; len(fields) == 2 {
		sortKey := fields[1]
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := out[i][sortKey].(*types.AttributeValueMemberS)
			b, _ := out[j][sortKey].(*types.AttributeValueMemberS)
			if a == nil || b == nil {
				return false
			}
			if forward {
				return a.Value < b.Value
			}
			return a.Value > b.Value
		})
	}
	if limit > 0 && int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, tableName string, key map[string]types.AttributeValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ks, err := f.keyString(tableName, key)
	if err != nil {
		return err
	}
	delete(f.table(tableName), ks)
	return nil
}

func (f *fakeDynamo) ScanWithFilter(_ context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(tableName) {
		excluded := false
		for field, value := range excludeFields {
			if s, ok := item[field].(*types.AttributeValueMemberS); ok && s.Value == value {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if filterFunc == nil || filterFunc(item) {
			items = append(items, copyItem(item))
		}
	}
	return attributevalue.UnmarshalListOfMaps(items, result)
}

// TransactWrite checks every condition first and only then applies the ops,
// so a failed condition leaves all touched items unchanged.
func (f *fakeDynamo) TransactWrite(_ context.Context, ops []TransactOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	conditionFailed := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}},
	}

	type preparedPut struct {
		table string
		key   string
		item  map[string]types.AttributeValue
	}
	var puts []preparedPut

	for _, op := range ops {
		if op.Put != nil {
			marshaled, err := attributevalue.MarshalMap(op.Put)
			if err != nil {
				return err
			}
			ks, err := f.keyString(op.Table, marshaled)
			if err != nil {
				return err
			}
			if op.Condition != "" && !evalCondition(f.table(op.Table)[ks], op.Condition, op.Values, op.Names) {
				return conditionFailed
			}
			puts = append(puts, preparedPut{table: op.Table, key: ks, item: marshaled})
			continue
		}

		ks, err := f.keyString(op.Table, op.Key)
		if err != nil {
			return err
		}
		if op.Condition != "" && !evalCondition(f.table(op.Table)[ks], op.Condition, op.Values, op.Names) {
			return conditionFailed
		}
	}

	for _, put := range puts {
		f.table(put.table)[put.key] = put.item
	}
	for _, op := range ops {
		if op.Put != nil {
			continue
		}
		if _, err := f.applyUpdateLocked(op.Table, op.UpdateExpression, op.Key, op.Values, op.Names, ""); err != nil {
			return err
		}
	}
	return nil
}

// --- expression helpers ---

func resolveName(raw string, names map[string]string) string {
	if strings.HasPrefix(raw, "#") {
		if resolved, ok := names[raw]; ok {
			return resolved
		}
	}
	return raw
}

// parseEquality handles "field = :placeholder" key conditions.
func parseEquality(expr string, names map[string]string) (field, placeholder string, err error) {
	parts := strings.Split(expr, "=")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("fake: unsupported key condition %q", expr)
	}
	return resolveName(strings.TrimSpace(parts[0]), names), strings.TrimSpace(parts[1]), nil
}

func evalCondition(item map[string]types.AttributeValue, condition string, values map[string]types.AttributeValue, names map[string]string) bool {
	for _, clause := range strings.Split(condition, " AND ") {
		clause = strings.TrimSpace(clause)

		if strings.HasPrefix(clause, "attribute_not_exists(") && strings.HasSuffix(clause, ")") {
			field := resolveName(clause[len("attribute_not_exists("):len(clause)-1], names)
			if item != nil {
				if _, exists := item[field]; exists {
					return false
				}
			}
			continue
		}

		var op string
		switch {
		case strings.Contains(clause, ">="):
			op = ">="
		case strings.Contains(clause, "<>"):
			op = "<>"
		case strings.Contains(clause, "="):
			op = "="
		default:
			return false
		}

		parts := strings.SplitN(clause, op, 2)
		field := resolveName(strings.TrimSpace(parts[0]), names)
		want, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return false
		}
		if item == nil {
			return false
		}
		have, exists := item[field]
		if !exists {
			return false
		}

		switch op {
		case "=":
			if !attrEqual(have, want) {
				return false
			}
		case "<>":
			if attrEqual(have, want) {
				return false
			}
		case ">=":
			haveN, err1 := attrNumber(have)
			wantN, err2 := attrNumber(want)
			if err1 != nil || err2 != nil || haveN < wantN {
				return false
			}
		}
	}
	return true
}

func applyUpdateExpression(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue, names map[string]string) error {
	switch {
	case strings.HasPrefix(expr, "SET "):
		for _, assignment := range strings.Split(expr[len("SET "):], ",") {
			field, placeholder, err := parseEquality(assignment, names)
			if err != nil {
				return err
			}
			value, ok := values[placeholder]
			if !ok {
				return fmt.Errorf("fake: missing value %q", placeholder)
			}
			item[field] = value
		}
		return nil

	case strings.HasPrefix(expr, "ADD "):
		parts := strings.Fields(expr[len("ADD "):])
		if len(parts) != 2 {
			return fmt.Errorf("fake: unsupported ADD expression %q", expr)
		}
		field := resolveName(parts[0], names)
		delta, err := attrNumber(values[parts[1]])
		if err != nil {
			return err
		}
		current := int64(0)
		if existing, ok := item[field]; ok {
			if current, err = attrNumber(existing); err != nil {
				return err
			}
		}
		item[field] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
		return nil

	default:
		return fmt.Errorf("fake: unsupported update expression %q", expr)
	}
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func attrNumber(v types.AttributeValue) (int64, error) {
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("fake: expected numeric attribute, got %T", v)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}
