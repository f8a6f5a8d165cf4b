package dynamodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// newTestStore wires a store onto a fresh fake client.
func newTestStore() (*Store, *fakeClient) {
	client := newFakeClient()
	store := NewStore(client, "hangout", "EntityTimeIndex", zap.NewNop(), nil)
	return store, client
}

// fakeClient is an in-memory stand-in for the DynamoDB client. It stores raw
// attribute maps keyed by partition/sort key, understands the narrow set of
// expressions this layer generates, and counts calls so tests can assert on
// chunking behavior.
type fakeClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	getCalls        int
	queryCalls      int
	putCalls        int
	deleteCalls     int
	updateCalls     int
	batchGetCalls   int
	batchWriteCalls int
	transactCalls   int
	batchSizes      []int

	failTransact   error
	failBatchWrite error
	failQuery      error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(item map[string]types.AttributeValue) string {
	pk, _ := item[attrPartitionKey].(*types.AttributeValueMemberS)
	sk, _ := item[attrSortKey].(*types.AttributeValueMemberS)
	return pk.Value + "|" + sk.Value
}

func (f *fakeClient) seed(item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itemKey(item)] = item
}

func (f *fakeClient) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *fakeClient) get(pk, sk string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[pk+"|"+sk]
}

func (f *fakeClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(params.Key)]}, nil
}

func (f *fakeClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	f.items[itemKey(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	delete(f.items, itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

var counterUpdateRe = regexp.MustCompile(`SET (#\w+) = if_not_exists ?\((#\w+), (:\w+)\) \+ (:\w+)`)

func (f *fakeClient) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	m := counterUpdateRe.FindStringSubmatch(*params.UpdateExpression)
	if m == nil {
		return nil, fmt.Errorf("fake: unsupported update expression %q", *params.UpdateExpression)
	}
	attr := params.ExpressionAttributeNames[m[1]]
	initial := numericValue(params.ExpressionAttributeValues[m[3]])
	delta := numericValue(params.ExpressionAttributeValues[m[4]])

	key := itemKey(params.Key)
	item, ok := f.items[key]
	if !ok {
		item = map[string]types.AttributeValue{}
		for k, v := range params.Key {
			item[k] = v
		}
		f.items[key] = item
	}
	current := initial
	if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
		current, _ = strconv.ParseInt(n.Value, 10, 64)
	}
	item[attr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
	return &dynamodb.UpdateItemOutput{}, nil
}

func numericValue(v types.AttributeValue) int64 {
	if n, ok := v.(*types.AttributeValueMemberN); ok {
		parsed, _ := strconv.ParseInt(n.Value, 10, 64)
		return parsed
	}
	return 0
}

var (
	keyEqRe     = regexp.MustCompile(`(#\w+) = (:\w+)`)
	beginsRe    = regexp.MustCompile(`begins_with ?\((#\w+), (:\w+)\)`)
	stringValue = func(v types.AttributeValue) string {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			return s.Value
		}
		return ""
	}
)

// keyCondition is the parsed form of the key conditions this layer builds:
// one partition equality plus an optional sort begins_with.
type keyCondition struct {
	eqAttr, eqValue         string
	beginsAttr, beginsValue string
}

func parseKeyCondition(params *dynamodb.QueryInput) (keyCondition, error) {
	cond := keyCondition{}
	expr := *params.KeyConditionExpression

	begins := beginsRe.FindStringSubmatch(expr)
	if begins != nil {
		cond.beginsAttr = params.ExpressionAttributeNames[begins[1]]
		cond.beginsValue = stringValue(params.ExpressionAttributeValues[begins[2]])
		expr = beginsRe.ReplaceAllString(expr, "")
	}
	eq := keyEqRe.FindStringSubmatch(expr)
	if eq == nil {
		return cond, fmt.Errorf("fake: unsupported key condition %q", *params.KeyConditionExpression)
	}
	cond.eqAttr = params.ExpressionAttributeNames[eq[1]]
	cond.eqValue = stringValue(params.ExpressionAttributeValues[eq[2]])
	return cond, nil
}

func (c keyCondition) matches(item map[string]types.AttributeValue) bool {
	if stringValue(item[c.eqAttr]) != c.eqValue {
		return false
	}
	if c.beginsAttr == "" {
		return true
	}
	return strings.HasPrefix(stringValue(item[c.beginsAttr]), c.beginsValue)
}

func (f *fakeClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.failQuery != nil {
		return nil, f.failQuery
	}

	cond, err := parseKeyCondition(params)
	if err != nil {
		return nil, err
	}
	onIndex := params.IndexName != nil

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if onIndex && item[attrGSI1PK] == nil {
			continue
		}
		if cond.matches(item) {
			matched = append(matched, item)
		}
	}

	// Index queries order by the numeric sort attribute, main-table queries
	// by sort key.
	sort.Slice(matched, func(i, j int) bool {
		if onIndex {
			a, b := numericValue(matched[i][attrStartTS]), numericValue(matched[j][attrStartTS])
			if a != b {
				return a < b
			}
		}
		return itemKey(matched[i]) < itemKey(matched[j])
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := 0
	if params.ExclusiveStartKey != nil {
		resume := itemKey(params.ExclusiveStartKey)
		for i, item := range matched {
			if itemKey(item) == resume {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	output := &dynamodb.QueryOutput{}
	limit := len(matched)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}
	// As in DynamoDB, the filter runs after the page is cut by Limit.
	page := matched[:limit]
	if params.FilterExpression != nil {
		eq := keyEqRe.FindStringSubmatch(*params.FilterExpression)
		if eq == nil {
			return nil, fmt.Errorf("fake: unsupported filter expression %q", *params.FilterExpression)
		}
		attr := params.ExpressionAttributeNames[eq[1]]
		want := stringValue(params.ExpressionAttributeValues[eq[2]])
		var kept []map[string]types.AttributeValue
		for _, item := range page {
			if stringValue(item[attr]) == want {
				kept = append(kept, item)
			}
		}
		page = kept
	}
	output.Items = page
	if limit < len(matched) {
		last := matched[limit-1]
		lek := map[string]types.AttributeValue{
			attrPartitionKey: last[attrPartitionKey],
			attrSortKey:      last[attrSortKey],
		}
		if onIndex {
			lek[attrGSI1PK] = last[attrGSI1PK]
			lek[attrStartTS] = last[attrStartTS]
		}
		output.LastEvaluatedKey = lek
	}
	return output, nil
}

func (f *fakeClient) BatchGetItem(_ context.Context, params *dynamodb.BatchGetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchGetCalls++

	output := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]types.AttributeValue{}}
	for table, kaa := range params.RequestItems {
		for _, key := range kaa.Keys {
			if item, ok := f.items[itemKey(key)]; ok {
				output.Responses[table] = append(output.Responses[table], item)
			}
		}
	}
	return output, nil
}

func (f *fakeClient) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchWriteCalls++
	if f.failBatchWrite != nil {
		return nil, f.failBatchWrite
	}

	for _, requests := range params.RequestItems {
		f.batchSizes = append(f.batchSizes, len(requests))
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				f.items[itemKey(req.PutRequest.Item)] = req.PutRequest.Item
			case req.DeleteRequest != nil:
				delete(f.items, itemKey(req.DeleteRequest.Key))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeClient) TransactWriteItems(_ context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactCalls++
	if f.failTransact != nil {
		return nil, f.failTransact
	}

	for _, item := range params.TransactItems {
		switch {
		case item.Put != nil:
			f.items[itemKey(item.Put.Item)] = item.Put.Item
		case item.Delete != nil:
			delete(f.items, itemKey(item.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
