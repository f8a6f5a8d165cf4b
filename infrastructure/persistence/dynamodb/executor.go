package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
	"hangout-backend/pkg/observability"
)

// Executor runs key-condition queries against the main table or a named
// secondary index and decodes the results. It owns no retry or timeout
// logic; that is the store client's concern.
type Executor struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
	tracker   observability.Tracker
}

// NewExecutor creates a query executor for the given table.
func NewExecutor(client DynamoDBAPI, tableName string, logger *zap.Logger, tracker observability.Tracker) *Executor {
	if tracker == nil {
		tracker = observability.NopTracker{}
	}
	return &Executor{client: client, tableName: tableName, logger: logger, tracker: tracker}
}

// QuerySpec describes one key-condition query.
type QuerySpec struct {
	IndexName         string // "" targets the main table
	KeyCondition      expression.KeyConditionBuilder
	Filter            *expression.ConditionBuilder
	Limit             int32 // 0 means no explicit limit
	Descending        bool
	ExclusiveStartKey map[string]types.AttributeValue
}

// QueryResult is one page of decoded records.
type QueryResult struct {
	Records          []record.Record
	LastEvaluatedKey map[string]types.AttributeValue
	HasMore          bool
}

// Query executes a single query page. Records that fail to decode are
// dropped from the result and logged; resilience over completeness.
func (e *Executor) Query(ctx context.Context, op string, spec QuerySpec) (*QueryResult, error) {
	builder := expression.NewBuilder().WithKeyCondition(spec.KeyCondition)
	if spec.Filter != nil {
		builder = builder.WithFilter(*spec.Filter)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, apperrors.NewRepository(op, err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(e.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!spec.Descending),
	}
	if spec.IndexName != "" {
		input.IndexName = aws.String(spec.IndexName)
	}
	if spec.Filter != nil {
		input.FilterExpression = expr.Filter()
	}
	if spec.Limit > 0 {
		input.Limit = aws.Int32(spec.Limit)
	}
	if spec.ExclusiveStartKey != nil {
		input.ExclusiveStartKey = spec.ExclusiveStartKey
	}

	var output *dynamodb.QueryOutput
	err = e.tracker.Track(ctx, op, spec.IndexName, func(ctx context.Context) error {
		var qerr error
		output, qerr = e.client.Query(ctx, input)
		return qerr
	})
	if err != nil {
		return nil, apperrors.NewRepository(op, err)
	}

	result := &QueryResult{
		LastEvaluatedKey: output.LastEvaluatedKey,
		HasMore:          len(output.LastEvaluatedKey) > 0,
	}
	for _, item := range output.Items {
		rec, derr := DecodeRecord(item)
		if derr != nil {
			e.logger.Warn("dropping undecodable record",
				zap.String("operation", op),
				zap.String("partitionKey", extractString(item, attrPartitionKey)),
				zap.String("sortKey", extractString(item, attrSortKey)),
				zap.Error(derr),
			)
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// QueryAll follows continuation keys until the query is exhausted.
func (e *Executor) QueryAll(ctx context.Context, op string, spec QuerySpec) ([]record.Record, error) {
	var all []record.Record
	for {
		page, err := e.Query(ctx, op, spec)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if !page.HasMore {
			return all, nil
		}
		spec.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

// QueryKeys collects the main-table keys of every item the query matches,
// without decoding. Cascade deletes use this so records that no longer
// decode still get removed.
func (e *Executor) QueryKeys(ctx context.Context, op string, spec QuerySpec) ([]map[string]types.AttributeValue, error) {
	var keys []map[string]types.AttributeValue
	for {
		builder := expression.NewBuilder().WithKeyCondition(spec.KeyCondition)
		expr, err := builder.Build()
		if err != nil {
			return nil, apperrors.NewRepository(op, err)
		}

		input := &dynamodb.QueryInput{
			TableName:                 aws.String(e.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		}
		if spec.ExclusiveStartKey != nil {
			input.ExclusiveStartKey = spec.ExclusiveStartKey
		}

		var output *dynamodb.QueryOutput
		err = e.tracker.Track(ctx, op, "", func(ctx context.Context) error {
			var qerr error
			output, qerr = e.client.Query(ctx, input)
			return qerr
		})
		if err != nil {
			return nil, apperrors.NewRepository(op, err)
		}

		for _, item := range output.Items {
			keys = append(keys, TableKey(
				extractString(item, attrPartitionKey),
				extractString(item, attrSortKey),
			))
		}
		if len(output.LastEvaluatedKey) == 0 {
			return keys, nil
		}
		spec.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// GetItem fetches and decodes a single record. A missing item returns
// (nil, nil); callers decide whether absence is an error.
func (e *Executor) GetItem(ctx context.Context, op string, key map[string]types.AttributeValue) (record.Record, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(e.tableName),
		Key:       key,
	}

	var output *dynamodb.GetItemOutput
	err := e.tracker.Track(ctx, op, "", func(ctx context.Context) error {
		var gerr error
		output, gerr = e.client.GetItem(ctx, input)
		return gerr
	})
	if err != nil {
		return nil, apperrors.NewRepository(op, err)
	}
	if output.Item == nil {
		return nil, nil
	}
	return DecodeRecord(output.Item)
}

// BatchGet fetches up to 100 keys per request, sequentially. Unprocessed
// keys are logged and dropped from the result; this layer does not retry.
func (e *Executor) BatchGet(ctx context.Context, op string, keys []map[string]types.AttributeValue) ([]record.Record, error) {
	const maxBatchGetKeys = 100

	var all []record.Record
	for start := 0; start < len(keys); start += maxBatchGetKeys {
		end := start + maxBatchGetKeys
		if end > len(keys) {
			end = len(keys)
		}

		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				e.tableName: {Keys: keys[start:end]},
			},
		}

		var output *dynamodb.BatchGetItemOutput
		err := e.tracker.Track(ctx, op, "", func(ctx context.Context) error {
			var berr error
			output, berr = e.client.BatchGetItem(ctx, input)
			return berr
		})
		if err != nil {
			return nil, apperrors.NewRepository(op, err)
		}

		for _, item := range output.Responses[e.tableName] {
			rec, derr := DecodeRecord(item)
			if derr != nil {
				e.logger.Warn("dropping undecodable record", zap.String("operation", op), zap.Error(derr))
				continue
			}
			all = append(all, rec)
		}
		if unprocessed := output.UnprocessedKeys[e.tableName].Keys; len(unprocessed) > 0 {
			e.logger.Warn("batch get returned unprocessed keys",
				zap.String("operation", op),
				zap.Int("count", len(unprocessed)),
			)
		}
	}
	return all, nil
}
