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

// maxBatchWriteItems is the per-request item limit DynamoDB imposes on
// BatchWriteItem.
const maxBatchWriteItems = 25

// Writer groups writes into all-or-nothing transactions or size-limited
// sequential batches, and performs atomic counter updates.
type Writer struct {
	client    DynamoDBAPI
	tableName string
	logger    *zap.Logger
	tracker   observability.Tracker
}

// NewWriter creates a write orchestrator for the given table.
func NewWriter(client DynamoDBAPI, tableName string, logger *zap.Logger, tracker observability.Tracker) *Writer {
	if tracker == nil {
		tracker = observability.NopTracker{}
	}
	return &Writer{client: client, tableName: tableName, logger: logger, tracker: tracker}
}

// PutRecord writes a single record.
func (w *Writer) PutRecord(ctx context.Context, op string, rec record.Record) error {
	item, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(w.tableName),
		Item:      item,
	}
	err = w.tracker.Track(ctx, op, "", func(ctx context.Context) error {
		_, perr := w.client.PutItem(ctx, input)
		return perr
	})
	if err != nil {
		return apperrors.NewRepository(op, err)
	}
	return nil
}

// DeleteItem removes a single record by key.
func (w *Writer) DeleteItem(ctx context.Context, op string, key map[string]types.AttributeValue) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(w.tableName),
		Key:       key,
	}
	err := w.tracker.Track(ctx, op, "", func(ctx context.Context) error {
		_, derr := w.client.DeleteItem(ctx, input)
		return derr
	})
	if err != nil {
		return apperrors.NewRepository(op, err)
	}
	return nil
}

// TransactPut builds a transactional put for a record.
func (w *Writer) TransactPut(rec record.Record) (types.TransactWriteItem, error) {
	item, err := EncodeRecord(rec)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName: aws.String(w.tableName),
			Item:      item,
		},
	}, nil
}

// TransactWrite commits the operations as a single all-or-nothing unit.
// An empty set issues no store call.
func (w *Writer) TransactWrite(ctx context.Context, op string, items []types.TransactWriteItem) error {
	if len(items) == 0 {
		return nil
	}

	input := &dynamodb.TransactWriteItemsInput{TransactItems: items}
	err := w.tracker.Track(ctx, op, "", func(ctx context.Context) error {
		_, terr := w.client.TransactWriteItems(ctx, input)
		return terr
	})
	if err != nil {
		return apperrors.NewRepository(op, err)
	}
	return nil
}

// PutRequest builds a batch put request for a record.
func PutRequest(rec record.Record) (types.WriteRequest, error) {
	item, err := EncodeRecord(rec)
	if err != nil {
		return types.WriteRequest{}, err
	}
	return types.WriteRequest{PutRequest: &types.PutRequest{Item: item}}, nil
}

// DeleteRequest builds a batch delete request for a key.
func DeleteRequest(key map[string]types.AttributeValue) types.WriteRequest {
	return types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}}
}

// BatchWrite submits the requests in sequential chunks of at most 25, each
// chunk an independent, non-transactional commit. A chunk failure aborts the
// remaining chunks but does not undo completed ones; an empty set issues no
// store calls. Unprocessed items are logged and dropped, not retried.
func (w *Writer) BatchWrite(ctx context.Context, op string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchWriteItems {
		end := start + maxBatchWriteItems
		if end > len(requests) {
			end = len(requests)
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				w.tableName: requests[start:end],
			},
		}

		var output *dynamodb.BatchWriteItemOutput
		err := w.tracker.Track(ctx, op, "", func(ctx context.Context) error {
			var berr error
			output, berr = w.client.BatchWriteItem(ctx, input)
			return berr
		})
		if err != nil {
			return apperrors.NewRepository(op, err)
		}
		if unprocessed := output.UnprocessedItems[w.tableName]; len(unprocessed) > 0 {
			w.logger.Warn("batch write returned unprocessed items",
				zap.String("operation", op),
				zap.Int("count", len(unprocessed)),
			)
		}
	}
	return nil
}

// AddToCounter atomically adds delta to a numeric attribute, initializing an
// absent attribute to zero first. A zero delta issues no store call.
func (w *Writer) AddToCounter(ctx context.Context, op string, key map[string]types.AttributeValue, attribute string, delta int) error {
	if delta == 0 {
		return nil
	}

	update := expression.Set(
		expression.Name(attribute),
		expression.Plus(
			expression.IfNotExists(expression.Name(attribute), expression.Value(0)),
			expression.Value(delta),
		),
	)
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return apperrors.NewRepository(op, err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(w.tableName),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	err = w.tracker.Track(ctx, op, "", func(ctx context.Context) error {
		_, uerr := w.client.UpdateItem(ctx, input)
		return uerr
	})
	if err != nil {
		return apperrors.NewRepository(op, err)
	}
	return nil
}
