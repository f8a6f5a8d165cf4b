// Package dynamodb implements the application's data-access layer on a
// single DynamoDB table shared by every entity family.
//
// The layer is assembled bottom-up: the key factory builds and validates
// structured keys, the item codec maps raw items to typed records, the
// executor runs key-condition queries, and the writer groups writes into
// transactions or size-limited batches. Entity repositories compose those
// pieces into CRUD and domain-specific operations.
package dynamodb

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/pkg/observability"
)

// DynamoDBAPI is the slice of the DynamoDB client this layer uses. Narrowing
// the dependency keeps repositories testable against an in-memory fake.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store bundles the shared pieces every repository needs: the client, the
// table and index names, the query executor and the write orchestrator.
// All configuration is passed in explicitly, never read from globals.
type Store struct {
	client        DynamoDBAPI
	tableName     string
	gsi1IndexName string
	logger        *zap.Logger
	executor      *Executor
	writer        *Writer
}

// NewStore creates the shared store handle. A nil tracker disables
// instrumentation.
func NewStore(client DynamoDBAPI, tableName, gsi1IndexName string, logger *zap.Logger, tracker observability.Tracker) *Store {
	if tracker == nil {
		tracker = observability.NopTracker{}
	}
	return &Store{
		client:        client,
		tableName:     tableName,
		gsi1IndexName: gsi1IndexName,
		logger:        logger,
		executor:      NewExecutor(client, tableName, logger, tracker),
		writer:        NewWriter(client, tableName, logger, tracker),
	}
}

// StringAttr creates a DynamoDB string attribute value.
func StringAttr(value string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: value}
}

// NumberAttr creates a DynamoDB number attribute value.
func NumberAttr(value int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(value, 10)}
}

// TableKey builds the main-table key map for a partition/sort key pair.
func TableKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPartitionKey: StringAttr(pk),
		attrSortKey:      StringAttr(sk),
	}
}

// extractString reads a string attribute, returning "" when absent.
func extractString(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
