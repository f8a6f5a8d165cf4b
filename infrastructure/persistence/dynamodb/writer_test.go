package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hangout-backend/pkg/errors"
)

func TestBatchWriteChunking(t *testing.T) {
	store, client := newTestStore()
	ctx := context.Background()

	var requests []types.WriteRequest
	for i := 0; i < 60; i++ {
		requests = append(requests, DeleteRequest(TableKey("GROUP#g", fmt.Sprintf("USER#%03d", i))))
	}

	require.NoError(t, store.writer.BatchWrite(ctx, "test", requests))
	assert.Equal(t, 3, client.batchWriteCalls)
	assert.Equal(t, []int{25, 25, 10}, client.batchSizes)
}

func TestBatchWriteEmptyIssuesNoCalls(t *testing.T) {
	store, client := newTestStore()
	require.NoError(t, store.writer.BatchWrite(context.Background(), "test", nil))
	assert.Zero(t, client.batchWriteCalls)
}

func TestBatchWriteFailureAbortsRemainingChunks(t *testing.T) {
	store, client := newTestStore()
	client.failBatchWrite = errors.New("throttled")

	var requests []types.WriteRequest
	for i := 0; i < 30; i++ {
		requests = append(requests, DeleteRequest(TableKey("GROUP#g", fmt.Sprintf("USER#%03d", i))))
	}

	err := store.writer.BatchWrite(context.Background(), "test", requests)
	require.True(t, apperrors.IsRepository(err))
	assert.Equal(t, 1, client.batchWriteCalls)
}

func TestTransactWriteEmptyIssuesNoCalls(t *testing.T) {
	store, client := newTestStore()
	require.NoError(t, store.writer.TransactWrite(context.Background(), "test", nil))
	assert.Zero(t, client.transactCalls)
}

func TestAddToCounter(t *testing.T) {
	store, client := newTestStore()
	ctx := context.Background()
	key := TableKey("GROUP#g", "HANGOUT#h")

	t.Run("initializes absent attribute to zero before adding", func(t *testing.T) {
		require.NoError(t, store.writer.AddToCounter(ctx, "test", key, participantCountAttr, 3))
		item := client.get("GROUP#g", "HANGOUT#h")
		require.NotNil(t, item)
		assert.Equal(t, int64(3), numericValue(item[participantCountAttr]))
	})

	t.Run("accumulates positive and negative deltas", func(t *testing.T) {
		require.NoError(t, store.writer.AddToCounter(ctx, "test", key, participantCountAttr, 2))
		require.NoError(t, store.writer.AddToCounter(ctx, "test", key, participantCountAttr, -4))
		item := client.get("GROUP#g", "HANGOUT#h")
		assert.Equal(t, int64(1), numericValue(item[participantCountAttr]))
	})

	t.Run("zero delta issues no call", func(t *testing.T) {
		calls := client.updateCalls
		require.NoError(t, store.writer.AddToCounter(ctx, "test", key, participantCountAttr, 0))
		assert.Equal(t, calls, client.updateCalls)
	})
}
