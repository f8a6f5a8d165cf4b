package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPredicates(t *testing.T) {
	t.Run("invalid key", func(t *testing.T) {
		err := NewInvalidKey("groupId", "must be a valid UUID")
		assert.True(t, IsInvalidKey(err))
		assert.False(t, IsNotFound(err))
		assert.Equal(t, "invalid key for field 'groupId': must be a valid UUID", err.Error())
	})

	t.Run("not found", func(t *testing.T) {
		err := NewNotFound("hangout", "h-1")
		assert.True(t, IsNotFound(err))
		assert.False(t, IsRepository(err))
		assert.Equal(t, "hangout with ID 'h-1' not found", err.Error())
	})

	t.Run("predicates see through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading detail: %w", NewNotFound("group", "g-1"))
		assert.True(t, IsNotFound(err))
	})
}

func TestRepositoryErrorWrapsCause(t *testing.T) {
	cause := stderrors.New("throttled")
	err := NewRepository("save group", cause)

	assert.True(t, IsRepository(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save group failed: throttled", err.Error())
}

func TestCodecErrors(t *testing.T) {
	unknown := UnknownItemTypeError{ItemType: "WIDGET"}
	assert.True(t, IsUnknownItemType(unknown))
	assert.Equal(t, "unknown item type: WIDGET", unknown.Error())

	unrecognized := UnrecognizedRecordError{PartitionKey: "A#1", SortKey: "B#2"}
	assert.True(t, IsUnrecognizedRecord(unrecognized))
	assert.Contains(t, unrecognized.Error(), "pk=A#1 sk=B#2")

	// The two decode failures must stay distinguishable.
	assert.False(t, IsUnrecognizedRecord(unknown))
	assert.False(t, IsUnknownItemType(unrecognized))
}

func TestInvalidPaginationToken(t *testing.T) {
	cause := stderrors.New("illegal base64 data")
	err := InvalidPaginationTokenError{Cause: cause}

	require.True(t, IsInvalidPaginationToken(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invalid pagination token")
}
