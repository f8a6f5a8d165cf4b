package dynamodb

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hangout-backend/pkg/errors"
)

func TestKeyFactory(t *testing.T) {
	groupID := uuid.New().String()
	userID := uuid.New().String()
	pollID := uuid.New().String()
	optionID := uuid.New().String()

	t.Run("builds prefixed partition keys", func(t *testing.T) {
		pk, err := GroupPK(groupID)
		require.NoError(t, err)
		assert.Equal(t, "GROUP#"+groupID, pk)

		pk, err = EventPK(userID)
		require.NoError(t, err)
		assert.Equal(t, "EVENT#"+userID, pk)
	})

	t.Run("builds composite sort keys", func(t *testing.T) {
		sk, err := VoteSK(pollID, userID, optionID)
		require.NoError(t, err)
		assert.Equal(t, "POLL#"+pollID+"#VOTE#"+userID+"#OPTION#"+optionID, sk)

		sk, err = PollOptionSK(pollID, optionID)
		require.NoError(t, err)
		assert.Equal(t, "POLL#"+pollID+"#OPTION#"+optionID, sk)
	})

	t.Run("numeric season keys", func(t *testing.T) {
		pk, err := SeasonPK(7)
		require.NoError(t, err)
		assert.Equal(t, "SEASON#7", pk)

		_, err = SeasonPK(0)
		assert.True(t, apperrors.IsInvalidKey(err))
		_, err = SeasonPK(-3)
		assert.True(t, apperrors.IsInvalidKey(err))
	})

	t.Run("rejects empty identifiers", func(t *testing.T) {
		_, err := GroupPK("")
		assert.True(t, apperrors.IsInvalidKey(err))
		_, err = GroupPK("   ")
		assert.True(t, apperrors.IsInvalidKey(err))
	})

	t.Run("rejects malformed identifiers", func(t *testing.T) {
		_, err := GroupPK("not-a-uuid")
		require.True(t, apperrors.IsInvalidKey(err))
		assert.Contains(t, err.Error(), "valid UUID")

		_, err = VoteSK(pollID, "nope", optionID)
		assert.True(t, apperrors.IsInvalidKey(err))
	})

	t.Run("token hash index key rejects only emptiness", func(t *testing.T) {
		pk, err := RefreshTokenGSI1PK("sha256:abcdef")
		require.NoError(t, err)
		assert.Equal(t, "REFRESH_TOKEN#sha256:abcdef", pk)

		_, err = RefreshTokenGSI1PK(" ")
		assert.True(t, apperrors.IsInvalidKey(err))
	})
}
