package dynamodb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

func TestParticipationRepository(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	repo := NewParticipationRepository(store)

	hangoutID := uuid.New().String()
	userID := uuid.New().String()
	require.NoError(t, repo.Save(ctx, record.NewParticipation(hangoutID, userID, record.ParticipationConfirmed, 2)))
	require.NoError(t, repo.Save(ctx, record.NewParticipation(hangoutID, uuid.New().String(), record.ParticipationWaitlisted, 1)))

	t.Run("finds one participation", func(t *testing.T) {
		p, err := repo.Find(ctx, hangoutID, userID)
		require.NoError(t, err)
		assert.Equal(t, record.ParticipationConfirmed, p.Status)
		assert.Equal(t, 2, p.ReservedSpots)
	})

	t.Run("lists the hangout's participations only", func(t *testing.T) {
		require.NoError(t, repo.SaveOffer(ctx, record.NewReservationOffer(hangoutID, userID, 1, "can't make it")))

		participations, err := repo.FindByHangout(ctx, hangoutID)
		require.NoError(t, err)
		assert.Len(t, participations, 2)
	})

	t.Run("lists offers separately", func(t *testing.T) {
		offers, err := repo.FindOffers(ctx, hangoutID)
		require.NoError(t, err)
		require.Len(t, offers, 1)
		assert.Equal(t, 1, offers[0].OfferedSpots)
	})

	t.Run("delete removes the record", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, hangoutID, userID))
		_, err := repo.Find(ctx, hangoutID, userID)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
