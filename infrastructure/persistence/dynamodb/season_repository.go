package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// SeasonRepository manages numeric-keyed seasons.
type SeasonRepository struct {
	store *Store
}

// NewSeasonRepository creates a season repository backed by the shared store.
func NewSeasonRepository(store *Store) *SeasonRepository {
	return &SeasonRepository{store: store}
}

// Save writes the season record.
func (r *SeasonRepository) Save(ctx context.Context, s *record.Season) error {
	pk, err := SeasonPK(s.SeasonNumber)
	if err != nil {
		return err
	}
	s.PartitionKey = pk
	s.SortKey = MetadataSK
	s.Touch()
	return r.store.writer.PutRecord(ctx, "save season", s)
}

// FindByNumber fetches one season.
func (r *SeasonRepository) FindByNumber(ctx context.Context, seasonNumber int) (*record.Season, error) {
	const op = "find season by number"

	pk, err := SeasonPK(seasonNumber)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, MetadataSK))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("season", strconv.Itoa(seasonNumber))
	}
	s, ok := rec.(*record.Season)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return s, nil
}

// Delete removes one season.
func (r *SeasonRepository) Delete(ctx context.Context, seasonNumber int) error {
	pk, err := SeasonPK(seasonNumber)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "delete season", TableKey(pk, MetadataSK))
}
