package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// SeriesRepository manages event series and their per-group pointers.
type SeriesRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewSeriesRepository creates a series repository backed by the shared store.
func NewSeriesRepository(store *Store) *SeriesRepository {
	return &SeriesRepository{store: store, logger: store.logger}
}

// Save writes the series metadata record.
func (r *SeriesRepository) Save(ctx context.Context, s *record.EventSeries) error {
	if err := r.assignSeriesKeys(s); err != nil {
		return err
	}
	s.Touch()
	return r.store.writer.PutRecord(ctx, "save event series", s)
}

// FindByID fetches a series metadata record.
func (r *SeriesRepository) FindByID(ctx context.Context, seriesID string) (*record.EventSeries, error) {
	const op = "find event series by id"

	pk, err := SeriesPK(seriesID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, MetadataSK))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("event series", seriesID)
	}
	s, ok := rec.(*record.EventSeries)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return s, nil
}

// CreateWithPointers writes the series and one pointer per associated group
// as a single transaction.
func (r *SeriesRepository) CreateWithPointers(ctx context.Context, s *record.EventSeries) error {
	const op = "create series with pointers"

	if err := r.assignSeriesKeys(s); err != nil {
		return err
	}

	items := make([]types.TransactWriteItem, 0, 1+len(s.AssociatedGroups))
	put, err := r.store.writer.TransactPut(s)
	if err != nil {
		return err
	}
	items = append(items, put)

	for _, groupID := range s.AssociatedGroups {
		pointer := record.NewSeriesPointer(s, groupID)
		if err := r.assignPointerKeys(pointer); err != nil {
			return err
		}
		put, err := r.store.writer.TransactPut(pointer)
		if err != nil {
			return err
		}
		items = append(items, put)
	}

	r.logger.Info("creating event series",
		zap.String("seriesId", s.SeriesID),
		zap.Int("groups", len(s.AssociatedGroups)),
	)
	return r.store.writer.TransactWrite(ctx, op, items)
}

// PropagateChanges rewrites the denormalized title, start time and hangout
// list onto the series pointer in every associated group.
func (r *SeriesRepository) PropagateChanges(ctx context.Context, s *record.EventSeries) error {
	const op = "propagate series changes"

	requests := make([]types.WriteRequest, 0, len(s.AssociatedGroups))
	for _, groupID := range s.AssociatedGroups {
		pointer := record.NewSeriesPointer(s, groupID)
		if err := r.assignPointerKeys(pointer); err != nil {
			return err
		}
		req, err := PutRequest(pointer)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}
	return r.store.writer.BatchWrite(ctx, op, requests)
}

// Delete removes the series metadata and its pointer in every associated
// group. The metadata record is read first to learn the groups.
func (r *SeriesRepository) Delete(ctx context.Context, seriesID string) error {
	const op = "delete event series"

	s, err := r.FindByID(ctx, seriesID)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, 1+len(s.AssociatedGroups))
	requests = append(requests, DeleteRequest(TableKey(s.PartitionKey, s.SortKey)))
	for _, groupID := range s.AssociatedGroups {
		groupPK, err := GroupPK(groupID)
		if err != nil {
			return err
		}
		pointerSK, err := SeriesPointerSK(seriesID)
		if err != nil {
			return err
		}
		requests = append(requests, DeleteRequest(TableKey(groupPK, pointerSK)))
	}
	return r.store.writer.BatchWrite(ctx, op, requests)
}

func (r *SeriesRepository) assignSeriesKeys(s *record.EventSeries) error {
	pk, err := SeriesPK(s.SeriesID)
	if err != nil {
		return err
	}
	s.PartitionKey = pk
	s.SortKey = MetadataSK
	return nil
}

func (r *SeriesRepository) assignPointerKeys(p *record.SeriesPointer) error {
	pk, err := GroupPK(p.GroupID)
	if err != nil {
		return err
	}
	sk, err := SeriesPointerSK(p.SeriesID)
	if err != nil {
		return err
	}
	gsiPK, err := GroupGSI1PK(p.GroupID)
	if err != nil {
		return err
	}
	p.PartitionKey = pk
	p.SortKey = sk
	p.GSI1PK = gsiPK
	return nil
}
