package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// ParticipationRepository manages committed participation records and
// reservation offers within a hangout's collection.
type ParticipationRepository struct {
	store *Store
}

// NewParticipationRepository creates a participation repository backed by the
// shared store.
func NewParticipationRepository(store *Store) *ParticipationRepository {
	return &ParticipationRepository{store: store}
}

// Save writes one participation record.
func (r *ParticipationRepository) Save(ctx context.Context, p *record.Participation) error {
	pk, err := EventPK(p.HangoutID)
	if err != nil {
		return err
	}
	sk, err := ParticipationSK(p.UserID)
	if err != nil {
		return err
	}
	p.PartitionKey = pk
	p.SortKey = sk
	p.Touch()
	return r.store.writer.PutRecord(ctx, "save participation", p)
}

// Find fetches one user's participation in a hangout.
func (r *ParticipationRepository) Find(ctx context.Context, hangoutID, userID string) (*record.Participation, error) {
	const op = "find participation"

	pk, err := EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	sk, err := ParticipationSK(userID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, sk))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("participation", hangoutID+"/"+userID)
	}
	p, ok := rec.(*record.Participation)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return p, nil
}

// FindByHangout lists every participation record for a hangout.
func (r *ParticipationRepository) FindByHangout(ctx context.Context, hangoutID string) ([]*record.Participation, error) {
	const op = "find participations by hangout"

	pk, err := EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), participationSKPrefix)),
	})
	if err != nil {
		return nil, err
	}

	participations := make([]*record.Participation, 0, len(records))
	for _, rec := range records {
		if p, ok := rec.(*record.Participation); ok {
			participations = append(participations, p)
		}
	}
	return participations, nil
}

// Delete removes one user's participation record.
func (r *ParticipationRepository) Delete(ctx context.Context, hangoutID, userID string) error {
	pk, err := EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := ParticipationSK(userID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "delete participation", TableKey(pk, sk))
}

// SaveOffer writes one reservation offer.
func (r *ParticipationRepository) SaveOffer(ctx context.Context, o *record.ReservationOffer) error {
	pk, err := EventPK(o.HangoutID)
	if err != nil {
		return err
	}
	sk, err := OfferSK(o.UserID)
	if err != nil {
		return err
	}
	o.PartitionKey = pk
	o.SortKey = sk
	o.Touch()
	return r.store.writer.PutRecord(ctx, "save reservation offer", o)
}

// FindOffers lists the open reservation offers for a hangout.
func (r *ParticipationRepository) FindOffers(ctx context.Context, hangoutID string) ([]*record.ReservationOffer, error) {
	const op = "find reservation offers"

	pk, err := EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), offerSKPrefix)),
	})
	if err != nil {
		return nil, err
	}

	offers := make([]*record.ReservationOffer, 0, len(records))
	for _, rec := range records {
		if o, ok := rec.(*record.ReservationOffer); ok {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

// DeleteOffer removes one user's reservation offer.
func (r *ParticipationRepository) DeleteOffer(ctx context.Context, hangoutID, userID string) error {
	pk, err := EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := OfferSK(userID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "delete reservation offer", TableKey(pk, sk))
}
