package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// participantCountAttr is the counter attribute on hangout pointers.
const participantCountAttr = "participantCount"

// HangoutDetail is the assembled view of a hangout's item collection: the
// metadata root plus every related record, bucketed by type.
type HangoutDetail struct {
	Hangout        *record.Hangout
	Polls          []*record.Poll
	PollOptions    []*record.PollOption
	Votes          []*record.Vote
	Cars           []*record.Car
	CarRiders      []*record.CarRider
	NeedsRide      []*record.NeedsRide
	InterestLevels []*record.InterestLevel
	Attributes     []*record.HangoutAttribute
	Participations []*record.Participation
	Offers         []*record.ReservationOffer
}

// HangoutRepository manages a hangout's item collection and the denormalized
// pointers projected into each associated group.
type HangoutRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewHangoutRepository creates a hangout repository backed by the shared store.
func NewHangoutRepository(store *Store) *HangoutRepository {
	return &HangoutRepository{store: store, logger: store.logger}
}

// Save writes the hangout's metadata record.
func (r *HangoutRepository) Save(ctx context.Context, h *record.Hangout) error {
	if err := r.assignHangoutKeys(h); err != nil {
		return err
	}
	h.Touch()
	return r.store.writer.PutRecord(ctx, "save hangout", h)
}

// FindByID fetches a hangout's metadata record.
func (r *HangoutRepository) FindByID(ctx context.Context, hangoutID string) (*record.Hangout, error) {
	const op = "find hangout by id"

	pk, err := EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, MetadataSK))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("hangout", hangoutID)
	}
	h, ok := rec.(*record.Hangout)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return h, nil
}

// FindDetail queries the hangout's whole partition and assembles the typed
// detail view. Related records that fail to decode are dropped by the
// executor; a missing metadata root fails the whole read.
func (r *HangoutRepository) FindDetail(ctx context.Context, hangoutID string) (*HangoutDetail, error) {
	const op = "find hangout detail"

	pk, err := EventPK(hangoutID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)),
	})
	if err != nil {
		return nil, err
	}

	detail := &HangoutDetail{}
	for _, rec := range records {
		switch v := rec.(type) {
		case *record.Hangout:
			detail.Hangout = v
		case *record.Poll:
			detail.Polls = append(detail.Polls, v)
		case *record.PollOption:
			detail.PollOptions = append(detail.PollOptions, v)
		case *record.Vote:
			detail.Votes = append(detail.Votes, v)
		case *record.Car:
			detail.Cars = append(detail.Cars, v)
		case *record.CarRider:
			detail.CarRiders = append(detail.CarRiders, v)
		case *record.NeedsRide:
			detail.NeedsRide = append(detail.NeedsRide, v)
		case *record.InterestLevel:
			detail.InterestLevels = append(detail.InterestLevels, v)
		case *record.HangoutAttribute:
			detail.Attributes = append(detail.Attributes, v)
		case *record.Participation:
			detail.Participations = append(detail.Participations, v)
		case *record.ReservationOffer:
			detail.Offers = append(detail.Offers, v)
		default:
			r.logger.Warn("ignoring unexpected record in hangout partition",
				zap.String("hangoutId", hangoutID),
				zap.String("itemType", rec.Base().ItemType),
			)
		}
	}
	if detail.Hangout == nil {
		return nil, apperrors.NewNotFound("hangout", hangoutID)
	}
	return detail, nil
}

// CreateWithRelated writes the hangout, one pointer per associated group, and
// any initial attributes, polls and options as a single transaction. A failed
// transaction leaves no partial collection behind.
func (r *HangoutRepository) CreateWithRelated(ctx context.Context, h *record.Hangout, attributes []*record.HangoutAttribute, polls []*record.Poll, options []*record.PollOption) error {
	const op = "create hangout with related"

	if err := r.assignHangoutKeys(h); err != nil {
		return err
	}

	items := make([]types.TransactWriteItem, 0, 1+len(h.AssociatedGroups)+len(attributes)+len(polls)+len(options))
	put, err := r.store.writer.TransactPut(h)
	if err != nil {
		return err
	}
	items = append(items, put)

	for _, groupID := range h.AssociatedGroups {
		pointer := record.NewHangoutPointer(h, groupID)
		if err := r.assignPointerKeys(pointer); err != nil {
			return err
		}
		put, err := r.store.writer.TransactPut(pointer)
		if err != nil {
			return err
		}
		items = append(items, put)
	}
	for _, a := range attributes {
		if err := r.assignAttributeKeys(a); err != nil {
			return err
		}
		put, err := r.store.writer.TransactPut(a)
		if err != nil {
			return err
		}
		items = append(items, put)
	}
	for _, p := range polls {
		if err := r.assignPollKeys(p); err != nil {
			return err
		}
		put, err := r.store.writer.TransactPut(p)
		if err != nil {
			return err
		}
		items = append(items, put)
	}
	for _, o := range options {
		if err := r.assignPollOptionKeys(o); err != nil {
			return err
		}
		put, err := r.store.writer.TransactPut(o)
		if err != nil {
			return err
		}
		items = append(items, put)
	}

	r.logger.Info("creating hangout",
		zap.String("hangoutId", h.HangoutID),
		zap.Int("groups", len(h.AssociatedGroups)),
		zap.Int("records", len(items)),
	)
	return r.store.writer.TransactWrite(ctx, op, items)
}

// UpcomingForGroup pages through a group's hangout pointers in start-time
// order via the EntityTimeIndex. The returned token resumes exactly where
// this page stopped.
func (r *HangoutRepository) UpcomingForGroup(ctx context.Context, groupID string, page PageRequest) (*Page[*record.HangoutPointer], error) {
	const op = "upcoming hangouts for group"

	gsiPK, err := GroupGSI1PK(groupID)
	if err != nil {
		return nil, err
	}
	startKey, err := DecodePageToken(page.NextToken)
	if err != nil {
		return nil, err
	}

	// Series pointers share the group's index partition; keep them out.
	filter := expression.Name(attrItemType).Equal(expression.Value(record.TypeHangoutPointer))
	result, err := r.store.executor.Query(ctx, op, QuerySpec{
		IndexName:         r.store.gsi1IndexName,
		KeyCondition:      expression.Key(attrGSI1PK).Equal(expression.Value(gsiPK)),
		Filter:            &filter,
		Limit:             int32(page.GetEffectiveLimit()),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, err
	}

	out := &Page[*record.HangoutPointer]{
		NextToken: EncodePageToken(result.LastEvaluatedKey),
		HasMore:   result.HasMore,
	}
	for _, rec := range result.Records {
		if p, ok := rec.(*record.HangoutPointer); ok {
			out.Items = append(out.Items, p)
		}
	}
	return out, nil
}

// PropagateChanges rewrites the denormalized title and start time onto the
// hangout's pointer in every associated group, in chunks of 25.
func (r *HangoutRepository) PropagateChanges(ctx context.Context, h *record.Hangout) error {
	const op = "propagate hangout changes"

	keys := make([]map[string]types.AttributeValue, 0, len(h.AssociatedGroups))
	for _, groupID := range h.AssociatedGroups {
		pk, err := GroupPK(groupID)
		if err != nil {
			return err
		}
		sk, err := HangoutPointerSK(h.HangoutID)
		if err != nil {
			return err
		}
		keys = append(keys, TableKey(pk, sk))
	}

	// Existing pointers carry participant counts the hangout record does
	// not know, so read them back rather than rebuilding from scratch.
	records, err := r.store.executor.BatchGet(ctx, op, keys)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(records))
	for _, rec := range records {
		pointer, ok := rec.(*record.HangoutPointer)
		if !ok {
			continue
		}
		pointer.Title = h.Title
		pointer.StartTimestamp = h.StartTimestamp
		pointer.Touch()
		req, err := PutRequest(pointer)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}
	return r.store.writer.BatchWrite(ctx, op, requests)
}

// AdjustParticipantCount atomically shifts the participant counter on one
// group's pointer. A zero delta is a no-op.
func (r *HangoutRepository) AdjustParticipantCount(ctx context.Context, groupID, hangoutID string, delta int) error {
	pk, err := GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := HangoutPointerSK(hangoutID)
	if err != nil {
		return err
	}
	return r.store.writer.AddToCounter(ctx, "adjust participant count", TableKey(pk, sk), participantCountAttr, delta)
}

// SavePoll writes one poll record.
func (r *HangoutRepository) SavePoll(ctx context.Context, p *record.Poll) error {
	if err := r.assignPollKeys(p); err != nil {
		return err
	}
	p.Touch()
	return r.store.writer.PutRecord(ctx, "save poll", p)
}

// SavePollOption writes one poll option record.
func (r *HangoutRepository) SavePollOption(ctx context.Context, o *record.PollOption) error {
	if err := r.assignPollOptionKeys(o); err != nil {
		return err
	}
	o.Touch()
	return r.store.writer.PutRecord(ctx, "save poll option", o)
}

// SaveVote writes one vote record. The composite sort key makes a user's
// vote per option idempotent.
func (r *HangoutRepository) SaveVote(ctx context.Context, v *record.Vote) error {
	pk, err := EventPK(v.HangoutID)
	if err != nil {
		return err
	}
	sk, err := VoteSK(v.PollID, v.UserID, v.OptionID)
	if err != nil {
		return err
	}
	v.PartitionKey = pk
	v.SortKey = sk
	v.Touch()
	return r.store.writer.PutRecord(ctx, "save vote", v)
}

// DeleteVote removes one user's vote on one option.
func (r *HangoutRepository) DeleteVote(ctx context.Context, hangoutID, pollID, userID, optionID string) error {
	pk, err := EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := VoteSK(pollID, userID, optionID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "delete vote", TableKey(pk, sk))
}

// SaveCar writes one carpool offer.
func (r *HangoutRepository) SaveCar(ctx context.Context, c *record.Car) error {
	pk, err := EventPK(c.HangoutID)
	if err != nil {
		return err
	}
	sk, err := CarSK(c.DriverID)
	if err != nil {
		return err
	}
	c.PartitionKey = pk
	c.SortKey = sk
	c.Touch()
	return r.store.writer.PutRecord(ctx, "save car", c)
}

// SaveCarRider writes one claimed seat.
func (r *HangoutRepository) SaveCarRider(ctx context.Context, cr *record.CarRider) error {
	pk, err := EventPK(cr.HangoutID)
	if err != nil {
		return err
	}
	sk, err := CarRiderSK(cr.DriverID, cr.RiderID)
	if err != nil {
		return err
	}
	cr.PartitionKey = pk
	cr.SortKey = sk
	cr.Touch()
	return r.store.writer.PutRecord(ctx, "save car rider", cr)
}

// RemoveCarRider releases a claimed seat.
func (r *HangoutRepository) RemoveCarRider(ctx context.Context, hangoutID, driverID, riderID string) error {
	pk, err := EventPK(hangoutID)
	if err != nil {
		return err
	}
	sk, err := CarRiderSK(driverID, riderID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "remove car rider", TableKey(pk, sk))
}

// SaveNeedsRide writes one needs-ride flag.
func (r *HangoutRepository) SaveNeedsRide(ctx context.Context, n *record.NeedsRide) error {
	pk, err := EventPK(n.HangoutID)
	if err != nil {
		return err
	}
	sk, err := NeedsRideSK(n.UserID)
	if err != nil {
		return err
	}
	n.PartitionKey = pk
	n.SortKey = sk
	n.Touch()
	return r.store.writer.PutRecord(ctx, "save needs ride", n)
}

// SaveInterestLevel writes one attendance signal.
func (r *HangoutRepository) SaveInterestLevel(ctx context.Context, i *record.InterestLevel) error {
	pk, err := EventPK(i.HangoutID)
	if err != nil {
		return err
	}
	sk, err := AttendanceSK(i.UserID)
	if err != nil {
		return err
	}
	i.PartitionKey = pk
	i.SortKey = sk
	i.Touch()
	return r.store.writer.PutRecord(ctx, "save interest level", i)
}

// SaveAttribute writes one free-form attribute.
func (r *HangoutRepository) SaveAttribute(ctx context.Context, a *record.HangoutAttribute) error {
	if err := r.assignAttributeKeys(a); err != nil {
		return err
	}
	a.Touch()
	return r.store.writer.PutRecord(ctx, "save hangout attribute", a)
}

// Delete removes the hangout's entire partition plus its pointer in every
// associated group. The metadata record is read first to learn the groups.
func (r *HangoutRepository) Delete(ctx context.Context, hangoutID string) error {
	const op = "delete hangout"

	h, err := r.FindByID(ctx, hangoutID)
	if err != nil {
		return err
	}
	pk, err := EventPK(hangoutID)
	if err != nil {
		return err
	}
	keys, err := r.store.executor.QueryKeys(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)),
	})
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(keys)+len(h.AssociatedGroups))
	for _, key := range keys {
		requests = append(requests, DeleteRequest(key))
	}
	for _, groupID := range h.AssociatedGroups {
		groupPK, err := GroupPK(groupID)
		if err != nil {
			return err
		}
		pointerSK, err := HangoutPointerSK(hangoutID)
		if err != nil {
			return err
		}
		requests = append(requests, DeleteRequest(TableKey(groupPK, pointerSK)))
	}
	return r.store.writer.BatchWrite(ctx, op, requests)
}

func (r *HangoutRepository) assignHangoutKeys(h *record.Hangout) error {
	pk, err := EventPK(h.HangoutID)
	if err != nil {
		return err
	}
	h.PartitionKey = pk
	h.SortKey = MetadataSK
	return nil
}

func (r *HangoutRepository) assignPointerKeys(p *record.HangoutPointer) error {
	pk, err := GroupPK(p.GroupID)
	if err != nil {
		return err
	}
	sk, err := HangoutPointerSK(p.HangoutID)
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

func (r *HangoutRepository) assignAttributeKeys(a *record.HangoutAttribute) error {
	pk, err := EventPK(a.HangoutID)
	if err != nil {
		return err
	}
	sk, err := AttributeSK(a.AttributeID)
	if err != nil {
		return err
	}
	a.PartitionKey = pk
	a.SortKey = sk
	return nil
}

func (r *HangoutRepository) assignPollKeys(p *record.Poll) error {
	pk, err := EventPK(p.HangoutID)
	if err != nil {
		return err
	}
	sk, err := PollSK(p.PollID)
	if err != nil {
		return err
	}
	p.PartitionKey = pk
	p.SortKey = sk
	return nil
}

func (r *HangoutRepository) assignPollOptionKeys(o *record.PollOption) error {
	pk, err := EventPK(o.HangoutID)
	if err != nil {
		return err
	}
	sk, err := PollOptionSK(o.PollID, o.OptionID)
	if err != nil {
		return err
	}
	o.PartitionKey = pk
	o.SortKey = sk
	return nil
}
