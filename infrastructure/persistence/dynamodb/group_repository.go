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

// GroupRepository manages a group's item collection: the metadata root, its
// memberships and the denormalized copies memberships carry.
type GroupRepository struct {
	store  *Store
	logger *zap.Logger
}

// NewGroupRepository creates a group repository backed by the shared store.
func NewGroupRepository(store *Store) *GroupRepository {
	return &GroupRepository{store: store, logger: store.logger}
}

// Save writes the group's metadata record.
func (r *GroupRepository) Save(ctx context.Context, group *record.Group) error {
	pk, err := GroupPK(group.GroupID)
	if err != nil {
		return err
	}
	group.PartitionKey = pk
	group.SortKey = MetadataSK
	group.Touch()
	return r.store.writer.PutRecord(ctx, "save group", group)
}

// FindByID fetches a group's metadata record.
func (r *GroupRepository) FindByID(ctx context.Context, groupID string) (*record.Group, error) {
	const op = "find group by id"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, MetadataSK))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("group", groupID)
	}
	group, ok := rec.(*record.Group)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return group, nil
}

// CreateWithFirstMember writes the group and its creator's admin membership
// as one all-or-nothing transaction. A failure leaves neither record behind.
func (r *GroupRepository) CreateWithFirstMember(ctx context.Context, group *record.Group, creatorUserID string) error {
	const op = "create group with first member"

	if err := r.assignGroupKeys(group); err != nil {
		return err
	}
	membership := record.NewGroupMembership(group, creatorUserID, record.RoleAdmin)
	if err := r.assignMembershipKeys(membership); err != nil {
		return err
	}

	groupPut, err := r.store.writer.TransactPut(group)
	if err != nil {
		return err
	}
	memberPut, err := r.store.writer.TransactPut(membership)
	if err != nil {
		return err
	}
	return r.store.writer.TransactWrite(ctx, op, []types.TransactWriteItem{groupPut, memberPut})
}

// SaveMembership writes one membership record with its user-side index
// attributes assigned.
func (r *GroupRepository) SaveMembership(ctx context.Context, membership *record.GroupMembership) error {
	if err := r.assignMembershipKeys(membership); err != nil {
		return err
	}
	membership.Touch()
	return r.store.writer.PutRecord(ctx, "save group membership", membership)
}

// FindMembership fetches one user's membership in a group.
func (r *GroupRepository) FindMembership(ctx context.Context, groupID, userID string) (*record.GroupMembership, error) {
	const op = "find group membership"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	sk, err := MembershipSK(userID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, sk))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("group membership", groupID+"/"+userID)
	}
	membership, ok := rec.(*record.GroupMembership)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return membership, nil
}

// FindMembershipsByGroup lists every membership in a group's collection.
func (r *GroupRepository) FindMembershipsByGroup(ctx context.Context, groupID string) ([]*record.GroupMembership, error) {
	const op = "find memberships by group"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	spec := QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), membershipSKPrefix)),
	}
	records, err := r.store.executor.QueryAll(ctx, op, spec)
	if err != nil {
		return nil, err
	}

	memberships := make([]*record.GroupMembership, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(*record.GroupMembership); ok {
			memberships = append(memberships, m)
		}
	}
	return memberships, nil
}

// FindGroupsByUser lists a user's memberships across all groups via the
// EntityTimeIndex, ordered by join time.
func (r *GroupRepository) FindGroupsByUser(ctx context.Context, userID string) ([]*record.GroupMembership, error) {
	const op = "find groups by user"

	gsiPK, err := UserGSI1PK(userID)
	if err != nil {
		return nil, err
	}
	spec := QuerySpec{
		IndexName:    r.store.gsi1IndexName,
		KeyCondition: expression.Key(attrGSI1PK).Equal(expression.Value(gsiPK)),
	}
	records, err := r.store.executor.QueryAll(ctx, op, spec)
	if err != nil {
		return nil, err
	}

	memberships := make([]*record.GroupMembership, 0, len(records))
	for _, rec := range records {
		if m, ok := rec.(*record.GroupMembership); ok {
			memberships = append(memberships, m)
		}
	}
	return memberships, nil
}

// RemoveMember deletes one user's membership record.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	pk, err := GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := MembershipSK(userID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "remove group member", TableKey(pk, sk))
}

// PropagateGroupChanges rewrites the denormalized group name and background
// image onto every membership in the group. The rewrite goes out in chunks of
// 25; a chunk failure leaves earlier chunks applied.
func (r *GroupRepository) PropagateGroupChanges(ctx context.Context, group *record.Group) error {
	const op = "propagate group changes"

	memberships, err := r.FindMembershipsByGroup(ctx, group.GroupID)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(memberships))
	for _, m := range memberships {
		m.GroupName = group.GroupName
		m.GroupBackgroundImagePath = group.BackgroundImagePath
		m.Touch()
		req, err := PutRequest(m)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}

	r.logger.Info("propagating group changes",
		zap.String("groupId", group.GroupID),
		zap.Int("memberships", len(requests)),
	)
	return r.store.writer.BatchWrite(ctx, op, requests)
}

// Delete removes the group's entire item collection: metadata, memberships,
// pointers and idea lists, in chunked batch deletes.
func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	const op = "delete group"

	pk, err := GroupPK(groupID)
	if err != nil {
		return err
	}
	keys, err := r.store.executor.QueryKeys(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)),
	})
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, DeleteRequest(key))
	}
	return r.store.writer.BatchWrite(ctx, op, requests)
}

func (r *GroupRepository) assignGroupKeys(group *record.Group) error {
	pk, err := GroupPK(group.GroupID)
	if err != nil {
		return err
	}
	group.PartitionKey = pk
	group.SortKey = MetadataSK
	return nil
}

func (r *GroupRepository) assignMembershipKeys(m *record.GroupMembership) error {
	pk, err := GroupPK(m.GroupID)
	if err != nil {
		return err
	}
	sk, err := MembershipSK(m.UserID)
	if err != nil {
		return err
	}
	gsiPK, err := UserGSI1PK(m.UserID)
	if err != nil {
		return err
	}
	m.PartitionKey = pk
	m.SortKey = sk
	m.GSI1PK = gsiPK
	return nil
}
