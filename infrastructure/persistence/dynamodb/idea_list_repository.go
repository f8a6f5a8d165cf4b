package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// IdeaListDetail is an idea list together with its ideas.
type IdeaListDetail struct {
	List    *record.IdeaList
	Members []*record.IdeaListMember
}

// IdeaListRepository manages idea lists stored inside a group's collection.
type IdeaListRepository struct {
	store *Store
}

// NewIdeaListRepository creates an idea list repository backed by the shared
// store.
func NewIdeaListRepository(store *Store) *IdeaListRepository {
	return &IdeaListRepository{store: store}
}

// SaveList writes one idea list root.
func (r *IdeaListRepository) SaveList(ctx context.Context, l *record.IdeaList) error {
	pk, err := GroupPK(l.GroupID)
	if err != nil {
		return err
	}
	sk, err := IdeaListSK(l.ListID)
	if err != nil {
		return err
	}
	l.PartitionKey = pk
	l.SortKey = sk
	l.Touch()
	return r.store.writer.PutRecord(ctx, "save idea list", l)
}

// FindList fetches one idea list root.
func (r *IdeaListRepository) FindList(ctx context.Context, groupID, listID string) (*record.IdeaList, error) {
	const op = "find idea list"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	sk, err := IdeaListSK(listID)
	if err != nil {
		return nil, err
	}
	rec, err := r.store.executor.GetItem(ctx, op, TableKey(pk, sk))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("idea list", listID)
	}
	l, ok := rec.(*record.IdeaList)
	if !ok {
		return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
	}
	return l, nil
}

// FindListsForGroup lists a group's idea lists, roots only.
func (r *IdeaListRepository) FindListsForGroup(ctx context.Context, groupID string) ([]*record.IdeaList, error) {
	const op = "find idea lists for group"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), ideaListSKPrefix)),
	})
	if err != nil {
		return nil, err
	}

	// The sort key prefix matches members too; keep the roots.
	lists := make([]*record.IdeaList, 0, len(records))
	for _, rec := range records {
		if l, ok := rec.(*record.IdeaList); ok {
			lists = append(lists, l)
		}
	}
	return lists, nil
}

// FindListWithMembers fetches one list and its ideas in a single query over
// the shared sort key prefix. A missing root fails the whole read.
func (r *IdeaListRepository) FindListWithMembers(ctx context.Context, groupID, listID string) (*IdeaListDetail, error) {
	const op = "find idea list with members"

	pk, err := GroupPK(groupID)
	if err != nil {
		return nil, err
	}
	sk, err := IdeaListSK(listID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), sk)),
	})
	if err != nil {
		return nil, err
	}

	detail := &IdeaListDetail{}
	for _, rec := range records {
		switch v := rec.(type) {
		case *record.IdeaList:
			detail.List = v
		case *record.IdeaListMember:
			detail.Members = append(detail.Members, v)
		}
	}
	if detail.List == nil {
		return nil, apperrors.NewNotFound("idea list", listID)
	}
	return detail, nil
}

// SaveMember writes one idea.
func (r *IdeaListRepository) SaveMember(ctx context.Context, m *record.IdeaListMember) error {
	pk, err := GroupPK(m.GroupID)
	if err != nil {
		return err
	}
	sk, err := IdeaListMemberSK(m.ListID, m.MemberID)
	if err != nil {
		return err
	}
	m.PartitionKey = pk
	m.SortKey = sk
	m.Touch()
	return r.store.writer.PutRecord(ctx, "save idea list member", m)
}

// RemoveMember deletes one idea from a list.
func (r *IdeaListRepository) RemoveMember(ctx context.Context, groupID, listID, memberID string) error {
	pk, err := GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := IdeaListMemberSK(listID, memberID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "remove idea list member", TableKey(pk, sk))
}

// DeleteList removes the list root and every idea under it in chunked batch
// deletes.
func (r *IdeaListRepository) DeleteList(ctx context.Context, groupID, listID string) error {
	const op = "delete idea list"

	pk, err := GroupPK(groupID)
	if err != nil {
		return err
	}
	sk, err := IdeaListSK(listID)
	if err != nil {
		return err
	}
	keys, err := r.store.executor.QueryKeys(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), sk)),
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
