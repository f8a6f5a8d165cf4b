package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// RefreshTokenRepository manages hashed refresh tokens stored under each
// user's partition, with a hash-keyed index for lookup during rotation.
type RefreshTokenRepository struct {
	store *Store
}

// NewRefreshTokenRepository creates a token repository backed by the shared
// store.
func NewRefreshTokenRepository(store *Store) *RefreshTokenRepository {
	return &RefreshTokenRepository{store: store}
}

// Save writes one token record with its hash-lookup index attributes.
func (r *RefreshTokenRepository) Save(ctx context.Context, t *record.RefreshToken) error {
	pk, err := UserPK(t.UserID)
	if err != nil {
		return err
	}
	sk, err := RefreshTokenSK(t.TokenID)
	if err != nil {
		return err
	}
	gsiPK, err := RefreshTokenGSI1PK(t.TokenHash)
	if err != nil {
		return err
	}
	t.PartitionKey = pk
	t.SortKey = sk
	t.GSI1PK = gsiPK
	t.Touch()
	return r.store.writer.PutRecord(ctx, "save refresh token", t)
}

// FindByHash looks a token up by its hash via the EntityTimeIndex. Token
// rotation uses this to locate the presented token without knowing the user.
func (r *RefreshTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*record.RefreshToken, error) {
	const op = "find refresh token by hash"

	gsiPK, err := RefreshTokenGSI1PK(tokenHash)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		IndexName:    r.store.gsi1IndexName,
		KeyCondition: expression.Key(attrGSI1PK).Equal(expression.Value(gsiPK)),
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if t, ok := rec.(*record.RefreshToken); ok {
			return t, nil
		}
	}
	return nil, apperrors.NewNotFound("refresh token", tokenHash)
}

// FindAllForUser lists every stored token of one user.
func (r *RefreshTokenRepository) FindAllForUser(ctx context.Context, userID string) ([]*record.RefreshToken, error) {
	const op = "find refresh tokens for user"

	pk, err := UserPK(userID)
	if err != nil {
		return nil, err
	}
	records, err := r.store.executor.QueryAll(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), refreshTokenSKPrefix)),
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]*record.RefreshToken, 0, len(records))
	for _, rec := range records {
		t, ok := rec.(*record.RefreshToken)
		if !ok {
			return nil, apperrors.NewRepository(op, fmt.Errorf("unexpected record type %T", rec))
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Delete removes one token, ending that session.
func (r *RefreshTokenRepository) Delete(ctx context.Context, userID, tokenID string) error {
	pk, err := UserPK(userID)
	if err != nil {
		return err
	}
	sk, err := RefreshTokenSK(tokenID)
	if err != nil {
		return err
	}
	return r.store.writer.DeleteItem(ctx, "delete refresh token", TableKey(pk, sk))
}

// DeleteAllForUser removes every token of one user in chunked batch deletes,
// logging every session out at once.
func (r *RefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	const op = "delete all refresh tokens for user"

	pk, err := UserPK(userID)
	if err != nil {
		return err
	}
	keys, err := r.store.executor.QueryKeys(ctx, op, QuerySpec{
		KeyCondition: expression.Key(attrPartitionKey).Equal(expression.Value(pk)).
			And(expression.KeyBeginsWith(expression.Key(attrSortKey), refreshTokenSKPrefix)),
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
