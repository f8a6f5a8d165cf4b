package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "hangout-backend/pkg/errors"
)

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageKey is the resume position of an EntityTimeIndex query: the index
// partition and sort attributes plus the main-table key. It is the exact set
// of attributes DynamoDB needs as an exclusive start key for that index.
type PageKey struct {
	GSI1PK         string `json:"gsi1pk,omitempty"`
	StartTimestamp int64  `json:"startTimestamp,omitempty"`
	PartitionKey   string `json:"partitionKey"`
	SortKey        string `json:"sortKey"`
}

// EncodePageToken converts a query's LastEvaluatedKey into an opaque token.
// A nil or empty key yields "" (no further pages).
func EncodePageToken(lastEvaluatedKey map[string]types.AttributeValue) string {
	if len(lastEvaluatedKey) == 0 {
		return ""
	}

	key := PageKey{
		GSI1PK:       extractString(lastEvaluatedKey, attrGSI1PK),
		PartitionKey: extractString(lastEvaluatedKey, attrPartitionKey),
		SortKey:      extractString(lastEvaluatedKey, attrSortKey),
	}
	if n, ok := lastEvaluatedKey[attrStartTS].(*types.AttributeValueMemberN); ok {
		if v, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			key.StartTimestamp = v
		}
	}

	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// DecodePageToken converts a token back into an exclusive start key.
//
// A blank token means "start from the beginning" and returns a nil key
// without touching the store. A non-empty token that does not decode fails
// with InvalidPaginationTokenError, also before any store call.
func DecodePageToken(token string) (map[string]types.AttributeValue, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.InvalidPaginationTokenError{Cause: err}
	}

	var key PageKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, apperrors.InvalidPaginationTokenError{Cause: err}
	}

	start := map[string]types.AttributeValue{
		attrPartitionKey: StringAttr(key.PartitionKey),
		attrSortKey:      StringAttr(key.SortKey),
	}
	if key.GSI1PK != "" {
		start[attrGSI1PK] = StringAttr(key.GSI1PK)
		start[attrStartTS] = NumberAttr(key.StartTimestamp)
	}
	return start, nil
}

// PageRequest carries the caller's page size and resume token.
type PageRequest struct {
	Limit     int
	NextToken string
}

// GetEffectiveLimit clamps the requested page size into bounds.
func (p PageRequest) GetEffectiveLimit() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		return MaxPageSize
	}
	return p.Limit
}

// Page is one page of typed results plus the token to resume after it.
type Page[T any] struct {
	Items     []T
	NextToken string
	HasMore   bool
}
