package dynamodb

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hangout-backend/pkg/errors"
)

func TestPageTokenRoundTrip(t *testing.T) {
	lek := map[string]types.AttributeValue{
		attrGSI1PK:       StringAttr("GROUP#g1"),
		attrStartTS:      NumberAttr(1757000000),
		attrPartitionKey: StringAttr("GROUP#g1"),
		attrSortKey:      StringAttr("HANGOUT#h1"),
	}

	token := EncodePageToken(lek)
	require.NotEmpty(t, token)

	decoded, err := DecodePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, "GROUP#g1", stringValue(decoded[attrGSI1PK]))
	assert.Equal(t, "HANGOUT#h1", stringValue(decoded[attrSortKey]))
	assert.Equal(t, int64(1757000000), numericValue(decoded[attrStartTS]))
}

func TestPageTokenMainTableKeyOmitsIndexAttributes(t *testing.T) {
	lek := map[string]types.AttributeValue{
		attrPartitionKey: StringAttr("EVENT#e1"),
		attrSortKey:      StringAttr("PARTICIPATION#u1"),
	}

	decoded, err := DecodePageToken(EncodePageToken(lek))
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
	assert.NotContains(t, decoded, attrGSI1PK)
}

func TestEncodePageTokenEmptyKey(t *testing.T) {
	assert.Empty(t, EncodePageToken(nil))
	assert.Empty(t, EncodePageToken(map[string]types.AttributeValue{}))
}

func TestDecodePageTokenBlank(t *testing.T) {
	for _, token := range []string{"", "   ", "\t"} {
		key, err := DecodePageToken(token)
		require.NoError(t, err)
		assert.Nil(t, key)
	}
}

func TestDecodePageTokenInvalid(t *testing.T) {
	t.Run("not base64", func(t *testing.T) {
		_, err := DecodePageToken("%%%not-base64%%%")
		assert.ErrorAs(t, err, &apperrors.InvalidPaginationTokenError{})
	})

	t.Run("base64 but not json", func(t *testing.T) {
		token := base64.StdEncoding.EncodeToString([]byte("not json"))
		_, err := DecodePageToken(token)
		assert.ErrorAs(t, err, &apperrors.InvalidPaginationTokenError{})
	})
}

func TestGetEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageRequest{}.GetEffectiveLimit())
	assert.Equal(t, DefaultPageSize, PageRequest{Limit: -5}.GetEffectiveLimit())
	assert.Equal(t, 10, PageRequest{Limit: 10}.GetEffectiveLimit())
	assert.Equal(t, MaxPageSize, PageRequest{Limit: 5000}.GetEffectiveLimit())
}
