package record

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is a stored refresh-token hash for one user session.
type RefreshToken struct {
	StorageRecord
	UserID    string `dynamodbav:"userId"`
	TokenID   string `dynamodbav:"tokenId"`
	TokenHash string `dynamodbav:"tokenHash"`
	DeviceID  string `dynamodbav:"deviceId,omitempty"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`

	// EntityTimeIndex attributes: gsi1pk = REFRESH_TOKEN#<hash>, issuedAt.
	GSI1PK         string `dynamodbav:"gsi1pk,omitempty"`
	StartTimestamp int64  `dynamodbav:"startTimestamp,omitempty"`
}

// NewRefreshToken stores a hashed refresh token for the user.
func NewRefreshToken(userID, tokenHash, deviceID string, expiresAt int64) *RefreshToken {
	t := &RefreshToken{
		UserID:         userID,
		TokenID:        uuid.New().String(),
		TokenHash:      tokenHash,
		DeviceID:       deviceID,
		ExpiresAt:      expiresAt,
		StartTimestamp: time.Now().UTC().Unix(),
	}
	t.Stamp(TypeRefreshToken)
	return t
}
