package dynamodb

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "hangout-backend/pkg/errors"
)

// Key grammar of the single table. Partition keys group an item collection:
// GROUP#<id> holds a group's metadata, memberships, pointers and idea lists;
// EVENT#<id> holds a hangout's metadata and every related record.
const (
	MetadataSK = "METADATA"

	groupPKPrefix  = "GROUP#"
	eventPKPrefix  = "EVENT#"
	seriesPKPrefix = "SERIES#"
	seasonPKPrefix = "SEASON#"
	userPKPrefix   = "USER#"

	membershipSKPrefix     = "USER#"
	hangoutPointerSKPrefix = "HANGOUT#"
	seriesPointerSKPrefix  = "SERIES#"
	ideaListSKPrefix       = "IDEALIST#"
	pollSKPrefix           = "POLL#"
	carSKPrefix            = "CAR#"
	needsRideSKPrefix      = "NEEDS_RIDE#"
	attendanceSKPrefix     = "ATTENDANCE#"
	attributeSKPrefix      = "ATTRIBUTE#"
	participationSKPrefix  = "PARTICIPATION#"
	offerSKPrefix          = "OFFER#"
	refreshTokenSKPrefix   = "REFRESH_TOKEN#"

	optionSKSegment = "#OPTION#"
	voteSKSegment   = "#VOTE#"
	riderSKSegment  = "#RIDER#"
	memberSKSegment = "#MEMBER#"

	refreshTokenGSI1Prefix = "REFRESH_TOKEN#"
)

// validateUUID rejects empty or non-UUID identifiers before any store call.
func validateUUID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewInvalidKey(field, "must not be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewInvalidKey(field, "must be a valid UUID")
	}
	return nil
}

// GroupPK builds "GROUP#<id>".
func GroupPK(groupID string) (string, error) {
	if err := validateUUID("groupId", groupID); err != nil {
		return "", err
	}
	return groupPKPrefix + groupID, nil
}

// EventPK builds "EVENT#<id>".
func EventPK(hangoutID string) (string, error) {
	if err := validateUUID("hangoutId", hangoutID); err != nil {
		return "", err
	}
	return eventPKPrefix + hangoutID, nil
}

// SeriesPK builds "SERIES#<id>".
func SeriesPK(seriesID string) (string, error) {
	if err := validateUUID("seriesId", seriesID); err != nil {
		return "", err
	}
	return seriesPKPrefix + seriesID, nil
}

// SeasonPK builds "SEASON#<number>". Seasons are numeric-keyed.
func SeasonPK(seasonNumber int) (string, error) {
	if seasonNumber <= 0 {
		return "", apperrors.NewInvalidKey("seasonNumber", "must be a positive integer")
	}
	return fmt.Sprintf("%s%d", seasonPKPrefix, seasonNumber), nil
}

// UserPK builds "USER#<id>".
func UserPK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return userPKPrefix + userID, nil
}

// MembershipSK builds "USER#<userId>" within a group's collection.
func MembershipSK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return membershipSKPrefix + userID, nil
}

// HangoutPointerSK builds "HANGOUT#<hangoutId>".
func HangoutPointerSK(hangoutID string) (string, error) {
	if err := validateUUID("hangoutId", hangoutID); err != nil {
		return "", err
	}
	return hangoutPointerSKPrefix + hangoutID, nil
}

// SeriesPointerSK builds "SERIES#<seriesId>".
func SeriesPointerSK(seriesID string) (string, error) {
	if err := validateUUID("seriesId", seriesID); err != nil {
		return "", err
	}
	return seriesPointerSKPrefix + seriesID, nil
}

// PollSK builds "POLL#<pollId>".
func PollSK(pollID string) (string, error) {
	if err := validateUUID("pollId", pollID); err != nil {
		return "", err
	}
	return pollSKPrefix + pollID, nil
}

// PollOptionSK builds the composite "POLL#<pollId>#OPTION#<optionId>".
func PollOptionSK(pollID, optionID string) (string, error) {
	base, err := PollSK(pollID)
	if err != nil {
		return "", err
	}
	if err := validateUUID("optionId", optionID); err != nil {
		return "", err
	}
	return base + optionSKSegment + optionID, nil
}

// VoteSK builds "POLL#<pollId>#VOTE#<userId>#OPTION#<optionId>".
func VoteSK(pollID, userID, optionID string) (string, error) {
	base, err := PollSK(pollID)
	if err != nil {
		return "", err
	}
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	if err := validateUUID("optionId", optionID); err != nil {
		return "", err
	}
	return base + voteSKSegment + userID + optionSKSegment + optionID, nil
}

// CarSK builds "CAR#<driverId>".
func CarSK(driverID string) (string, error) {
	if err := validateUUID("driverId", driverID); err != nil {
		return "", err
	}
	return carSKPrefix + driverID, nil
}

// CarRiderSK builds "CAR#<driverId>#RIDER#<riderId>".
func CarRiderSK(driverID, riderID string) (string, error) {
	base, err := CarSK(driverID)
	if err != nil {
		return "", err
	}
	if err := validateUUID("riderId", riderID); err != nil {
		return "", err
	}
	return base + riderSKSegment + riderID, nil
}

// NeedsRideSK builds "NEEDS_RIDE#<userId>".
func NeedsRideSK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return needsRideSKPrefix + userID, nil
}

// AttendanceSK builds "ATTENDANCE#<userId>".
func AttendanceSK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return attendanceSKPrefix + userID, nil
}

// AttributeSK builds "ATTRIBUTE#<attributeId>".
func AttributeSK(attributeID string) (string, error) {
	if err := validateUUID("attributeId", attributeID); err != nil {
		return "", err
	}
	return attributeSKPrefix + attributeID, nil
}

// ParticipationSK builds "PARTICIPATION#<userId>".
func ParticipationSK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return participationSKPrefix + userID, nil
}

// OfferSK builds "OFFER#<userId>".
func OfferSK(userID string) (string, error) {
	if err := validateUUID("userId", userID); err != nil {
		return "", err
	}
	return offerSKPrefix + userID, nil
}

// RefreshTokenSK builds "REFRESH_TOKEN#<tokenId>".
func RefreshTokenSK(tokenID string) (string, error) {
	if err := validateUUID("tokenId", tokenID); err != nil {
		return "", err
	}
	return refreshTokenSKPrefix + tokenID, nil
}

// IdeaListSK builds "IDEALIST#<listId>".
func IdeaListSK(listID string) (string, error) {
	if err := validateUUID("listId", listID); err != nil {
		return "", err
	}
	return ideaListSKPrefix + listID, nil
}

// IdeaListMemberSK builds "IDEALIST#<listId>#MEMBER#<memberId>".
func IdeaListMemberSK(listID, memberID string) (string, error) {
	base, err := IdeaListSK(listID)
	if err != nil {
		return "", err
	}
	if err := validateUUID("memberId", memberID); err != nil {
		return "", err
	}
	return base + memberSKSegment + memberID, nil
}

// GroupGSI1PK builds the EntityTimeIndex partition for a group's pointers.
func GroupGSI1PK(groupID string) (string, error) {
	return GroupPK(groupID)
}

// UserGSI1PK builds the EntityTimeIndex partition for a user's memberships.
func UserGSI1PK(userID string) (string, error) {
	return UserPK(userID)
}

// RefreshTokenGSI1PK builds the EntityTimeIndex partition for token lookup.
// Token hashes are opaque, only emptiness is rejected.
func RefreshTokenGSI1PK(tokenHash string) (string, error) {
	if strings.TrimSpace(tokenHash) == "" {
		return "", apperrors.NewInvalidKey("tokenHash", "must not be empty")
	}
	return refreshTokenGSI1Prefix + tokenHash, nil
}
