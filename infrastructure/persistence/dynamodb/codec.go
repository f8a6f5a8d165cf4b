package dynamodb

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hangout-backend/domain/record"
	apperrors "hangout-backend/pkg/errors"
)

// Base attribute names shared by every stored item.
const (
	attrPartitionKey = "partitionKey"
	attrSortKey      = "sortKey"
	attrItemType     = "itemType"
	attrUpdatedAt    = "updatedAt"
	attrGSI1PK       = "gsi1pk"
	attrStartTS      = "startTimestamp"
)

// decodeAs unmarshals an item into the concrete variant T.
func decodeAs[T any](item map[string]types.AttributeValue) (record.Record, error) {
	out := new(T)
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return nil, err
	}
	return any(out).(record.Record), nil
}

// decoders dispatches on the stored discriminator.
var decoders = map[string]func(map[string]types.AttributeValue) (record.Record, error){
	record.TypeGroup:            decodeAs[record.Group],
	record.TypeGroupMembership:  decodeAs[record.GroupMembership],
	record.TypeHangoutPointer:   decodeAs[record.HangoutPointer],
	record.TypeSeriesPointer:    decodeAs[record.SeriesPointer],
	record.TypeHangout:          decodeAs[record.Hangout],
	record.TypePoll:             decodeAs[record.Poll],
	record.TypePollOption:       decodeAs[record.PollOption],
	record.TypeVote:             decodeAs[record.Vote],
	record.TypeCar:              decodeAs[record.Car],
	record.TypeCarRider:         decodeAs[record.CarRider],
	record.TypeNeedsRide:        decodeAs[record.NeedsRide],
	record.TypeInterestLevel:    decodeAs[record.InterestLevel],
	record.TypeHangoutAttribute: decodeAs[record.HangoutAttribute],
	record.TypeParticipation:    decodeAs[record.Participation],
	record.TypeReservationOffer: decodeAs[record.ReservationOffer],
	record.TypeEventSeries:      decodeAs[record.EventSeries],
	record.TypeSeason:           decodeAs[record.Season],
	record.TypeRefreshToken:     decodeAs[record.RefreshToken],
	record.TypeIdeaList:         decodeAs[record.IdeaList],
	record.TypeIdeaListMember:   decodeAs[record.IdeaListMember],
}

// legacyRule recognizes a pre-discriminator record by its key pattern.
// Rules are evaluated in order; composite patterns must precede the bare
// prefixes they extend (VOTE and OPTION before POLL, RIDER before CAR).
type legacyRule struct {
	pkPrefix   string
	skPrefix   string
	skContains string
	skEquals   string
	itemType   string
}

var legacyRules = []legacyRule{
	{skPrefix: pollSKPrefix, skContains: voteSKSegment, itemType: record.TypeVote},
	{skPrefix: pollSKPrefix, skContains: optionSKSegment, itemType: record.TypePollOption},
	{skPrefix: pollSKPrefix, itemType: record.TypePoll},
	{skPrefix: carSKPrefix, skContains: riderSKSegment, itemType: record.TypeCarRider},
	{skPrefix: carSKPrefix, itemType: record.TypeCar},
	{skPrefix: needsRideSKPrefix, itemType: record.TypeNeedsRide},
	{skPrefix: attendanceSKPrefix, itemType: record.TypeInterestLevel},
	{skPrefix: attributeSKPrefix, itemType: record.TypeHangoutAttribute},
	{skPrefix: participationSKPrefix, itemType: record.TypeParticipation},
	{skPrefix: offerSKPrefix, itemType: record.TypeReservationOffer},
	{pkPrefix: groupPKPrefix, skPrefix: ideaListSKPrefix, skContains: memberSKSegment, itemType: record.TypeIdeaListMember},
	{pkPrefix: groupPKPrefix, skPrefix: ideaListSKPrefix, itemType: record.TypeIdeaList},
	{pkPrefix: groupPKPrefix, skPrefix: membershipSKPrefix, itemType: record.TypeGroupMembership},
	{pkPrefix: groupPKPrefix, skPrefix: hangoutPointerSKPrefix, itemType: record.TypeHangoutPointer},
	{pkPrefix: groupPKPrefix, skPrefix: seriesPointerSKPrefix, itemType: record.TypeSeriesPointer},
	{pkPrefix: userPKPrefix, skPrefix: refreshTokenSKPrefix, itemType: record.TypeRefreshToken},
	{pkPrefix: groupPKPrefix, skEquals: MetadataSK, itemType: record.TypeGroup},
	{pkPrefix: eventPKPrefix, skEquals: MetadataSK, itemType: record.TypeHangout},
	{pkPrefix: seriesPKPrefix, skEquals: MetadataSK, itemType: record.TypeEventSeries},
	{pkPrefix: seasonPKPrefix, skEquals: MetadataSK, itemType: record.TypeSeason},
}

func (r legacyRule) matches(pk, sk string) bool {
	if r.pkPrefix != "" && !strings.HasPrefix(pk, r.pkPrefix) {
		return false
	}
	if r.skEquals != "" {
		return sk == r.skEquals
	}
	if !strings.HasPrefix(sk, r.skPrefix) {
		return false
	}
	return r.skContains == "" || strings.Contains(sk, r.skContains)
}

// matchLegacy resolves a discriminator-less record by its key pattern.
func matchLegacy(pk, sk string) (string, bool) {
	for _, rule := range legacyRules {
		if rule.matches(pk, sk) {
			return rule.itemType, true
		}
	}
	return "", false
}

// DecodeRecord maps a raw item to its typed record variant.
//
// The stored itemType discriminator wins; legacy records without one are
// resolved by the ordered key-pattern rules. An unknown discriminator and an
// unrecognizable pattern are distinct, typed failures.
func DecodeRecord(item map[string]types.AttributeValue) (record.Record, error) {
	itemType := extractString(item, attrItemType)
	if itemType == "" {
		pk := extractString(item, attrPartitionKey)
		sk := extractString(item, attrSortKey)
		resolved, ok := matchLegacy(pk, sk)
		if !ok {
			return nil, apperrors.UnrecognizedRecordError{PartitionKey: pk, SortKey: sk}
		}
		itemType = resolved
	}

	decode, ok := decoders[itemType]
	if !ok {
		return nil, apperrors.UnknownItemTypeError{ItemType: itemType}
	}
	return decode(item)
}

// EncodeRecord marshals a typed record into a raw item. The record's keys
// must already be assigned by the key factory.
func EncodeRecord(rec record.Record) (map[string]types.AttributeValue, error) {
	base := rec.Base()
	if base.PartitionKey == "" || base.SortKey == "" {
		return nil, apperrors.NewInvalidKey("partitionKey/sortKey", "record keys not assigned")
	}
	return attributevalue.MarshalMap(rec)
}
