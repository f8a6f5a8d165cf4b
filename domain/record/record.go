// Package record defines the persisted shape of every entity stored in the
// single application table.
//
// Every stored item shares the same base attributes (partition key, sort key,
// type discriminator, timestamps); entity-specific fields live on the concrete
// variant. Variants embed StorageRecord by value rather than relying on any
// inheritance-like scheme, so marshaling with attributevalue produces one flat
// item per record.
package record

import "time"

// Item type discriminator values. Stored on every write; legacy items may
// lack the attribute and are recognized by their key pattern instead.
const (
	TypeGroup            = "GROUP"
	TypeGroupMembership  = "GROUP_MEMBERSHIP"
	TypeHangoutPointer   = "HANGOUT_POINTER"
	TypeSeriesPointer    = "SERIES_POINTER"
	TypeHangout          = "HANGOUT"
	TypePoll             = "POLL"
	TypePollOption       = "POLL_OPTION"
	TypeVote             = "VOTE"
	TypeCar              = "CAR"
	TypeCarRider         = "CAR_RIDER"
	TypeNeedsRide        = "NEEDS_RIDE"
	TypeInterestLevel    = "INTEREST_LEVEL"
	TypeHangoutAttribute = "HANGOUT_ATTRIBUTE"
	TypeParticipation    = "PARTICIPATION"
	TypeReservationOffer = "RESERVATION_OFFER"
	TypeEventSeries      = "EVENT_SERIES"
	TypeSeason           = "SEASON"
	TypeRefreshToken     = "REFRESH_TOKEN"
	TypeIdeaList         = "IDEA_LIST"
	TypeIdeaListMember   = "IDEA_LIST_MEMBER"
)

// StorageRecord holds the base attributes shared by every item in the table.
type StorageRecord struct {
	PartitionKey string    `dynamodbav:"partitionKey"`
	SortKey      string    `dynamodbav:"sortKey"`
	ItemType     string    `dynamodbav:"itemType"`
	CreatedAt    time.Time `dynamodbav:"createdAt"`
	UpdatedAt    time.Time `dynamodbav:"updatedAt"`
}

// Base returns the embedded storage record. Having the method on
// *StorageRecord gives every variant the Record interface for free.
func (r *StorageRecord) Base() *StorageRecord {
	return r
}

// Touch bumps UpdatedAt. Called on every save.
func (r *StorageRecord) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// Stamp initializes timestamps and the discriminator on a new record.
func (r *StorageRecord) Stamp(itemType string) {
	now := time.Now().UTC()
	r.ItemType = itemType
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Record is the sum type over all persisted variants. The item codec returns
// values of this type; callers switch on the concrete variant.
type Record interface {
	Base() *StorageRecord
}
