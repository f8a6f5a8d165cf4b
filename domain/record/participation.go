package record

// Participation statuses.
const (
	ParticipationConfirmed  = "CONFIRMED"
	ParticipationWaitlisted = "WAITLISTED"
	ParticipationDeclined   = "DECLINED"
)

// Participation tracks a user's committed spot at a hangout, as opposed to
// the softer InterestLevel signal.
type Participation struct {
	StorageRecord
	HangoutID     string `dynamodbav:"hangoutId"`
	UserID        string `dynamodbav:"userId"`
	Status        string `dynamodbav:"status"`
	ReservedSpots int    `dynamodbav:"reservedSpots"`
}

// NewParticipation records a user's committed participation.
func NewParticipation(hangoutID, userID, status string, spots int) *Participation {
	p := &Participation{
		HangoutID:     hangoutID,
		UserID:        userID,
		Status:        status,
		ReservedSpots: spots,
	}
	p.Stamp(TypeParticipation)
	return p
}

// ReservationOffer is a participant offering spots they no longer need.
type ReservationOffer struct {
	StorageRecord
	HangoutID    string `dynamodbav:"hangoutId"`
	UserID       string `dynamodbav:"userId"`
	OfferedSpots int    `dynamodbav:"offeredSpots"`
	Note         string `dynamodbav:"note,omitempty"`
}

// NewReservationOffer offers spots back to the group.
func NewReservationOffer(hangoutID, userID string, spots int, note string) *ReservationOffer {
	o := &ReservationOffer{
		HangoutID:    hangoutID,
		UserID:       userID,
		OfferedSpots: spots,
		Note:         note,
	}
	o.Stamp(TypeReservationOffer)
	return o
}

// Season is a numeric-keyed scheduling period.
type Season struct {
	StorageRecord
	SeasonNumber   int    `dynamodbav:"seasonNumber"`
	Name           string `dynamodbav:"name"`
	StartTimestamp int64  `dynamodbav:"startTimestamp,omitempty"`
	EndTimestamp   int64  `dynamodbav:"endTimestamp,omitempty"`
}

// NewSeason creates a season for the given number.
func NewSeason(number int, name string, start, end int64) *Season {
	s := &Season{
		SeasonNumber:   number,
		Name:           name,
		StartTimestamp: start,
		EndTimestamp:   end,
	}
	s.Stamp(TypeSeason)
	return s
}
