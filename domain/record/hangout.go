package record

import "github.com/google/uuid"

// Interest levels for attendance records.
const (
	InterestGoing      = "GOING"
	InterestInterested = "INTERESTED"
	InterestNotGoing   = "NOT_GOING"
)

// Hangout is the metadata root of an event's item collection. It is the
// source of truth for the fields denormalized onto its group pointers.
type Hangout struct {
	StorageRecord
	HangoutID        string   `dynamodbav:"hangoutId"`
	Title            string   `dynamodbav:"title"`
	Description      string   `dynamodbav:"description,omitempty"`
	Location         string   `dynamodbav:"location,omitempty"`
	StartTimestamp   int64    `dynamodbav:"startTimestamp"`
	EndTimestamp     int64    `dynamodbav:"endTimestamp,omitempty"`
	AssociatedGroups []string `dynamodbav:"associatedGroups,omitempty"`
	SeriesID         string   `dynamodbav:"seriesId,omitempty"`
	CarpoolEnabled   bool     `dynamodbav:"carpoolEnabled"`
}

// NewHangout creates a hangout with a fresh identifier and initial timestamps.
func NewHangout(title string, start int64, groupIDs []string) *Hangout {
	h := &Hangout{
		HangoutID:        uuid.New().String(),
		Title:            title,
		StartTimestamp:   start,
		AssociatedGroups: append([]string(nil), groupIDs...),
	}
	h.Stamp(TypeHangout)
	return h
}

// Poll is a question attached to a hangout.
type Poll struct {
	StorageRecord
	HangoutID   string `dynamodbav:"hangoutId"`
	PollID      string `dynamodbav:"pollId"`
	Title       string `dynamodbav:"title"`
	MultiSelect bool   `dynamodbav:"multiSelect"`
}

// NewPoll creates a poll for the given hangout.
func NewPoll(hangoutID, title string, multiSelect bool) *Poll {
	p := &Poll{
		HangoutID:   hangoutID,
		PollID:      uuid.New().String(),
		Title:       title,
		MultiSelect: multiSelect,
	}
	p.Stamp(TypePoll)
	return p
}

// PollOption is one selectable answer of a poll.
type PollOption struct {
	StorageRecord
	HangoutID string `dynamodbav:"hangoutId"`
	PollID    string `dynamodbav:"pollId"`
	OptionID  string `dynamodbav:"optionId"`
	Text      string `dynamodbav:"text"`
}

// NewPollOption creates an option under an existing poll.
func NewPollOption(hangoutID, pollID, text string) *PollOption {
	o := &PollOption{
		HangoutID: hangoutID,
		PollID:    pollID,
		OptionID:  uuid.New().String(),
		Text:      text,
	}
	o.Stamp(TypePollOption)
	return o
}

// Vote records one user's choice on a poll option.
type Vote struct {
	StorageRecord
	HangoutID string `dynamodbav:"hangoutId"`
	PollID    string `dynamodbav:"pollId"`
	OptionID  string `dynamodbav:"optionId"`
	UserID    string `dynamodbav:"userId"`
}

// NewVote records a user's vote for one option.
func NewVote(hangoutID, pollID, optionID, userID string) *Vote {
	v := &Vote{
		HangoutID: hangoutID,
		PollID:    pollID,
		OptionID:  optionID,
		UserID:    userID,
	}
	v.Stamp(TypeVote)
	return v
}

// Car is a carpool offer for a hangout, keyed by its driver.
type Car struct {
	StorageRecord
	HangoutID     string `dynamodbav:"hangoutId"`
	DriverID      string `dynamodbav:"driverId"`
	DriverName    string `dynamodbav:"driverName,omitempty"`
	TotalCapacity int    `dynamodbav:"totalCapacity"`
	Notes         string `dynamodbav:"notes,omitempty"`
}

// NewCar creates a carpool offer.
func NewCar(hangoutID, driverID, driverName string, capacity int) *Car {
	c := &Car{
		HangoutID:     hangoutID,
		DriverID:      driverID,
		DriverName:    driverName,
		TotalCapacity: capacity,
	}
	c.Stamp(TypeCar)
	return c
}

// CarRider is a claimed seat in a car. RiderName is a display copy.
type CarRider struct {
	StorageRecord
	HangoutID string `dynamodbav:"hangoutId"`
	DriverID  string `dynamodbav:"driverId"`
	RiderID   string `dynamodbav:"riderId"`
	RiderName string `dynamodbav:"riderName,omitempty"`
}

// NewCarRider claims a seat in the given driver's car.
func NewCarRider(hangoutID, driverID, riderID, riderName string) *CarRider {
	r := &CarRider{
		HangoutID: hangoutID,
		DriverID:  driverID,
		RiderID:   riderID,
		RiderName: riderName,
	}
	r.Stamp(TypeCarRider)
	return r
}

// NeedsRide flags a user looking for a seat.
type NeedsRide struct {
	StorageRecord
	HangoutID string `dynamodbav:"hangoutId"`
	UserID    string `dynamodbav:"userId"`
	Notes     string `dynamodbav:"notes,omitempty"`
}

// NewNeedsRide flags the user as needing a ride to the hangout.
func NewNeedsRide(hangoutID, userID, notes string) *NeedsRide {
	n := &NeedsRide{HangoutID: hangoutID, UserID: userID, Notes: notes}
	n.Stamp(TypeNeedsRide)
	return n
}

// InterestLevel is a user's attendance signal for a hangout. UserName is a
// display copy supplied by the caller.
type InterestLevel struct {
	StorageRecord
	HangoutID string `dynamodbav:"hangoutId"`
	UserID    string `dynamodbav:"userId"`
	UserName  string `dynamodbav:"userName,omitempty"`
	Status    string `dynamodbav:"status"`
}

// NewInterestLevel records a user's attendance status.
func NewInterestLevel(hangoutID, userID, userName, status string) *InterestLevel {
	i := &InterestLevel{
		HangoutID: hangoutID,
		UserID:    userID,
		UserName:  userName,
		Status:    status,
	}
	i.Stamp(TypeInterestLevel)
	return i
}

// HangoutAttribute is a free-form named value attached to a hangout.
type HangoutAttribute struct {
	StorageRecord
	HangoutID     string `dynamodbav:"hangoutId"`
	AttributeID   string `dynamodbav:"attributeId"`
	AttributeName string `dynamodbav:"attributeName"`
	StringValue   string `dynamodbav:"stringValue,omitempty"`
}

// NewHangoutAttribute creates an attribute with a fresh identifier.
func NewHangoutAttribute(hangoutID, name, value string) *HangoutAttribute {
	a := &HangoutAttribute{
		HangoutID:     hangoutID,
		AttributeID:   uuid.New().String(),
		AttributeName: name,
		StringValue:   value,
	}
	a.Stamp(TypeHangoutAttribute)
	return a
}
