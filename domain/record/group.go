package record

import (
	"time"

	"github.com/google/uuid"
)

// Membership roles.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Group is the metadata root of a group's item collection.
type Group struct {
	StorageRecord
	GroupID             string `dynamodbav:"groupId"`
	GroupName           string `dynamodbav:"groupName"`
	BackgroundImagePath string `dynamodbav:"backgroundImagePath,omitempty"`
	Public              bool   `dynamodbav:"public"`
}

// NewGroup creates a group with a fresh identifier and initial timestamps.
func NewGroup(name, backgroundImagePath string, public bool) *Group {
	g := &Group{
		GroupID:             uuid.New().String(),
		GroupName:           name,
		BackgroundImagePath: backgroundImagePath,
		Public:              public,
	}
	g.Stamp(TypeGroup)
	return g
}

// GroupMembership links a user to a group. GroupName and
// GroupBackgroundImagePath are denormalized copies of the group's fields and
// must be rewritten whenever the group changes.
type GroupMembership struct {
	StorageRecord
	GroupID                  string `dynamodbav:"groupId"`
	UserID                   string `dynamodbav:"userId"`
	Role                     string `dynamodbav:"role"`
	GroupName                string `dynamodbav:"groupName"`
	GroupBackgroundImagePath string `dynamodbav:"groupBackgroundImagePath,omitempty"`

	// EntityTimeIndex attributes: gsi1pk = USER#<userId>, joinedAt epoch.
	GSI1PK         string `dynamodbav:"gsi1pk,omitempty"`
	StartTimestamp int64  `dynamodbav:"startTimestamp,omitempty"`
}

// NewGroupMembership creates a membership for the given group, copying the
// group's denormalized display fields.
func NewGroupMembership(group *Group, userID, role string) *GroupMembership {
	m := &GroupMembership{
		GroupID:                  group.GroupID,
		UserID:                   userID,
		Role:                     role,
		GroupName:                group.GroupName,
		GroupBackgroundImagePath: group.BackgroundImagePath,
		StartTimestamp:           time.Now().UTC().Unix(),
	}
	m.Stamp(TypeGroupMembership)
	return m
}

// HangoutPointer is a denormalized projection of a hangout into each
// associated group's item collection. Title, StartTimestamp and
// ParticipantCount mirror the hangout's source-of-truth state.
type HangoutPointer struct {
	StorageRecord
	GroupID          string `dynamodbav:"groupId"`
	HangoutID        string `dynamodbav:"hangoutId"`
	Title            string `dynamodbav:"title"`
	ParticipantCount int    `dynamodbav:"participantCount"`

	// EntityTimeIndex attributes: gsi1pk = GROUP#<groupId>, hangout start.
	GSI1PK         string `dynamodbav:"gsi1pk,omitempty"`
	StartTimestamp int64  `dynamodbav:"startTimestamp,omitempty"`
}

// NewHangoutPointer projects a hangout into one group's collection.
func NewHangoutPointer(h *Hangout, groupID string) *HangoutPointer {
	p := &HangoutPointer{
		GroupID:        groupID,
		HangoutID:      h.HangoutID,
		Title:          h.Title,
		StartTimestamp: h.StartTimestamp,
	}
	p.Stamp(TypeHangoutPointer)
	return p
}

// SeriesPointer is the per-group projection of an event series.
type SeriesPointer struct {
	StorageRecord
	GroupID    string   `dynamodbav:"groupId"`
	SeriesID   string   `dynamodbav:"seriesId"`
	Title      string   `dynamodbav:"title"`
	HangoutIDs []string `dynamodbav:"hangoutIds,omitempty"`

	GSI1PK         string `dynamodbav:"gsi1pk,omitempty"`
	StartTimestamp int64  `dynamodbav:"startTimestamp,omitempty"`
}

// NewSeriesPointer projects an event series into one group's collection.
func NewSeriesPointer(s *EventSeries, groupID string) *SeriesPointer {
	p := &SeriesPointer{
		GroupID:        groupID,
		SeriesID:       s.SeriesID,
		Title:          s.Title,
		HangoutIDs:     append([]string(nil), s.HangoutIDs...),
		StartTimestamp: s.StartTimestamp,
	}
	p.Stamp(TypeSeriesPointer)
	return p
}
