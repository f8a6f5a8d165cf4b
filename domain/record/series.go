package record

import "github.com/google/uuid"

// EventSeries groups recurring hangouts under one identity. It is the source
// of truth for the fields denormalized onto its group pointers.
type EventSeries struct {
	StorageRecord
	SeriesID         string   `dynamodbav:"seriesId"`
	Title            string   `dynamodbav:"title"`
	Description      string   `dynamodbav:"description,omitempty"`
	StartTimestamp   int64    `dynamodbav:"startTimestamp"`
	HangoutIDs       []string `dynamodbav:"hangoutIds,omitempty"`
	AssociatedGroups []string `dynamodbav:"associatedGroups,omitempty"`
}

// NewEventSeries creates a series with a fresh identifier.
func NewEventSeries(title string, start int64, groupIDs []string) *EventSeries {
	s := &EventSeries{
		SeriesID:         uuid.New().String(),
		Title:            title,
		StartTimestamp:   start,
		AssociatedGroups: append([]string(nil), groupIDs...),
	}
	s.Stamp(TypeEventSeries)
	return s
}
