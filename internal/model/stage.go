package model

import (
	"fmt"
	"time"
)

// StageEvent is one row of the stage table.
//
// Date carries only a calendar date; StartTime and EndTime carry only a
// clock. A nil pointer means the field has not been filled in.
type StageEvent struct {
	Stage          string
	Date           *time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	From           string
	To             string
	Kilometers     string
	Type           StageType
	MountainFinish bool
}

// Itinerary is the unit of export and import.
type Itinerary struct {
	Name        string
	Description string
	Events      []StageEvent
}

// BlankStage is the row the table starts with and falls back to when the
// last row is deleted.
func BlankStage() StageEvent {
	return StageEvent{Stage: "1", Type: Flat}
}

// NewItinerary returns an unnamed itinerary holding one blank row.
func NewItinerary() Itinerary {
	return Itinerary{Events: []StageEvent{BlankStage()}}
}

// EnsureNotEmpty reinserts the blank row into an empty list.
func EnsureNotEmpty(list []StageEvent) []StageEvent {
	if len(list) == 0 {
		return []StageEvent{BlankStage()}
	}
	return list
}

// Clone returns a deep copy, so callers can hand out state without
// sharing the time pointers.
func (e StageEvent) Clone() StageEvent {
	e.Date = cloneTime(e.Date)
	e.StartTime = cloneTime(e.StartTime)
	e.EndTime = cloneTime(e.EndTime)
	return e
}

func (it Itinerary) Clone() Itinerary {
	out := it
	out.Events = CloneEvents(it.Events)
	return out
}

func CloneEvents(list []StageEvent) []StageEvent {
	if list == nil {
		return nil
	}
	out := make([]StageEvent, len(list))
	for i, ev := range list {
		out[i] = ev.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Field names one StageEvent attribute. Its string form equals the JSON key.
type Field string

const (
	FieldStage          Field = "stage"
	FieldDate           Field = "date"
	FieldStartTime      Field = "startTime"
	FieldEndTime        Field = "endTime"
	FieldFrom           Field = "from"
	FieldTo             Field = "to"
	FieldKilometers     Field = "kilometers"
	FieldType           Field = "type"
	FieldMountainFinish Field = "mountainFinish"
)

var Fields = []Field{
	FieldStage, FieldDate, FieldStartTime, FieldEndTime, FieldFrom,
	FieldTo, FieldKilometers, FieldType, FieldMountainFinish,
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrFieldValue, s)
}

// IsTime reports whether the field holds a *time.Time.
func (f Field) IsTime() bool {
	return f == FieldDate || f == FieldStartTime || f == FieldEndTime
}
