// Package snapshot reads and writes the JSON form of an itinerary.
//
//	{
//	  "name": "Tour",
//	  "description": "...",
//	  "events": [
//	    {"stage": "1", "date": "2024-07-06", "startTime": "2024-07-06T13:05:00+02:00",
//	     "endTime": null, "from": "Berlin", "to": "Paris", "kilometers": "300",
//	     "type": "Bergetappe", "mountainFinish": true}
//	  ]
//	}
//
// Times are instants. Import moves them into the caller's location, so a
// file written in another zone shows different wall-clock hours; the
// calendar export reads those local hours. Dates are calendar days and keep
// their day.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stageplan/internal/datetime"
	appLog "stageplan/internal/log"
	"stageplan/internal/model"
)

const (
	ContentType = "application/json; charset=utf-8"
	dateLayout  = "2006-01-02"
)

// document is the import view; events stay raw so a missing or non-array
// value can be told apart from an empty list.
type document struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Events      json.RawMessage `json:"events"`
}

type exportDocument struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Events      []eventDoc `json:"events"`
}

type eventDoc struct {
	Stage          string          `json:"stage"`
	Date           *string         `json:"date"`
	StartTime      *string         `json:"startTime"`
	EndTime        *string         `json:"endTime"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Kilometers     string          `json:"kilometers"`
	Type           model.StageType `json:"type"`
	MountainFinish bool            `json:"mountainFinish"`
}

// Export encodes it as indented UTF-8 JSON.
func Export(it model.Itinerary) ([]byte, error) {
	events := make([]eventDoc, len(it.Events))
	for i, ev := range it.Events {
		events[i] = eventDoc{
			Stage:          ev.Stage,
			Date:           formatTime(ev.Date, dateLayout),
			StartTime:      formatTime(ev.StartTime, time.RFC3339),
			EndTime:        formatTime(ev.EndTime, time.RFC3339),
			From:           ev.From,
			To:             ev.To,
			Kilometers:     ev.Kilometers,
			Type:           ev.Type,
			MountainFinish: ev.MountainFinish,
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportDocument{Name: it.Name, Description: it.Description, Events: events}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns "{name}_{timestamp}.json".
func Filename(name string, c datetime.Clock) string {
	return datetime.Filename(name, "json", c)
}

// ExportItinerary encodes it and returns the download filename.
func ExportItinerary(it model.Itinerary, c datetime.Clock) (string, []byte, error) {
	data, err := Export(it)
	if err != nil {
		appLog.Error("json export failed", err, "name", it.Name)
		return "", nil, err
	}
	filename := Filename(it.Name, c)
	appLog.Info("json export completed", "name", it.Name, "file", filename, "event_count", len(it.Events))
	return filename, data, nil
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

// Import decodes a snapshot. Dates and times are read into loc (nil means
// time.Local). Any failure is returned as *model.ParseError and nothing is
// partially applied, since the caller only receives a value on success.
func Import(data []byte, loc *time.Location) (model.Itinerary, error) {
	if loc == nil {
		loc = time.Local
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Itinerary{}, &model.ParseError{Err: err}
	}
	if !isArray(doc.Events) {
		return model.Itinerary{}, &model.ParseError{Err: errors.New(`"events" must be an array`)}
	}

	var events []eventDoc
	if err := json.Unmarshal(doc.Events, &events); err != nil {
		return model.Itinerary{}, &model.ParseError{Err: fmt.Errorf("events: %w", err)}
	}

	out := model.Itinerary{
		Name:        doc.Name,
		Description: doc.Description,
		Events:      make([]model.StageEvent, len(events)),
	}
	for i, ev := range events {
		date, err := parseDate(ev.Date, loc)
		if err != nil {
			return model.Itinerary{}, &model.ParseError{Err: fmt.Errorf("events[%d].date: %w", i, err)}
		}
		start, err := parseTime(ev.StartTime, loc)
		if err != nil {
			return model.Itinerary{}, &model.ParseError{Err: fmt.Errorf("events[%d].startTime: %w", i, err)}
		}
		end, err := parseTime(ev.EndTime, loc)
		if err != nil {
			return model.Itinerary{}, &model.ParseError{Err: fmt.Errorf("events[%d].endTime: %w", i, err)}
		}
		out.Events[i] = model.StageEvent{
			Stage:          ev.Stage,
			Date:           date,
			StartTime:      start,
			EndTime:        end,
			From:           ev.From,
			To:             ev.To,
			Kilometers:     ev.Kilometers,
			Type:           ev.Type,
			MountainFinish: ev.MountainFinish,
		}
	}

	appLog.Info("json import completed", "name", out.Name, "event_count", len(out.Events))
	return out, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// parseDate accepts "2006-01-02" or a full RFC 3339 timestamp, as written
// by browsers, and keeps the calendar date as seen in loc.
func parseDate(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	if d, err := time.ParseInLocation(dateLayout, *s, loc); err == nil {
		return &d, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	t = t.In(loc)
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return &d, nil
}

func parseTime(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	t = t.In(loc)
	return &t, nil
}
