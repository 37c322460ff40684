package ics

import (
	"errors"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"stageplan/internal/datetime"
	appLog "stageplan/internal/log"
)

// Read parses an iCalendar document back into Records, with start and end
// expressed as wall-clock values in loc (nil means time.Local). Events
// without UID or DTSTART are logged and skipped.
func Read(r io.Reader, loc *time.Location) ([]Record, error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0)
	for _, ve := range cal.Events() {
		rec, perr := readVEvent(ve, loc)
		if perr != nil {
			appLog.Error("ics vevent read failed", perr)
			continue
		}
		out = append(out, rec)
	}

	appLog.Debug("ics read completed", "event_count", len(out))
	return out, nil
}

func readVEvent(ve *ical.VEvent, loc *time.Location) (Record, error) {
	var out Record

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	// ParseCalendar already undoes TEXT escaping.
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	start = start.In(loc)
	end = end.In(loc)
	out.Start = datetime.Combine(start, start)
	out.End = datetime.Combine(end, end)
	return out, nil
}
