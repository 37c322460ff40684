package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"stageplan/internal/datetime"
	appLog "stageplan/internal/log"
	"stageplan/internal/model"
	"stageplan/internal/stages"
)

const (
	mountainFinishSuffix = " ⛰️ Bergankunft"
	ContentType          = "text/calendar; charset=utf-8"
)

// uidNamespace seeds the name-based UUIDs, so re-exporting the same stage
// updates the calendar entry instead of duplicating it.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("stageplan"))

// Record is one calendar entry derived from a stage.
type Record struct {
	UID         string
	Title       string
	Start       datetime.DateTime
	End         datetime.DateTime
	Description string
	Location    string
}

// BuildEvents turns every complete stage into a Record. Rows without date,
// start or end time are skipped.
func BuildEvents(it model.Itinerary) []Record {
	description := model.Legend() + "\n" + it.Description

	out := make([]Record, 0, len(it.Events))
	for _, ev := range it.Events {
		if !stages.RequiredFieldsFilled(ev) {
			continue
		}
		start := datetime.Combine(*ev.Date, *ev.StartTime)
		out = append(out, Record{
			UID:         StableUID(it.Name, ev.Stage, start),
			Title:       Title(it.Name, ev),
			Start:       start,
			End:         datetime.Combine(*ev.Date, *ev.EndTime),
			Description: description,
			Location:    ev.From + " - " + ev.To,
		})
	}
	return out
}

// Title renders "{icon}{name}: {stage}. Etappe: {from} - {to}, {km} km".
func Title(name string, ev model.StageEvent) string {
	var b strings.Builder
	b.WriteString(ev.Type.Icon())
	fmt.Fprintf(&b, "%s: %s. Etappe: %s - %s, %s km", name, ev.Stage, ev.From, ev.To, ev.Kilometers)
	if ev.MountainFinish {
		b.WriteString(mountainFinishSuffix)
	}
	return b.String()
}

func StableUID(name, stage string, start datetime.DateTime) string {
	key := name + "\x00" + stage + "\x00" + start.String()
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@stageplan"
}

// Generator serializes records into an iCalendar document.
type Generator struct {
	// ProductID is written as PRODID.
	ProductID string
	// Location interprets the wall-clock stage times. nil means time.Local.
	Location *time.Location
	// Clock stamps DTSTAMP. nil means the system clock.
	Clock datetime.Clock
}

// Generate validates all records first and returns a *model.GenerationError
// without output if any is rejected.
func (g Generator) Generate(records []Record) ([]byte, error) {
	for i, r := range records {
		if err := validateRecord(r); err != nil {
			return nil, &model.GenerationError{Err: fmt.Errorf("event %d (%q): %w", i, r.Title, err)}
		}
	}

	clk := g.Clock
	if clk == nil {
		clk = datetime.SystemClock{}
	}
	stamp := clk.Now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if g.ProductID != "" {
		cal.SetProductId(g.ProductID)
	}

	for _, r := range records {
		uid := r.UID
		if uid == "" {
			uid = uuid.NewString() + "@stageplan"
		}
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(r.Start.Time(g.Location))
		ev.SetEndAt(r.End.Time(g.Location))
		ev.SetSummary(r.Title)
		ev.SetDescription(r.Description)
		ev.SetLocation(r.Location)
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, &model.GenerationError{Err: err}
	}
	return buf.Bytes(), nil
}

func validateRecord(r Record) error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if r.End.Time(time.UTC).Before(r.Start.Time(time.UTC)) {
		return errors.New("end is before start")
	}
	return nil
}

// ExportItinerary builds and serializes the calendar for it and returns the
// download filename "{name}_{timestamp}.ics" with the bytes.
func ExportItinerary(it model.Itinerary, g Generator) (string, []byte, error) {
	records := BuildEvents(it)
	if skipped := len(it.Events) - len(records); skipped > 0 {
		appLog.Warn("ics export skips incomplete stages", "name", it.Name, "skipped", skipped)
	}

	data, err := g.Generate(records)
	if err != nil {
		appLog.Error("ics export failed", err, "name", it.Name)
		return "", nil, err
	}

	filename := datetime.Filename(it.Name, "ics", g.Clock)
	appLog.Info("ics export completed", "name", it.Name, "file", filename, "event_count", len(records))
	return filename, data, nil
}
