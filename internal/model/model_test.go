package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseStageType(t *testing.T) {
	cases := []struct {
		in   string
		want StageType
	}{
		{"Flachetappe", Flat},
		{"Huegeletappe", Hill},
		{"Hügeletappe", Hill},
		{"Bergetappe", Mountain},
		{"Zeitfahren", TimeTrial},
		{"time_trial", TimeTrial},
		{"MOUNTAIN", Mountain},
		{"", Unset},
		{"nothing", Unset},
	}
	for _, c := range cases {
		got, err := ParseStageType(c.in)
		if err != nil {
			t.Errorf("ParseStageType(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseStageType(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseStageType("Kopfsteinpflaster"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestStageTypeTables(t *testing.T) {
	if Mountain.Icon() != "🌋" || Hill.Icon() != "🗻" || Flat.Icon() != "🛣️" || TimeTrial.Icon() != "⏱️" {
		t.Error("icon table mismatch")
	}
	if Unset.Icon() != "" || Unset.String() != "" {
		t.Error("Unset must have no icon or label")
	}

	want := "🌋 = Bergetappe\n🗻 = Hügeletappe\n🛣️ = Flachetappe\n⏱️ = Zeitfahren\n"
	if got := Legend(); got != want {
		t.Errorf("Legend() = %q, want %q", got, want)
	}
}

func TestStageTypeJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		T StageType `json:"type"`
	}{Hill})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"type":"Huegeletappe"}` {
		t.Errorf("marshal = %s", b)
	}

	var back struct {
		T StageType `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"Bergetappe"}`), &back); err != nil {
		t.Fatal(err)
	}
	if back.T != Mountain {
		t.Errorf("unmarshal = %v", back.T)
	}
}

func TestCloneDoesNotShareTimes(t *testing.T) {
	d := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	it := Itinerary{Name: "Tour", Events: []StageEvent{{Stage: "1", Date: &d}}}

	cp := it.Clone()
	*cp.Events[0].Date = d.AddDate(0, 0, 5)

	if !it.Events[0].Date.Equal(d) {
		t.Errorf("original date changed to %v", it.Events[0].Date)
	}
}

func TestEnsureNotEmpty(t *testing.T) {
	got := EnsureNotEmpty(nil)
	if len(got) != 1 || got[0].Stage != "1" || got[0].Type != Flat {
		t.Errorf("EnsureNotEmpty(nil) = %+v", got)
	}
	list := []StageEvent{{Stage: "7"}}
	if got := EnsureNotEmpty(list); len(got) != 1 || got[0].Stage != "7" {
		t.Errorf("non-empty list was changed: %+v", got)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	if err := IndexError(4, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("IndexError does not wrap sentinel: %v", err)
	}

	cause := errors.New("bad month")
	var gen error = &GenerationError{Err: cause}
	if !errors.Is(gen, cause) {
		t.Error("GenerationError must unwrap to its cause")
	}

	var pe *ParseError
	if !errors.As(error(&ParseError{Err: cause}), &pe) {
		t.Error("errors.As failed for ParseError")
	}

	w := &ValidationWarning{Index: 2, Missing: []Field{FieldDate, FieldEndTime}}
	if w.Error() != "row 2 is missing date, endTime" {
		t.Errorf("warning text = %q", w.Error())
	}

	if _, err := ParseField("elevation"); !errors.Is(err, ErrFieldValue) {
		t.Errorf("ParseField unknown = %v", err)
	}
}
