package stages

import (
	"testing"
	"time"
)

func TestScheduleDatesSkipsRestDays(t *testing.T) {
	list := withLabels("1", "2", "3", "4")
	start := time.Date(2024, time.June, 29, 0, 0, 0, 0, time.UTC)
	rest := []time.Time{time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)}

	got, err := ScheduleDates(list, "FREQ=DAILY", start, rest)
	if err != nil {
		t.Fatalf("ScheduleDates: %v", err)
	}

	want := []string{"2024-06-29", "2024-06-30", "2024-07-02", "2024-07-03"}
	for i, ev := range got {
		if d := ev.Date.Format("2006-01-02"); d != want[i] {
			t.Errorf("row %d date = %s, want %s", i, d, want[i])
		}
		if ev.StartTime.Hour() != 12 {
			t.Errorf("row %d start time changed", i)
		}
	}
	if !list[0].Date.Equal(*day(2024, time.July, 1)) {
		t.Error("input list was mutated")
	}
}

func TestScheduleDatesWeekends(t *testing.T) {
	list := withLabels("1", "2", "3")
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC) // Monday

	got, err := ScheduleDates(list, "FREQ=WEEKLY;BYDAY=SA,SU", start, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-07-06", "2024-07-07", "2024-07-13"}
	for i, ev := range got {
		if d := ev.Date.Format("2006-01-02"); d != want[i] {
			t.Errorf("row %d date = %s, want %s", i, d, want[i])
		}
	}
}

func TestScheduleDatesErrors(t *testing.T) {
	list := withLabels("1", "2", "3")
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	if _, err := ScheduleDates(list, "FREQ=DAILY;COUNT=2", start, nil); err == nil {
		t.Error("expected error when the rule runs out of dates")
	}
	if _, err := ScheduleDates(list, "FREQ=SOMETIMES", start, nil); err == nil {
		t.Error("expected error for invalid rule")
	}
	if _, err := ScheduleDates(list, "FREQ=DAILY", time.Time{}, nil); err == nil {
		t.Error("expected error for missing start")
	}
	got, err := ScheduleDates(nil, "FREQ=DAILY", start, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("empty list: %v, %v", got, err)
	}
}
