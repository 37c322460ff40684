package datetime

import (
	"testing"
	"time"
)

func TestCombine(t *testing.T) {
	date := time.Date(2024, time.July, 14, 23, 59, 0, 0, time.UTC)
	clock := time.Date(1970, time.January, 1, 13, 45, 30, 0, time.UTC)

	got := Combine(date, clock)
	want := DateTime{2024, 7, 14, 13, 45}
	if got != want {
		t.Errorf("Combine = %v, want %v", got, want)
	}
}

func TestCombineReadsOwnLocations(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	date := time.Date(2024, time.July, 1, 0, 30, 0, 0, berlin) // 2024-06-30 UTC
	clock := time.Date(2024, time.July, 1, 9, 15, 0, 0, berlin)

	got := Combine(date, clock)
	if got != (DateTime{2024, 7, 1, 9, 15}) {
		t.Errorf("Combine = %v", got)
	}
	if got.Time(berlin).UTC().Hour() != 7 {
		t.Errorf("Time(berlin) = %v", got.Time(berlin))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		d  DateTime
		ok bool
	}{
		{DateTime{2024, 2, 29, 0, 0}, true},
		{DateTime{2023, 2, 29, 0, 0}, false},
		{DateTime{2024, 13, 1, 0, 0}, false},
		{DateTime{2024, 1, 1, 24, 0}, false},
		{DateTime{2024, 1, 1, 23, 60}, false},
		{DateTime{2024, 12, 31, 23, 59}, true},
	}
	for _, c := range cases {
		err := c.d.Validate()
		if (err == nil) != c.ok {
			t.Errorf("%v.Validate() = %v, want ok=%v", c.d, err, c.ok)
		}
	}
}

func TestTimestampForFilename(t *testing.T) {
	clk := FixedClock(time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC))
	if got := TimestampForFilename(clk); got != "2024-03-05_07-08-09" {
		t.Errorf("TimestampForFilename = %q", got)
	}
	if got := Filename("Tour", "ics", clk); got != "Tour_2024-03-05_07-08-09.ics" {
		t.Errorf("Filename = %q", got)
	}
	if got := Filename("Tour/Etappe 1", "json", clk); got != "Tour-Etappe 1_2024-03-05_07-08-09.json" {
		t.Errorf("Filename with separator = %q", got)
	}
}
