package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stageplan/internal/config"
	"stageplan/internal/datetime"
	"stageplan/internal/model"
	"stageplan/internal/snapshot"
)

const tourJSON = `{"name":"Tour","description":"Sommer","events":[
  {"stage":"1","date":"2024-07-06","startTime":"2024-07-06T13:05:00Z","endTime":"2024-07-06T17:45:00Z","from":"Berlin","to":"Paris","kilometers":"300","type":"Bergetappe","mountainFinish":true},
  {"stage":"2","date":"2024-07-07","startTime":"2024-07-07T12:00:00Z","endTime":null,"from":"Paris","to":"Lyon","kilometers":"180","type":"Flachetappe","mountainFinish":false}
]}`

var clk = datetime.FixedClock(time.Date(2024, 6, 1, 8, 30, 15, 0, time.UTC))

func useUTCConfig(t *testing.T) {
	t.Helper()
	prev := conf
	conf = config.DefaultConfig()
	conf.Timezone = "UTC"
	t.Cleanup(func() { conf = prev })
}

func tour(t *testing.T) model.Itinerary {
	t.Helper()
	it, err := snapshot.Import([]byte(tourJSON), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	return it
}

func TestExportAs(t *testing.T) {
	useUTCConfig(t)
	it := tour(t)

	if _, _, err := exportAs(it, "ics", false, clk); !errors.Is(err, model.ErrExportIncomplete) {
		t.Errorf("incomplete ics export: err = %v", err)
	}

	name, data, err := exportAs(it, "ics", true, clk)
	if err != nil {
		t.Fatalf("forced ics export: %v", err)
	}
	if name != "Tour_2024-06-01_08-30-15.ics" {
		t.Errorf("name = %q", name)
	}
	if n := bytes.Count(data, []byte("BEGIN:VEVENT")); n != 1 {
		t.Errorf("forced export has %d events, want 1", n)
	}

	for _, format := range []string{"json", "pdf"} {
		name, data, err := exportAs(it, format, false, clk)
		if err != nil || len(data) == 0 || !strings.HasSuffix(name, "."+format) {
			t.Errorf("%s export: %q, %d bytes, %v", format, name, len(data), err)
		}
	}

	if _, _, err := exportAs(it, "xlsx", false, clk); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStageRows(t *testing.T) {
	rows := stageRows(tour(t).Events)
	want := []string{"1", "06.07.2024", "13:05", "17:45", "Berlin", "Paris", "300", "🌋 Bergetappe", "⛰️"}
	for i := range want {
		if rows[0][i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, rows[0][i], want[i])
		}
	}
	if rows[1][3] != "–" {
		t.Errorf("missing end time rendered as %q", rows[1][3])
	}
	if set := incompleteSet(tour(t).Events); !set[1] || set[0] {
		t.Errorf("incomplete set = %v", set)
	}
}

func TestShowAndExportCommands(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tour.json")
	if err := os.WriteFile(in, []byte(tourJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	prev := conf
	t.Cleanup(func() { conf = prev })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	rootCmd.SetArgs([]string{"--config", cfgPath, "show", in})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	if s := out.String(); !strings.Contains(s, "Berlin") || !strings.Contains(s, "Nicht alle Etappen") {
		t.Errorf("show output:\n%s", s)
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("default config not created: %v", err)
	}

	out.Reset()
	outDir := filepath.Join(dir, "out")
	rootCmd.SetArgs([]string{"--config", cfgPath, "export", "--in", in, "--format", "json", "--out", outDir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out.String())
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("exported file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"name": "Tour"`)) {
		t.Errorf("exported JSON:\n%s", data)
	}
}
