package pdf

import (
	"bytes"
	"testing"
	"time"

	"stageplan/internal/datetime"
	"stageplan/internal/model"
)

func TestExportItinerary(t *testing.T) {
	d := time.Date(2024, time.July, 6, 0, 0, 0, 0, time.UTC)
	it := model.Itinerary{
		Name:        "Deutschland Tour",
		Description: "Vier Etappen über die Mittelgebirge",
		Events: []model.StageEvent{
			{Stage: "1", Date: &d, From: "Schwäbisch Hall", To: "Würzburg", Kilometers: "182", Type: model.Hill},
			{Stage: "2", From: "Würzburg", To: "Annweiler", Type: model.Mountain, MountainFinish: true},
		},
	}
	clk := datetime.FixedClock(time.Date(2024, 6, 1, 8, 30, 15, 0, time.UTC))

	name, data, err := ExportItinerary(it, clk)
	if err != nil {
		t.Fatalf("ExportItinerary: %v", err)
	}
	if name != "Deutschland Tour_2024-06-01_08-30-15.pdf" {
		t.Errorf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderEmptyItinerary(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, model.NewItinerary()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty output")
	}
}
