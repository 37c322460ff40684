package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"stageplan/internal/datetime"
	"stageplan/internal/model"
)

const ContentType = "application/pdf"

type column struct {
	title string
	width float64
	value func(ev model.StageEvent) string
}

var columns = []column{
	{"Etappe", 18, func(ev model.StageEvent) string { return ev.Stage }},
	{"Datum", 26, func(ev model.StageEvent) string { return formatOptional(ev.Date, "02.01.2006") }},
	{"Startzeit", 22, func(ev model.StageEvent) string { return formatOptional(ev.StartTime, "15:04") }},
	{"Endzeit", 22, func(ev model.StageEvent) string { return formatOptional(ev.EndTime, "15:04") }},
	{"Von", 50, func(ev model.StageEvent) string { return ev.From }},
	{"Nach", 50, func(ev model.StageEvent) string { return ev.To }},
	{"Kilometer", 22, func(ev model.StageEvent) string { return ev.Kilometers }},
	{"Art", 30, func(ev model.StageEvent) string { return ev.Type.Label() }},
	{"Bergankunft", 27, func(ev model.StageEvent) string {
		if ev.MountainFinish {
			return "ja"
		}
		return ""
	}},
}

func formatOptional(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// Render writes the stage table of it as an A4 landscape PDF. The built-in
// Helvetica covers German umlauts through the cp1252 translator; stage
// types are printed by label since the core fonts have no emoji.
func Render(w io.Writer, it model.Itinerary) error {
	doc := gofpdf.New("L", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr(it.Name), false)
	doc.SetCreator("stageplan", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(it.Name), "", 1, "L", false, 0, "")
	if it.Description != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, tr(it.Description), "", "L", false)
		doc.Ln(3)
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, c := range columns {
		doc.CellFormat(c.width, 8, tr(c.title), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, ev := range it.Events {
		for _, c := range columns {
			doc.CellFormat(c.width, 7, tr(c.value(ev)), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return doc.Output(w)
}

// ExportItinerary renders it and returns "{name}_{timestamp}.pdf".
func ExportItinerary(it model.Itinerary, c datetime.Clock) (string, []byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, it); err != nil {
		return "", nil, err
	}
	return datetime.Filename(it.Name, "pdf", c), buf.Bytes(), nil
}
