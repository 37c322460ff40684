package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stageplan/internal/config"
	"stageplan/internal/datetime"
	"stageplan/internal/ics"
	appLog "stageplan/internal/log"
	"stageplan/internal/model"
	"stageplan/internal/pdf"
	"stageplan/internal/snapshot"
	"stageplan/internal/stages"
)

var exportFlags struct {
	in     string
	format string
	out    string
	force  bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exportiert einen Etappenplan als ICS, JSON oder PDF",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := readItinerary(exportFlags.in)
		if err != nil {
			return err
		}

		name, data, err := exportAs(it, strings.ToLower(exportFlags.format), exportFlags.force, datetime.SystemClock{})
		if err != nil {
			return err
		}

		dir := exportFlags.out
		if dir == "" {
			dir = conf.ExportDir
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := config.WriteFileAtomic(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// exportAs runs one of the export translators. Calendar export refuses
// incomplete rows unless force is set, in which case they are skipped.
func exportAs(it model.Itinerary, format string, force bool, clk datetime.Clock) (string, []byte, error) {
	switch format {
	case "ics":
		if rows := stages.IncompleteRows(it.Events); len(rows) > 0 {
			if !force {
				return "", nil, fmt.Errorf("%w: rows %v", model.ErrExportIncomplete, rows)
			}
			appLog.Warn("exporting despite incomplete rows", "rows", fmt.Sprint(rows))
		}
		g := ics.Generator{ProductID: conf.ProductID, Location: location(), Clock: clk}
		return ics.ExportItinerary(it, g)
	case "json":
		return snapshot.ExportItinerary(it, clk)
	case "pdf":
		return pdf.ExportItinerary(it, clk)
	default:
		return "", nil, fmt.Errorf("unknown format %q (want ics, json or pdf)", format)
	}
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.in, "in", "", "JSON snapshot to export")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "ics", "Output format: ics, json or pdf")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "", "Output directory (default: export_dir from config)")
	exportCmd.Flags().BoolVar(&exportFlags.force, "force", false, "Export a calendar even if some rows are incomplete")
	_ = exportCmd.MarkFlagRequired("in")
}
