package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stageplan/internal/ics"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <calendar.ics>",
	Short: "Liest eine exportierte ICS-Datei und listet ihre Termine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		records, err := ics.Read(f, location())
		if err != nil {
			return err
		}

		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{r.Start.String(), r.End.String(), r.Title, r.Location}
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderTable([]string{"Beginn", "Ende", "Titel", "Ort"}, rows, nil))
		fmt.Fprintf(out, "%d Termine\n", len(records))
		return nil
	},
}
