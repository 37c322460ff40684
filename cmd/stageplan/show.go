package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stageplan/internal/model"
	"stageplan/internal/stages"
)

var showCmd = &cobra.Command{
	Use:   "show <snapshot.json>",
	Short: "Zeigt einen Etappenplan als Tabelle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := readItinerary(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if it.Name != "" {
			fmt.Fprintln(out, it.Name)
		}
		if it.Description != "" {
			fmt.Fprintln(out, it.Description)
		}
		fmt.Fprintln(out, renderTable(stageHeaders, stageRows(it.Events), incompleteSet(it.Events)))

		if stages.AllRequiredFieldsFilled(it.Events) {
			fmt.Fprintln(out, "Bereit für den Kalenderexport.")
		} else {
			fmt.Fprintln(out, "Nicht alle Etappen haben Datum, Start- und Endzeit.")
		}
		return nil
	},
}

var stageHeaders = []string{"Etappe", "Datum", "Start", "Ende", "Von", "Nach", "km", "Art", "Bergankunft"}

func stageRows(events []model.StageEvent) [][]string {
	rows := make([][]string, len(events))
	for i, ev := range events {
		finish := ""
		if ev.MountainFinish {
			finish = "⛰️"
		}
		kind := ev.Type.Label()
		if icon := ev.Type.Icon(); icon != "" {
			kind = icon + " " + kind
		}
		rows[i] = []string{
			ev.Stage,
			formatOptional(ev.Date, "02.01.2006"),
			formatOptional(ev.StartTime, "15:04"),
			formatOptional(ev.EndTime, "15:04"),
			ev.From,
			ev.To,
			ev.Kilometers,
			kind,
			finish,
		}
	}
	return rows
}

func incompleteSet(events []model.StageEvent) map[int]bool {
	set := make(map[int]bool)
	for _, i := range stages.IncompleteRows(events) {
		set[i] = true
	}
	return set
}

func formatOptional(t *time.Time, layout string) string {
	if t == nil {
		return "–"
	}
	return t.Format(layout)
}
