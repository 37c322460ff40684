package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stageplan/internal/config"
	appLog "stageplan/internal/log"
	"stageplan/internal/snapshot"
	"stageplan/internal/state"
)

var scheduleFlags struct {
	in    string
	out   string
	rule  string
	start string
	rest  []string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Verteilt die Etappen nach einer RRULE auf Kalendertage",
	Example: `  stageplan schedule --in tour.json --start 2024-07-06 --rest 2024-07-15 --rest 2024-07-22
  stageplan schedule --in tour.json --rule "FREQ=WEEKLY;BYDAY=SA,SU" --start 2024-05-04`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := location()
		start, err := time.ParseInLocation("2006-01-02", scheduleFlags.start, loc)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		rest := make([]time.Time, 0, len(scheduleFlags.rest))
		for _, d := range scheduleFlags.rest {
			t, err := time.ParseInLocation("2006-01-02", d, loc)
			if err != nil {
				return fmt.Errorf("invalid --rest %q: %w", d, err)
			}
			rest = append(rest, t)
		}

		it, err := readItinerary(scheduleFlags.in)
		if err != nil {
			return err
		}
		st, err := state.Reduce(state.State{Itinerary: it}, state.ScheduleDates{
			Rule:     scheduleFlags.rule,
			Start:    start,
			RestDays: rest,
		})
		if err != nil {
			return err
		}

		data, err := snapshot.Export(st.Itinerary)
		if err != nil {
			return err
		}
		out := scheduleFlags.out
		if out == "" {
			out = scheduleFlags.in
		}
		if err := config.WriteFileAtomic(out, data, 0o644); err != nil {
			return err
		}
		appLog.Info("schedule applied", "file", out, "rule", scheduleFlags.rule, "rest_days", len(rest))

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, renderTable(stageHeaders, stageRows(st.Itinerary.Events), incompleteSet(st.Itinerary.Events)))
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleFlags.in, "in", "", "JSON snapshot to update")
	scheduleCmd.Flags().StringVar(&scheduleFlags.out, "out", "", "Write the result here instead of overwriting --in")
	scheduleCmd.Flags().StringVar(&scheduleFlags.rule, "rule", "FREQ=DAILY", "RFC 5545 recurrence rule")
	scheduleCmd.Flags().StringVar(&scheduleFlags.start, "start", "", "First stage date (YYYY-MM-DD)")
	scheduleCmd.Flags().StringArrayVar(&scheduleFlags.rest, "rest", nil, "Rest day to skip (YYYY-MM-DD), repeatable")
	_ = scheduleCmd.MarkFlagRequired("in")
	_ = scheduleCmd.MarkFlagRequired("start")
}
