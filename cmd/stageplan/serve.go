package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stageplan/internal/autosave"
	"stageplan/internal/datetime"
	appLog "stageplan/internal/log"
	"stageplan/internal/state"
	"stageplan/internal/web"
)

var serveFlags struct {
	listen string
	in     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Startet den HTTP-Server mit API und Druckansicht",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveFlags.listen != "" {
			conf.Listen = serveFlags.listen
		}

		initial := state.New()
		if serveFlags.in != "" {
			it, err := readItinerary(serveFlags.in)
			if err != nil {
				return err
			}
			initial, err = state.Reduce(initial, state.Replace{Itinerary: it})
			if err != nil {
				return err
			}
			appLog.Info("itinerary loaded", "file", serveFlags.in, "event_count", len(it.Events))
		}
		store := state.NewStore(initial)

		// Root context with cancellation on SIGINT/SIGTERM.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				appLog.Info("signal received, shutting down", "signal", sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		var saver *autosave.Saver
		if conf.Autosave != "" {
			var err error
			saver, err = autosave.New(store, conf.AutosaveDir, conf.Autosave, datetime.SystemClock{})
			if err != nil {
				return err
			}
			saver.Start()
		}

		srv := web.NewServer(conf, store, datetime.SystemClock{})
		err := srv.Run(ctx)

		if saver != nil {
			<-saver.Stop().Done()
			if _, _, saveErr := saver.SaveNow(); saveErr != nil {
				appLog.Error("final autosave failed", saveErr)
			}
		}
		appLog.Info("stageplan exiting")
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "HTTP listen address (overrides config if set)")
	serveCmd.Flags().StringVar(&serveFlags.in, "in", "", "JSON snapshot to load at startup")
}
