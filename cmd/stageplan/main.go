package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stageplan/internal/config"
	appLog "stageplan/internal/log"
	"stageplan/internal/model"
	"stageplan/internal/snapshot"
)

const version = "0.1.0"

// Shared by all subcommands; filled by the root PersistentPreRunE.
var (
	configPath string
	debug      bool
	conf       *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "stageplan",
	Short:         "Etappenplaner für Radrundfahrten",
	Long:          `Plant die Etappen einer Rundfahrt und exportiert sie als Kalender (ICS), JSON oder PDF.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", configPath, err)
		}
		conf = c

		level := appLog.ParseLevel(conf.LogLevel)
		if debug {
			level = appLog.LevelDebug
		}
		appLog.SetLevel(level)
		appLog.Debug("effective config",
			"config_path", configPath,
			"listen", conf.Listen,
			"timezone", conf.Timezone,
			"export_dir", conf.ExportDir,
			"autosave", conf.Autosave,
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, exportCmd, inspectCmd, showCmd, scheduleCmd, captureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		appLog.Error("stageplan failed", err)
		os.Exit(1)
	}
}

// readItinerary imports a JSON snapshot in the configured timezone.
func readItinerary(path string) (model.Itinerary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Itinerary{}, err
	}
	return snapshot.Import(data, location())
}

func location() *time.Location {
	if conf == nil {
		return time.Local
	}
	return conf.Location()
}
