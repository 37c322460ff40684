package main

import (
	"github.com/spf13/cobra"

	"stageplan/internal/capture"
)

var captureFlags struct {
	url    string
	out    string
	width  int
	height int
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Speichert die Druckansicht eines laufenden Servers als PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := captureFlags.url
		if url == "" {
			url = "http://" + conf.Listen + "/print"
		}
		return capture.CapturePrintPNG(cmd.Context(), capture.Options{
			URL:        url,
			OutputPath: captureFlags.out,
			Width:      captureFlags.width,
			Height:     captureFlags.height,
			Timeout:    conf.ChromiumTimeout,
		})
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureFlags.url, "url", "", "Print view URL (default: http://<listen>/print)")
	captureCmd.Flags().StringVar(&captureFlags.out, "out", "preview.png", "PNG output path")
	captureCmd.Flags().IntVar(&captureFlags.width, "width", capture.DefaultWidth, "Viewport width in pixels")
	captureCmd.Flags().IntVar(&captureFlags.height, "height", capture.DefaultHeight, "Viewport height in pixels")
}
