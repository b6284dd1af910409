package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dronemap/internal/api"
	"dronemap/internal/config"
	"dronemap/internal/models"
	"dronemap/internal/srt"
)

func newTrackCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "track <id|file.srt>",
		Short: "Show the telemetry track of an asset or a local SRT file",
		Long: "With an asset id the track is fetched from the server. With a path to\n" +
			"a local .srt file the telemetry is parsed directly, without uploading.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			if strings.HasSuffix(strings.ToLower(arg), ".srt") {
				return showLocalTrack(arg, *jsonOutput)
			}
			return withClient(cfg, func(client *api.Client) error {
				points, err := client.GetTrack(cmd.Context(), arg)
				if err != nil {
					return err
				}
				return writeTrack(points, *jsonOutput)
			})
		},
	}
}

func showLocalTrack(path string, jsonOutput bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	points, err := srt.Parse(f)
	if err != nil {
		return err
	}
	return writeTrack(points, jsonOutput)
}

func writeTrack(points []models.TrackPoint, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(points)
	}
	for _, p := range points {
		if err := writePlain("%4d  %s  %.6f, %.6f  alt %.1f m\n",
			p.Seq, p.Cue, p.Lat, p.Lon, p.Alt); err != nil {
			return err
		}
	}
	return writePlain("%d points\n", len(points))
}
