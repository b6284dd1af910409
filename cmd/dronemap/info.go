package main

import (
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dronemap/internal/api"
	"dronemap/internal/config"
)

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show data directory and store info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				_ = writePlain("data_dir: %s\n", resp.DataDir)
				_ = writePlain("schema_version: %d\n", resp.SchemaVersion)
				_ = writePlain("total_assets: %d\n", resp.TotalAssets)
				_ = writePlain("total_size: %s\n", humanize.Bytes(uint64(resp.TotalBytes)))
				_ = writePlain("track_points: %d\n", resp.TrackPoints)

				kinds := make([]string, 0, len(resp.AssetCounts))
				for kind := range resp.AssetCounts {
					kinds = append(kinds, kind)
				}
				sort.Strings(kinds)
				for _, kind := range kinds {
					_ = writePlain("  %s: %d\n", kind, resp.AssetCounts[kind])
				}
				return nil
			})
		},
	}
}

func newMapCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Print the GeoJSON map document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				doc, err := client.GetMap(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(doc)
			})
		},
	}
}
