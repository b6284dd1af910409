package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dronemap/internal/api"
	"dronemap/internal/config"
)

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload images, videos and SRT telemetry files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Upload(cmd.Context(), args)
				if err != nil {
					return err
				}

				if *jsonOutput {
					return writeJSON(resp)
				}

				for _, result := range resp.Results {
					if result.Error != "" {
						_ = writePlain("✗ %s: %s\n", result.Filename, result.Error)
						continue
					}
					_ = writePlain("✓ %s -> %s\n", result.Filename, result.Asset.ID)
					if result.Asset.TrackPoints > 0 {
						_ = writePlain("  %d telemetry points\n", result.Asset.TrackPoints)
					}
					if result.Asset.Position != nil {
						_ = writePlain("  position %.6f, %.6f\n",
							result.Asset.Position.Lat, result.Asset.Position.Lon)
					}
				}
				_ = writePlain("uploaded %d, rejected %d\n", resp.Uploaded, resp.Rejected)

				if resp.Uploaded == 0 {
					return errors.New("no files were accepted")
				}
				return nil
			})
		},
	}
}

func newDeleteCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an uploaded asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if err := client.DeleteAsset(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("deleted %s\n", args[0])
			})
		},
	}
}

func newClearCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every uploaded asset and all map data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear all data without --force")
			}
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ClearData(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s (%d files removed)\n", resp.Message, resp.Deleted)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion of all data")
	return cmd
}
