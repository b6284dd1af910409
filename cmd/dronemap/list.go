package main

import (
	"github.com/spf13/cobra"

	"dronemap/internal/api"
	"dronemap/internal/config"
	"dronemap/internal/models"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "" {
				if _, err := models.ParseAssetKind(kind); err != nil {
					return err
				}
			}
			return withClient(cfg, func(client *api.Client) error {
				assets, err := client.ListAssets(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(assets)
				}
				return writeAssetList(assets)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by kind (image, video, subtitle)")
	return cmd
}

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one asset with its extracted metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				detail, err := client.GetAsset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(detail)
				}
				return writeAssetDetail(detail)
			})
		},
	}
}
