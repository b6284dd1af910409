package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dronemap/internal/api"
	"dronemap/internal/config"
	"dronemap/internal/models"
)

// flightManifest is the YAML format consumed by `dronemap import`. It
// names individual files and directories to scan for accepted media.
type flightManifest struct {
	Name  string   `yaml:"name"`
	Files []string `yaml:"files"`
	Dirs  []string `yaml:"dirs"`
}

func newImportCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		inputPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upload a whole flight from a YAML manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			manifest, err := loadManifest(inputPath)
			if err != nil {
				return err
			}
			paths, err := manifest.resolve(filepath.Dir(inputPath))
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("manifest names no importable files")
			}

			if dryRun {
				for _, path := range paths {
					_ = writePlain("%s\n", path)
				}
				return writePlain("%d files (dry run)\n", len(paths))
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Upload(cmd.Context(), paths)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				for _, result := range resp.Results {
					if result.Error != "" {
						_ = writePlain("✗ %s: %s\n", result.Filename, result.Error)
					}
				}
				return writePlain("imported %d, rejected %d\n", resp.Uploaded, resp.Rejected)
			})
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to a flight manifest (YAML)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files without uploading")
	return cmd
}

func loadManifest(path string) (*flightManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest flightManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &manifest, nil
}

// resolve expands the manifest into concrete file paths. Relative
// entries are resolved against the manifest's directory; directory
// entries contribute every file with an accepted extension.
func (m *flightManifest) resolve(baseDir string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, file := range m.Files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("manifest file %s: %w", file, err)
		}
		add(path)
	}

	for _, dir := range m.Dirs {
		path := dir
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("manifest dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, ok := models.KindForFilename(entry.Name()); !ok {
				continue
			}
			add(filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(out)
	return out, nil
}
