package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"snapptale/internal/export"
	"snapptale/internal/model"
	"snapptale/pkg/logger"
)

func exportCmd(load configLoader) *cobra.Command {
	var name string
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <story.json>",
		Short: "Render a story JSON file to a PDF",
		Long: "Render a story to PDF. The input is either a story array or an\n" +
			"upload response of the form {\"story\": [...]}.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			story, err := readStory(args[0])
			if err != nil {
				return err
			}

			exporter := export.NewExporter(export.OptionsFromConfig(cfg.Export))
			doc, err := exporter.Export(cmd.Context(), story, name)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, doc.Filename)
			if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
				return err
			}
			logger.Infof("wrote %s (%d chapters)", path, doc.Chapters)
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "child name used in the file name")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

// readStory 接受故事数组或 {"story": [...]}
func readStory(path string) (model.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var story model.Story
	if err := json.Unmarshal(data, &story); err == nil {
		return story, nil
	}

	var resp model.UploadResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return resp.Story, nil
}
