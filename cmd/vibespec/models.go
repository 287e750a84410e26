package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/config"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
)

func newModelsCmd(load configLoader) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the generation models available to the configured API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runModels(cmd.Context(), os.Stdout, cfg, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as JSON")
	return cmd
}

type modelList struct {
	Provider string   `json:"provider"`
	Selected string   `json:"selected"`
	Models   []string `json:"models"`
}

// runModels prints the model list, marking the one transmute would use.
func runModels(ctx context.Context, w io.Writer, cfg *config.Config, asJSON bool) error {
	catalog := llm.NewCatalog(cfg.ModelCacheSize, cfg.ModelCacheTTL, newLogger(cfg.Verbose))
	models := catalog.List(ctx, cfg.Provider, cfg.APIKey)
	selected := catalog.Resolve(ctx, cfg.Provider, cfg.APIKey, cfg.Model)

	if asJSON {
		data, err := json.MarshalIndent(modelList{Provider: string(cfg.Provider), Selected: selected, Models: models}, "", "  ")
		if err != nil {
			return codeError(exitInput, "rendering model list: %s", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, m := range models {
		marker := " "
		if m == selected {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", marker, m); err != nil {
			return err
		}
	}
	return nil
}
