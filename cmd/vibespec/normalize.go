package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/spf13/cobra"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/config"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/extract"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/normalize"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/vibe"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/workspace"
)

// normalizeFlags holds the parsed flags for the normalize command.
type normalizeFlags struct {
	reportFlags
	vibePath string
}

func newNormalizeCmd(load configLoader) *cobra.Command {
	var flags normalizeFlags
	cmd := &cobra.Command{
		Use:   "normalize <model-output-file>",
		Short: "Normalize saved model output without calling a model",
		Long:  "Reads a saved model answer (fenced or bare JSON), normalizes it into the canonical spec, and reports integrity warnings and the gate. No network access.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runNormalize(cmd.Context(), args[0], flags, cfg)
		},
	}
	addReportFlags(cmd.Flags(), &flags.reportFlags)
	cmd.Flags().StringVar(&flags.vibePath, "vibe", "", "Vibe file the output was generated from; enables intent checks")
	return cmd
}

func runNormalize(ctx context.Context, path string, flags normalizeFlags, cfg *config.Config) error {
	logger := newLogger(cfg.Verbose)

	if err := validateReportFlags(flags.reportFlags); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return codeError(exitInput, "reading model output: %s", err)
	}
	raw, err := extract.Parse(string(data))
	if err != nil {
		return codeError(exitInput, "parsing model output: %s", err)
	}
	spec := normalize.Normalize(raw)

	in := schema.Input{VibeFile: path}
	vibeText := ""
	if flags.vibePath != "" {
		v, err := vibe.Load(flags.vibePath)
		if err != nil {
			return codeError(exitInput, "loading vibe: %s", err)
		}
		vibeText = v.Text
		in = schema.Input{VibeFile: flags.vibePath, VibeHash: v.Hash}
	} else {
		sum := sha256.Sum256(data)
		in.VibeHash = "sha256:" + hex.EncodeToString(sum[:])
	}

	ws := workspace.New(workspace.WithLogger(logger))
	ws.Load(vibeText, spec)
	if err := applyWorkspaceChanges(ctx, ws, flags.reportFlags, logger); err != nil {
		return codeError(exitInput, "applying changes: %s", err)
	}

	report := ws.Report(toolName, version, in, schema.Meta{})
	return emit(report, flags.reportFlags, logger)
}
