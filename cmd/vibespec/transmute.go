package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/config"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/transmute"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/vibe"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/workspace"
)

// transmuteFlags holds the parsed flags for the transmute command.
type transmuteFlags struct {
	reportFlags
	stacks bool
}

func newTransmuteCmd(load configLoader) *cobra.Command {
	var flags transmuteFlags
	cmd := &cobra.Command{
		Use:   "transmute <vibe-file>",
		Short: "Generate a spec from a vibe and check its integrity",
		Long:  "Reads a vibe from a file (or - for stdin), asks the configured model for a spec, and reports the normalized spec with its integrity warnings and gate.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runTransmute(cmd.Context(), args[0], flags, cfg)
		},
	}
	addReportFlags(cmd.Flags(), &flags.reportFlags)
	cmd.Flags().BoolVar(&flags.stacks, "stacks", false, "Also recommend technology stacks in three frames")
	return cmd
}

func runTransmute(ctx context.Context, vibePath string, flags transmuteFlags, cfg *config.Config) error {
	logger := newLogger(cfg.Verbose)

	if err := validateReportFlags(flags.reportFlags); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	logger.Debug("loading vibe", "path", vibePath)
	v, err := vibe.Load(vibePath)
	if err != nil {
		return codeError(exitInput, "loading vibe: %s", err)
	}
	if len(v.Redactions) > 0 {
		logger.Warn("secrets redacted from vibe before sending", "rules", v.Redactions)
	}

	policy, err := cfg.PromptPolicy()
	if err != nil {
		return codeError(exitInput, "loading prompt policy: %s", err)
	}
	logger.Debug("prompt policy", "name", policy.Name, "rewrites", policy.RewriteCount)

	if cfg.APIKey == "" {
		return codeError(exitProvider, "creating LLM provider: %s environment variable not set", cfg.Provider.APIKeyEnv())
	}
	model := cfg.Model
	if model == "" {
		catalog := llm.NewCatalog(cfg.ModelCacheSize, cfg.ModelCacheTTL, logger)
		model = catalog.Resolve(ctx, cfg.Provider, cfg.APIKey, "")
	}
	provider, err := llm.NewProvider(ctx, cfg.Provider, model, cfg.APIKey)
	if err != nil {
		return codeError(exitProvider, "creating LLM provider: %s", err)
	}

	svc := transmute.New(provider, transmute.Config{
		Kind:         cfg.Provider,
		Model:        model,
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		ShowThinking: cfg.ShowThinking,
		Policy:       policy,
	}, transmute.WithLogger(logger), transmute.WithSecrets(cfg.APIKey))

	logger.Debug("calling LLM", "provider", cfg.Provider, "model", model)
	res, err := svc.Transmute(ctx, v.Text)
	if err != nil {
		return codeError(exitGenerate, "%s", err)
	}

	ws := workspace.New(workspace.WithLogger(logger))
	ws.Load(v.Text, res.Spec)
	if err := applyWorkspaceChanges(ctx, ws, flags.reportFlags, logger); err != nil {
		return codeError(exitInput, "applying changes: %s", err)
	}

	report := ws.Report(toolName, version, schema.Input{VibeFile: vibePath, VibeHash: v.Hash}, res.Meta)

	if flags.stacks {
		logger.Debug("requesting stack recommendation")
		guide, err := svc.RecommendStacks(ctx, v.Text, res.Spec)
		if err != nil {
			return codeError(exitGenerate, "%s", err)
		}
		report.Stacks = guide
	}

	return emit(report, flags.reportFlags, logger)
}
