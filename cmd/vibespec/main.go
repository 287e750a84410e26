package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/config"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const toolName = "vibespec"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// Exit codes.
const (
	exitGate     = 2
	exitInput    = 3
	exitProvider = 4
	exitGenerate = 5
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	root := &cobra.Command{
		Use:          toolName,
		Short:        "Turn a product vibe into an implementation-ready spec",
		Long:         "vibespec sends a loose product idea to an LLM, normalizes the answer into a fixed spec schema, and checks it for integrity problems before anyone builds it.",
		Version:      version,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (yaml)")
	pf.String(config.KeyProvider, string(llm.KindGemini), "LLM provider: gemini, openai, or anthropic")
	pf.String(config.KeyModel, "", "Model name; empty picks the best available model")
	pf.Float64(config.KeyTemperature, llm.DefaultTemperature, "LLM temperature")
	pf.Int(config.KeyMaxTokens, 4096, "Maximum response tokens")
	pf.String(config.KeyPolicy, "", "Prompt policy: baseline, beginner_zero_shot, or strict_format")
	pf.String(config.KeyPersona, "", "Reader persona; beginner selects the beginner policy")
	pf.Bool(config.KeyShowThinking, true, "Ask the model to surface its reasoning in the spec")
	pf.Duration(config.KeyModelCacheTTL, 10*time.Minute, "How long a fetched model list stays cached")
	pf.Int(config.KeyModelCacheSize, 32, "How many model lists to cache")
	pf.Bool(config.KeyVerbose, false, "Log processing steps to stderr")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.Load(cmd.Flags(), configFile)
		if err != nil {
			return nil, codeError(exitInput, "invalid configuration: %s", err)
		}
		return cfg, nil
	}

	root.AddCommand(newTransmuteCmd(load), newNormalizeCmd(load), newModelsCmd(load))
	return root
}

type configLoader func(cmd *cobra.Command) (*config.Config, error)

// addReportFlags registers the output flags shared by transmute and normalize.
func addReportFlags(f *pflag.FlagSet, flags *reportFlags) {
	f.StringVar(&flags.format, "format", "json", "Output format: json, md, yaml, or text")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&flags.failOn, "fail-on", "", "Exit 2 if the gate is at or above this level (review or blocked)")
	f.StringVar(&flags.severityThreshold, "severity-threshold", "low", "Minimum warning severity to emit: low, medium, high, or critical")
	f.StringArrayVar(&flags.edits, "edit", nil, "Edit a hypothesis field before evaluation, as field=value (may be repeated)")
	f.StringArrayVar(&flags.actions, "apply", nil, "Apply a warning action as warning-id:action-id, or warning-id for its auto action (may be repeated)")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
