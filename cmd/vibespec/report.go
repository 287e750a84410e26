package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/integrity"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/render"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/workspace"
)

// reportFlags holds the output flags shared by transmute and normalize.
type reportFlags struct {
	format            string
	out               string
	failOn            string
	severityThreshold string
	edits             []string
	actions           []string
}

// validateReportFlags returns an error if any flag value is invalid.
func validateReportFlags(flags reportFlags) error {
	if !slices.Contains(render.Formats, flags.format) {
		return fmt.Errorf("--format must be one of %s, got %q", strings.Join(render.Formats, ", "), flags.format)
	}

	if flags.failOn != "" {
		switch schema.GateStatus(flags.failOn) {
		case schema.GateReview, schema.GateBlocked:
		default:
			return fmt.Errorf("--fail-on must be review or blocked, got %q", flags.failOn)
		}
	}

	if integrity.SeverityOrdinal(schema.Severity(flags.severityThreshold)) < 0 {
		return fmt.Errorf("--severity-threshold must be low, medium, high, or critical, got %q", flags.severityThreshold)
	}

	for _, e := range flags.edits {
		if _, _, err := parseEdit(e); err != nil {
			return err
		}
	}
	return nil
}

// parseEdit splits "field=value" into a hypothesis field and its new value.
func parseEdit(s string) (schema.Field, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("--edit must be field=value, got %q", s)
	}
	f, err := schema.ParseField(strings.TrimSpace(name))
	if err != nil {
		return "", "", fmt.Errorf("--edit: %w", err)
	}
	return f, value, nil
}

// applyWorkspaceChanges runs the requested edits, then the requested warning
// actions, in order. A failed action restores the panel and is logged; an
// action that cannot be found is an error.
func applyWorkspaceChanges(ctx context.Context, ws *workspace.Workspace, flags reportFlags, logger *slog.Logger) error {
	for _, e := range flags.edits {
		field, value, err := parseEdit(e)
		if err != nil {
			return err
		}
		entry, err := ws.EditHypothesis(ctx, field, value)
		if err != nil {
			return err
		}
		logEntry(logger, entry)
	}
	for _, a := range flags.actions {
		warningID, actionID, hasAction := strings.Cut(a, ":")
		var (
			entry workspace.Entry
			err   error
		)
		if hasAction {
			entry, err = ws.ApplyAction(ctx, warningID, actionID)
		} else {
			entry, err = ws.ApplyAuto(ctx, warningID)
		}
		if err != nil {
			return fmt.Errorf("--apply %s: %w", a, err)
		}
		logEntry(logger, entry)
	}
	return nil
}

func logEntry(logger *slog.Logger, e workspace.Entry) {
	if e.Error != "" {
		logger.Warn("action failed", "layer", e.Layer, "action", e.Action, "error", e.Error)
		return
	}
	logger.Info("action applied", "layer", e.Layer, "action", e.Action, "label", e.Label)
}

// emit filters, renders, and writes the report, then evaluates --fail-on
// against the unfiltered gate.
func emit(report schema.Report, flags reportFlags, logger *slog.Logger) error {
	report.Warnings = integrity.FilterBySeverity(report.Warnings, schema.Severity(flags.severityThreshold))

	logger.Debug("rendering output", "format", flags.format)
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(&report)
	if err != nil {
		return codeError(exitInput, "rendering output: %s", err)
	}
	if err := writeOutput(flags.out, outputBytes); err != nil {
		return err
	}

	if flags.failOn != "" {
		threshold := schema.GateStatus(flags.failOn)
		if schema.GateOrdinal(report.Gate) >= schema.GateOrdinal(threshold) {
			return codeError(exitGate, "gate %s meets or exceeds --fail-on threshold %s", report.Gate, threshold)
		}
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return codeError(exitInput, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return codeError(exitInput, "writing output: %s", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
