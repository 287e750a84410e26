package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/schema"
)

var (
	layerIDPattern     = regexp.MustCompile(`L[1-5]`)
	layerMarkerPattern = regexp.MustCompile(`(?i)(L[1-5])\s*[:：-]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
)

type layerPart struct {
	layer string
	goal  string
}

// collectLayerIDs returns the distinct layer tags in s, in order of appearance.
func collectLayerIDs(s string) []string {
	var ids []string
	seen := map[string]bool{}
	for _, id := range layerIDPattern.FindAllString(strings.ToUpper(s), -1) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// parseLayerBlob splits text carrying inline "L1: ... L2: ..." markers into
// (layer, goal) pairs. Fewer than two markers is not a blob.
func parseLayerBlob(text string) []layerPart {
	src := strings.ReplaceAll(strings.TrimSpace(text), "\r", "\n")
	if src == "" {
		return nil
	}
	locs := layerMarkerPattern.FindAllStringSubmatchIndex(src, -1)
	if len(locs) < 2 {
		return nil
	}
	var parts []layerPart
	for i, loc := range locs {
		end := len(src)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(whitespaceRun.ReplaceAllString(src[loc[1]:end], " "))
		if body == "" {
			continue
		}
		parts = append(parts, layerPart{layer: strings.ToUpper(src[loc[2]:loc[3]]), goal: body})
	}
	return parts
}

// normalizeLayerGuide reconciles the source layer guide into exactly five
// entries keyed L1..L5. Each source item is resolved by a single layer tag,
// then by inline blob markers, then by position. The first write to a layer
// wins; unfilled layers come from defaultLayers.
func normalizeLayerGuide(v any) []schema.LayerEntry {
	defaults := defaultLayers()
	byLayer := make(map[string]schema.LayerEntry, len(defaults))
	for _, d := range defaults {
		byLayer[d.Layer] = d
	}
	filled := map[string]schema.LayerEntry{}

	upsert := func(layer, goal, output string) {
		if _, ok := filled[layer]; ok {
			return
		}
		d, ok := byLayer[layer]
		if !ok {
			return
		}
		if goal == "" {
			goal = d.Goal
		}
		if output == "" {
			output = d.Output
		}
		filled[layer] = schema.LayerEntry{Layer: layer, Goal: goal, Output: output}
	}

	items, _ := v.([]any)
	for idx, item := range items {
		obj := asObject(item)
		rawLayer := Text(pick(obj, keyLayer...), "")
		rawGoal := Text(pick(obj, keyGoal...), "")
		rawOutput := Text(pick(obj, keyOutput...), "")

		if ids := collectLayerIDs(rawLayer); len(ids) == 1 {
			upsert(ids[0], rawGoal, rawOutput)
			continue
		}

		var chunks []string
		for _, c := range []string{rawLayer, rawGoal, rawOutput} {
			if c != "" {
				chunks = append(chunks, c)
			}
		}
		if parts := parseLayerBlob(strings.Join(chunks, "\n")); len(parts) > 0 {
			for _, p := range parts {
				upsert(p.layer, p.goal, "")
			}
			continue
		}

		upsert(fmt.Sprintf("L%d", min(idx+1, schema.LayerCount)), rawGoal, rawOutput)
	}

	out := make([]schema.LayerEntry, 0, len(defaults))
	for _, d := range defaults {
		if e, ok := filled[d.Layer]; ok {
			out = append(out, e)
			continue
		}
		out = append(out, d)
	}
	return out
}
