package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/pipeline"
)

// formatForPath maps an output file extension to an export format.
// Unknown extensions fall back to JSON; writeLevel rejects them.
func formatForPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "yml":
		return pipeline.FormatYAML
	case "":
		return pipeline.FormatJSON
	default:
		if pipeline.ValidFormats[ext] {
			return ext
		}
		return pipeline.FormatJSON
	}
}

// outputExts lists the file extensions writeLevel understands.
var outputExts = []string{".json", ".yaml", ".yml", ".dot", ".svg", ".png", ".pdf"}

// writeLevel exports l to path in the format its extension names.
func writeLevel(ctx context.Context, l *level.Level, path string, highlight []int) error {
	if err := errors.ValidateOutputPath(path, outputExts...); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	data, err := pipeline.Export(ctx, l, formatForPath(path), highlight)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// backboneEdges returns the edge ids along a node order.
func backboneEdges(l *level.Level, order []int) []int {
	var ids []int
	for i := 0; i+1 < len(order); i++ {
		if id, ok := l.FindEdge(order[i], order[i+1]); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// readLevelArg loads the level named by a positional argument.
func readLevelArg(path string) (*level.Level, error) {
	l, err := level.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	return l, nil
}
