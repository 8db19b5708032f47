package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eed-project/eedx/pkg/normalize"
)

// Diagnostics file names, one pair per directory, overwritten on each run.
const (
	unresolvedFile = "unresolved_countries.json"
	factsFile      = "facts.json"
)

// writeDiagnostics dumps the unresolved country names and the full normalized
// fact set for the most recent run. The files are informational only, so
// failures are logged and swallowed.
func writeDiagnostics(dir string, result normalize.Result, logger *zap.Logger) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("create diagnostics dir", zap.String("dir", dir), zap.Error(err))
		return
	}

	dumpJSON(filepath.Join(dir, unresolvedFile), result.Unresolved, logger)
	dumpJSON(filepath.Join(dir, factsFile), result.Facts, logger)
}

func dumpJSON(path string, v any, logger *zap.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("marshal diagnostics", zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("write diagnostics", zap.String("path", path), zap.Error(err))
	}
}
