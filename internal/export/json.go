// Package export renders ProcessorResults to a persisted JSON form: one file
// per run, named httprunner_results_<unix-secs>.json, indented when pretty
// output is requested and compact otherwise.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmcszk/go-httprunner/internal/model"
)

// JSON renders results as JSON text, indented when pretty is true and
// compact otherwise.
func JSON(results model.ProcessorResults, pretty bool) ([]byte, error) {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(results, "", "  ")
	} else {
		b, err = json.Marshal(results)
	}
	if err != nil {
		return nil, fmt.Errorf("export: marshaling results: %w", err)
	}
	return b, nil
}

// WriteJSONFile renders results and writes them to
// outputDir/httprunner_results_<unixSecs>.json, returning the filename
// written (not the full path), matching the reference exporter's return
// contract.
func WriteJSONFile(results model.ProcessorResults, outputDir string, unixSecs int64, pretty bool) (string, error) {
	data, err := JSON(results, pretty)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("httprunner_results_%d.json", unixSecs)
	path := filename
	if outputDir != "" {
		path = filepath.Join(outputDir, filename)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: writing %s: %w", path, err)
	}
	return filename, nil
}
