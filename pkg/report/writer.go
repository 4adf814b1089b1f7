package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteJSON serializes the report to the writer.
// If pretty is true, the JSON is indented for readability.
func WriteJSON(r *Report, w io.Writer, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report artifact to the given path, creating parent
// directories as needed. The report is always persisted, whether or not
// the run had deletion failures.
func WriteFile(r *Report, path string, pretty bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(r, f, pretty); err != nil {
		return err
	}
	return f.Close()
}
