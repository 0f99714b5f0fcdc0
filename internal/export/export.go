// Package export serializes simulation results to the canonical JSON
// record consumed by downstream analysis tooling, and to an xlsx workbook
// for human inspection.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"stock-backtest-go/internal/backtest"
)

// WriteResult writes the canonical result record to path. The file is
// written to a temporary sibling and renamed into place, so a previous
// result is only ever replaced by a complete new one.
func WriteResult(path string, result *backtest.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".result-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp result file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close result file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace result file: %w", err)
	}
	return nil
}

// ReadResult loads a previously exported result record.
func ReadResult(path string) (*backtest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	var result backtest.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode result file %s: %w", path, err)
	}
	return &result, nil
}
