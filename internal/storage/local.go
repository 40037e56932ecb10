package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LocalStorage archives run inputs and generated report artifacts on the
// local filesystem, one directory per run:
//
//	<base>/runs/<run-id>/inputs/...
//	<base>/runs/<run-id>/reports/...
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveInput archives an uploaded input file under the run's inputs directory
func (s *LocalStorage) SaveInput(runID, filename string, data []byte) (string, error) {
	return s.save(filepath.Join("runs", runID, "inputs"), filename, data)
}

// SaveArtifact archives a generated report under the run's reports directory
func (s *LocalStorage) SaveArtifact(runID, filename string, data []byte) (string, error) {
	return s.save(filepath.Join("runs", runID, "reports"), filename, data)
}

func (s *LocalStorage) save(subDir, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.basePath, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// ListArtifacts returns the archived report filenames for a run, sorted
func (s *LocalStorage) ListArtifacts(runID string) ([]string, error) {
	dir := filepath.Join(s.basePath, "runs", runID, "reports")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the contents of an archived file
func (s *LocalStorage) Read(relativePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.basePath, relativePath))
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(relativePath string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, relativePath))
	return err == nil
}

// PruneRuns removes archived run directories older than maxAge. Returns the
// number of runs removed.
func (s *LocalStorage) PruneRuns(maxAge time.Duration) (int, error) {
	runsDir := filepath.Join(s.basePath, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(runsDir, e.Name())); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}
