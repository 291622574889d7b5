package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"weather-talk/internal/models"
)

// ErrNoReport is returned by Latest before any report has been written.
var ErrNoReport = errors.New("no report written yet")

// ReportStore persists the latest talk report as a JSON file and keeps the
// encoded bytes in memory for the health server.
type ReportStore struct {
	filePath string
	latest   []byte
	mu       sync.RWMutex
}

// NewReportStore creates the output directory and loads an existing report,
// if there is one, so a restarted process can serve it right away.
func NewReportStore(filePath string) (*ReportStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &ReportStore{filePath: filePath}
	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	return store, nil
}

// Path returns the file the store writes to.
func (s *ReportStore) Path() string {
	return s.filePath
}

// Save writes the report atomically: readers of the file see either the
// previous report or the new one, never a partial write.
func (s *ReportStore) Save(report *models.TalkReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".weather-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.filePath); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	s.latest = data
	return nil
}

// LatestJSON returns the encoded bytes of the last saved report.
func (s *ReportStore) LatestJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, ErrNoReport
	}
	out := make([]byte, len(s.latest))
	copy(out, s.latest)
	return out, nil
}

// Latest decodes the last saved report.
func (s *ReportStore) Latest() (*models.TalkReport, error) {
	data, err := s.LatestJSON()
	if err != nil {
		return nil, err
	}

	var report models.TalkReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// load reads an existing report file. A missing file leaves the store empty.
func (s *ReportStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open report file: %w", err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("report file %s is not valid JSON", s.filePath)
	}

	s.latest = data
	return nil
}
