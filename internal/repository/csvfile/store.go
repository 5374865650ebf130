// Package csvfile persists users and per-user application collections as CSV
// files on local disk. Each user's collection is one file rewritten whole on
// every mutation; a per-username mutex serializes same-owner writers so
// concurrent updates cannot lose each other.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the data directory and the per-owner lock registry shared by the
// application and user repositories.
type Store struct {
	dataDir string

	userMu sync.Mutex // serializes users.csv access

	mu     sync.Mutex // guards owners
	owners map[string]*sync.Mutex
}

// NewStore prepares dataDir and returns a Store both repositories hang off.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dataDir: dataDir,
		owners:  make(map[string]*sync.Mutex),
	}, nil
}

// PingContext reports whether the data directory is still reachable, so the
// health endpoint works the same against either backend.
func (s *Store) PingContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dataDir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dataDir)
	}
	return nil
}

// ownerLock returns the mutex dedicated to one username's collection,
// creating it on first use. Locks are never released from the registry; the
// user population is small and bounded.
func (s *Store) ownerLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.owners[username]
	if !ok {
		l = &sync.Mutex{}
		s.owners[username] = l
	}
	return l
}

func (s *Store) applicationsPath(username string) string {
	return filepath.Join(s.dataDir, "applications_"+username+".csv")
}

func (s *Store) usersPath() string {
	return filepath.Join(s.dataDir, "users.csv")
}

// readRecords loads a CSV file as raw records without the header row. A
// missing file reads as empty. Records may have fewer columns than the
// current header; callers fill in legacy defaults.
func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // legacy files may lack trailing columns
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

// writeRecords rewrites path with a header row followed by records.
func writeRecords(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// field returns record[i] or "" when the record is a short legacy row.
func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
