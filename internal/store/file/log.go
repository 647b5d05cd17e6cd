package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
)

// maxLogLineBytes caps one JSONL record during scanning.
const maxLogLineBytes = 1 << 20

// ResultLog is an append-only JSONL log, one <domain>_log.jsonl file per
// domain.
type ResultLog struct {
	dir string
	mu  sync.Mutex
}

// NewResultLog creates a log store rooted at dir, creating the directory if
// needed.
func NewResultLog(dir string) (*ResultLog, error) {
	if dir == "" {
		return nil, errors.New("log directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &ResultLog{dir: dir, mu: sync.Mutex{}}, nil
}

// Append records one categorization outcome.
func (l *ResultLog) Append(_ context.Context, entry domain.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path(entry.Domain), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}

// Entries returns all recorded outcomes for a domain, oldest first. Malformed
// lines are skipped, not fatal: the log is written by many processes over
// time and a torn line must not poison mining.
func (l *ResultLog) Entries(_ context.Context, domainKey string) ([]domain.LogEntry, error) {
	f, err := os.Open(l.path(domainKey))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var entries []domain.LogEntry

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineBytes)
	for scanner.Scan() {
		var entry domain.LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return entries, nil
}

func (l *ResultLog) path(domainKey string) string {
	return filepath.Join(l.dir, domainKey+"_log.jsonl")
}
