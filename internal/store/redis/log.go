// Package redis provides a Redis-backed categorization log store for
// deployments where multiple workers share one log.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
)

const keyPrefix = "categorization_log:"

// ResultLog implements the domain.ResultLog interface on a Redis list per
// domain. RPUSH preserves append order, so mining sees entries oldest first.
type ResultLog struct {
	client *redis.Client
}

// NewResultLog creates a Redis-backed log store.
func NewResultLog(client *redis.Client) *ResultLog {
	return &ResultLog{client: client}
}

// Append records one categorization outcome.
func (l *ResultLog) Append(ctx context.Context, entry domain.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	if err := l.client.RPush(ctx, keyPrefix+entry.Domain, data).Err(); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}

// Entries returns all recorded outcomes for a domain, oldest first.
// Malformed records are skipped, not fatal.
func (l *ResultLog) Entries(ctx context.Context, domainKey string) ([]domain.LogEntry, error) {
	raw, err := l.client.LRange(ctx, keyPrefix+domainKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read log entries: %w", err)
	}

	entries := make([]domain.LogEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
