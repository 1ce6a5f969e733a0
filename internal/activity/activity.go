// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package activity keeps the per-session activity log shown in the
// workspace log panel. Entries are appended to a capped Valkey list and
// mirrored to slog.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Level classifies an entry.
type Level string

const (
	LevelStatus  Level = "status"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	keyPrefix = "activity:"

	// DefaultMaxEntries caps each session's log.
	DefaultMaxEntries = 500

	// DefaultTTL expires logs of abandoned sessions.
	DefaultTTL = 7 * 24 * time.Hour
)

// Entry is one line of the activity log.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// Log appends and reads activity entries.
type Log struct {
	client *redis.Client
	max    int64
	ttl    time.Duration
	now    func() time.Time
}

// New creates an activity log. maxEntries <= 0 uses DefaultMaxEntries.
func New(client *redis.Client, maxEntries int) *Log {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Log{client: client, max: int64(maxEntries), ttl: DefaultTTL, now: time.Now}
}

// Append adds an entry to the session's log, dropping the oldest entries
// beyond the cap.
func (l *Log) Append(ctx context.Context, sessionID string, level Level, message string) error {
	mirror(sessionID, level, message)

	entry := Entry{Time: l.now().UTC(), Level: level, Message: message}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("activity marshal: %w", err)
	}

	key := keyPrefix + sessionID
	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, -l.max, -1)
	pipe.Expire(ctx, key, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

// Entries returns the session's log, oldest first.
func (l *Log) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	raw, err := l.client.LRange(ctx, keyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("activity read: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			slog.Warn("activity entry skipped", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Clear removes the session's log.
func (l *Log) Clear(ctx context.Context, sessionID string) error {
	if err := l.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("activity clear: %w", err)
	}
	return nil
}

// Record appends an entry and logs, rather than returns, a failure. Handlers
// use it where a lost log line must not fail the request.
func (l *Log) Record(ctx context.Context, sessionID string, level Level, format string, args ...any) {
	if err := l.Append(ctx, sessionID, level, fmt.Sprintf(format, args...)); err != nil {
		slog.Warn("activity log write failed", "session", shortID(sessionID), "error", err)
	}
}

func mirror(sessionID string, level Level, message string) {
	attrs := []any{"session", shortID(sessionID), "message", message}
	switch level {
	case LevelError:
		slog.Error("activity", attrs...)
	case LevelWarning:
		slog.Warn("activity", attrs...)
	default:
		slog.Info("activity", append(attrs, "level", string(level))...)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
