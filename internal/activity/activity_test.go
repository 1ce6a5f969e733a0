package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog(t *testing.T, maxEntries int) (*Log, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, maxEntries), mr
}

func TestAppendAndEntries(t *testing.T) {
	l, _ := testLog(t, 0)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, "s1", LevelStatus, "uploading"))
	require.NoError(t, l.Append(ctx, "s1", LevelSuccess, "done"))
	require.NoError(t, l.Append(ctx, "s2", LevelError, "other session"))

	entries, err := l.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Time: fixed, Level: LevelStatus, Message: "uploading"}, entries[0])
	assert.Equal(t, LevelSuccess, entries[1].Level)
}

func TestAppendCapsEntries(t *testing.T) {
	l, _ := testLog(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(ctx, "s", LevelStatus, fmt.Sprintf("m%d", i)))
	}

	entries, err := l.Entries(ctx, "s")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "m2", entries[0].Message)
	assert.Equal(t, "m4", entries[2].Message)
}

func TestAppendSetsTTL(t *testing.T) {
	l, mr := testLog(t, 0)
	require.NoError(t, l.Append(context.Background(), "s", LevelWarning, "w"))
	assert.Equal(t, DefaultTTL, mr.TTL(keyPrefix+"s"))
}

func TestEntriesEmpty(t *testing.T) {
	l, _ := testLog(t, 0)
	entries, err := l.Entries(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClear(t *testing.T) {
	l, _ := testLog(t, 0)
	ctx := context.Background()
	l.Record(ctx, "s", LevelStatus, "imported %d rows", 3)

	entries, _ := l.Entries(ctx, "s")
	require.Len(t, entries, 1)
	assert.Equal(t, "imported 3 rows", entries[0].Message)

	require.NoError(t, l.Clear(ctx, "s"))
	entries, _ = l.Entries(ctx, "s")
	assert.Empty(t, entries)
}
