package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueryTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := newQueryTracer(zap.New(core), 100*time.Millisecond)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tracer.now = func() time.Time { return clock }

	run := func(sql string, took time.Duration, err error) {
		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql})
		clock = clock.Add(took)
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 3"), Err: err})
	}

	run("SELECT 1", 10*time.Millisecond, nil)
	run("SELECT\n\t  *\n FROM campaigns", 250*time.Millisecond, nil)
	run("SELECT broken", time.Millisecond, errors.New("syntax error"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "SELECT * FROM campaigns", entries[0].ContextMap()["sql"])
	assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	assert.Equal(t, "query failed", entries[1].Message)

	// an end without a start is ignored
	tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Len(t, logs.All(), 2)
}

func TestCompactSQL(t *testing.T) {
	assert.Equal(t, "SELECT id FROM users WHERE id = $1", compactSQL("  SELECT id\n  FROM users\n\tWHERE id = $1 "))

	long := compactSQL("SELECT " + strings.Repeat("x, ", 200))
	assert.Len(t, long, 203)
	assert.True(t, strings.HasSuffix(long, "..."))
}
