package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		recs = append(recs, rec)
	}
	return recs
}

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewJSONLogger(&buf, "debug")
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "request", "path", "/login")
	log.Info(ctx, "signup", "username", "alice")
	log.Warn(ctx, "login failed", "reason", "wrong password")
	log.Error(ctx, "audit write", "error", "db down")

	recs := decodeRecords(t, &buf)
	require.Len(t, recs, 4)

	want := []struct{ level, msg, key, val string }{
		{"DEBUG", "request", "path", "/login"},
		{"INFO", "signup", "username", "alice"},
		{"WARN", "login failed", "reason", "wrong password"},
		{"ERROR", "audit write", "error", "db down"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, recs[i]["level"])
		assert.Equal(t, w.msg, recs[i]["msg"])
		assert.Equal(t, w.val, recs[i][w.key])
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	users := base.With("module", "users")
	users.Info(context.Background(), "created", "user_id", "42")
	base.Info(context.Background(), "bare")

	recs := decodeRecords(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "users", recs[0]["module"])
	assert.Equal(t, "42", recs[0]["user_id"])
	assert.NotContains(t, recs[1], "module")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewJSONLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewJSONLogger(&buf, "warn")
	require.NoError(t, err)

	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "v", rec["k"])
}

func TestNewJSONLogger_BadLevel(t *testing.T) {
	_, err := NewJSONLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.With("a", 1).Info(context.Background(), "discarded")
}
