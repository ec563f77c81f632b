package delivery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func testReport(t *testing.T) *entity.RunReport {
	t.Helper()
	date, err := time.Parse("2006-01-02", "2026-06-16")
	require.NoError(t, err)
	return &entity.RunReport{
		Date:       date,
		TradingDay: true,
		Status:     entity.StatusAutoClear,
		Depth:      entity.DepthConcise,
	}
}

func TestFileSink_WritesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	sink := NewFileSink(testLogger(t), dir, "2006-01-02.md", false, &out)
	report := testReport(t)

	require.NoError(t, sink.Deliver(context.Background(), report, "# first"))

	path := filepath.Join(dir, "2026-06-16.md")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# first", string(content))

	// A re-run on the same date replaces the artifact.
	require.NoError(t, sink.Deliver(context.Background(), report, "# second"))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# second", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_FallsBackToStreamOnWriteFailure(t *testing.T) {
	// Using a regular file as the report directory makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	var out bytes.Buffer
	sink := NewFileSink(testLogger(t), blocker, "2006-01-02.md", false, &out)

	require.NoError(t, sink.Deliver(context.Background(), testReport(t), "# rescued"))
	assert.Contains(t, out.String(), "# rescued")
}

func TestFileSink_StdoutOnly(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	sink := NewFileSink(testLogger(t), dir, "2006-01-02.md", true, &out)

	require.NoError(t, sink.Deliver(context.Background(), testReport(t), "# report"))

	assert.Contains(t, out.String(), "# report")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
