package repository

import (
	"context"
	"path/filepath"
	"testing"

	"go-stock-briefing/internal/entity"
	"go-stock-briefing/pkg/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyRepo(t *testing.T) RunHistoryRepository {
	t.Helper()
	db, err := sqlite.NewDB(sqlite.Config{
		Path:     filepath.Join(t.TempDir(), "history.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.DB.AutoMigrate(&entity.BriefingRun{}))
	return NewRunHistoryRepository(db.DB)
}

func TestRunHistory_SaveIsIdempotentPerDate(t *testing.T) {
	repo := historyRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.BriefingRun{
		RunDate: "2026-06-16", Environment: "test",
		Status: "auto_clear", Depth: "concise", TradingDay: true,
	}))
	require.NoError(t, repo.Save(ctx, &entity.BriefingRun{
		RunDate: "2026-06-16", Environment: "test",
		Status: "manual_review", Depth: "detailed", TradingDay: true,
	}))

	runs, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "manual_review", runs[0].Status)
	assert.Equal(t, "detailed", runs[0].Depth)
}

func TestRunHistory_FindLatestBefore(t *testing.T) {
	repo := historyRepo(t)
	ctx := context.Background()

	for _, day := range []string{"2026-06-12", "2026-06-15", "2026-06-16"} {
		require.NoError(t, repo.Save(ctx, &entity.BriefingRun{
			RunDate: day, Environment: "test",
			Status: "auto_clear", Depth: "concise", TradingDay: true,
		}))
	}

	prior, err := repo.FindLatestBefore(ctx, "2026-06-16")
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.Equal(t, "2026-06-15", prior.RunDate)

	none, err := repo.FindLatestBefore(ctx, "2026-06-12")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRunHistory_FindByDate(t *testing.T) {
	repo := historyRepo(t)
	ctx := context.Background()

	missing, err := repo.FindByDate(ctx, "2026-06-16")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Save(ctx, &entity.BriefingRun{
		RunDate: "2026-06-16", Environment: "test",
		Status: "auto_clear", Depth: "concise", TradingDay: true,
	}))

	found, err := repo.FindByDate(ctx, "2026-06-16")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "2026-06-16", found.RunDate)
}
