package repository

import (
	"context"
	"errors"

	"go-stock-briefing/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RunHistoryRepository persists one row per run date. Saving an existing
// date replaces the row, making persistence idempotent per date.
type RunHistoryRepository interface {
	Save(ctx context.Context, run *entity.BriefingRun) error
	FindByDate(ctx context.Context, runDate string) (*entity.BriefingRun, error)
	FindLatestBefore(ctx context.Context, runDate string) (*entity.BriefingRun, error)
	List(ctx context.Context, limit int) ([]entity.BriefingRun, error)
}

type runHistoryRepository struct {
	db *gorm.DB
}

// NewRunHistoryRepository creates a new run-history repository.
func NewRunHistoryRepository(db *gorm.DB) RunHistoryRepository {
	return &runHistoryRepository{db: db}
}

func (r *runHistoryRepository) Save(ctx context.Context, run *entity.BriefingRun) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "run_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"environment", "status", "depth", "trading_day", "layers", "report", "markdown", "updated_at",
		}),
	}).Create(run).Error
}

func (r *runHistoryRepository) FindByDate(ctx context.Context, runDate string) (*entity.BriefingRun, error) {
	var run entity.BriefingRun
	err := r.db.WithContext(ctx).Where("run_date = ?", runDate).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runHistoryRepository) FindLatestBefore(ctx context.Context, runDate string) (*entity.BriefingRun, error) {
	var run entity.BriefingRun
	err := r.db.WithContext(ctx).Where("run_date < ?", runDate).Order("run_date desc").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runHistoryRepository) List(ctx context.Context, limit int) ([]entity.BriefingRun, error) {
	var runs []entity.BriefingRun
	query := r.db.WithContext(ctx).Order("run_date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
