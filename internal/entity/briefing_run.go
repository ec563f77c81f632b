package entity

import (
	"time"

	"gorm.io/datatypes"
)

// BriefingRun is the persisted run-history row. One row per run date; a
// re-run on the same date overwrites the row.
type BriefingRun struct {
	ID          uint           `gorm:"primaryKey"`
	RunDate     string         `gorm:"uniqueIndex;not null"`
	Environment string         `gorm:"not null"`
	Status      string         `gorm:"not null"`
	Depth       string         `gorm:"not null"`
	TradingDay  bool           `gorm:"not null"`
	Layers      datatypes.JSON `gorm:"type:json"`
	Report      datatypes.JSON `gorm:"type:json"`
	Markdown    string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
