package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/application/activity"
	"gorm.io/gorm"
)

// ActivityLogModel is the database model for activity trail entries
type ActivityLogModel struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"index"`
	UserID    uuid.UUID
	UserName  string
	Action    string `gorm:"index"`
	Details   string
}

// TableName returns the table name for activity log entries
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// GormActivityLogRepository persists the activity trail using GORM
type GormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new GormActivityLogRepository
func NewGormActivityLogRepository(db *gorm.DB) *GormActivityLogRepository {
	return &GormActivityLogRepository{db: db}
}

// Record persists a single activity entry
func (r *GormActivityLogRepository) Record(ctx context.Context, entry activity.Entry) error {
	model := ActivityLogModel{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		UserID:    entry.UserID,
		UserName:  entry.UserName,
		Action:    entry.Action,
		Details:   entry.Details,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// Recent returns the most recent activity entries, newest first
func (r *GormActivityLogRepository) Recent(ctx context.Context, limit int) ([]activity.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var models []ActivityLogModel
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]activity.Entry, 0, len(models))
	for _, m := range models {
		entries = append(entries, activity.Entry{
			ID:        m.ID,
			Timestamp: m.Timestamp,
			UserID:    m.UserID,
			UserName:  m.UserName,
			Action:    m.Action,
			Details:   m.Details,
		})
	}
	return entries, nil
}

// Ensure GormActivityLogRepository implements Recorder
var _ activity.Recorder = (*GormActivityLogRepository)(nil)
