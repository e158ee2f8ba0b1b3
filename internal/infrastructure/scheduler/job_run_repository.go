package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRunRecord is one execution of a scheduled job
type JobRunRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	JobName     string     `gorm:"column:job_name;size:100;not null;index"`
	Status      string     `gorm:"column:status;size:20;not null"`
	Error       string     `gorm:"column:last_error;type:text"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (JobRunRecord) TableName() string {
	return "scheduler_job_runs"
}

// JobRunRepository persists job run history
type JobRunRepository struct {
	db *gorm.DB
}

// NewJobRunRepository creates a new JobRunRepository
func NewJobRunRepository(db *gorm.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// RecordJobStart inserts a RUNNING record and returns its id
func (r *JobRunRepository) RecordJobStart(ctx context.Context, jobName string) (uuid.UUID, error) {
	now := time.Now()
	record := &JobRunRecord{
		ID:        uuid.New(),
		JobName:   jobName,
		Status:    string(JobStatusRunning),
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordJobComplete closes a run record
func (r *JobRunRepository) RecordJobComplete(ctx context.Context, runID uuid.UUID, success bool, errMsg string) error {
	now := time.Now()
	status := string(JobStatusSuccess)
	if !success {
		status = string(JobStatusFailed)
	}
	return r.db.WithContext(ctx).
		Model(&JobRunRecord{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"status":       status,
			"last_error":   errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// LastRun returns the most recent run of a job
func (r *JobRunRepository) LastRun(ctx context.Context, jobName string) (*JobRunRecord, error) {
	var record JobRunRecord
	err := r.db.WithContext(ctx).
		Where("job_name = ?", jobName).
		Order("started_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteBefore prunes run history older than cutoff
func (r *JobRunRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("started_at < ?", cutoff).Delete(&JobRunRecord{})
	return result.RowsAffected, result.Error
}

var _ RunRecorder = (*JobRunRepository)(nil)
