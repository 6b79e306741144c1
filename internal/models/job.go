package models

import (
	"time"

	"github.com/lib/pq"
)

// Job is immutable once created: a job description plus the interview
// questions generated from it.
type Job struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"job_id"`
	JDText    string         `gorm:"column:jd_text;type:text" json:"jd_text"`
	Questions pq.StringArray `gorm:"column:questions;type:text[]" json:"questions"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Job) TableName() string { return "jobs" }
