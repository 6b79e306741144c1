package models

import (
	"time"

	"gorm.io/datatypes"
)

type Candidate struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"candidate_id"`
	Name      string `gorm:"column:name;type:text" json:"name"`
	PhoneE164 string `gorm:"column:phone_e164;type:text;index" json:"phone_e164"`

	// Free-form parsed-resume fields; overwritten whole on attach.
	ResumeMeta datatypes.JSON `gorm:"column:resume_meta;type:jsonb" json:"resume_meta,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Candidate) TableName() string { return "candidates" }
