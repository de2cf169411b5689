package models

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

const JobTypeInsightExtraction = "insight_extraction"

// Job records one background task so coordinators can see what happened to it.
type Job struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Type        string     `json:"type" gorm:"not null"`
	PaperID     uint       `json:"paperId" gorm:"not null;index"`
	Status      JobStatus  `json:"status" gorm:"not null;default:'pending'"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	Error       string     `json:"error,omitempty" gorm:"type:text"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}
