package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaperStatus tracks insight extraction only.
type PaperStatus string

const (
	PaperStatusSubmitted  PaperStatus = "submitted"
	PaperStatusProcessing PaperStatus = "processing"
	PaperStatusReviewed   PaperStatus = "reviewed"
)

// AdminStatus is the coordinator gate. It says nothing about the review outcome.
type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

// ResultStatus is the author-visible review outcome.
type ResultStatus string

const (
	ResultStatusSubmitted ResultStatus = "submitted"
	ResultStatusSelected  ResultStatus = "selected"
	ResultStatusRejected  ResultStatus = "rejected"
	ResultStatusResultOut ResultStatus = "resultOut"
)

// Paper carries three independent status fields; none is derived from another.
type Paper struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Title        string                      `json:"title" gorm:"not null"`
	Track        string                      `json:"track" gorm:"not null;index:idx_papers_track_created,priority:1"`
	FileURL      string                      `json:"fileUrl" gorm:"not null"`
	PublisherID  uint                        `json:"publisherId" gorm:"not null;index"`
	EventID      uint                        `json:"eventId" gorm:"not null;index"`
	Insights     datatypes.JSONSlice[string] `json:"insights" gorm:"type:jsonb"`
	Status       PaperStatus                 `json:"status" gorm:"not null;default:'submitted'"`
	AdminStatus  AdminStatus                 `json:"adminStatus" gorm:"not null;default:'pending';index"`
	ResultStatus ResultStatus                `json:"resultStatus" gorm:"not null;default:'submitted';index"`
	CreatedAt    time.Time                   `json:"createdAt" gorm:"index:idx_papers_track_created,priority:2"`
	UpdatedAt    time.Time                   `json:"updatedAt"`

	Publisher *User  `json:"publisher,omitempty" gorm:"foreignKey:PublisherID;references:ID"`
	Event     *Event `json:"event,omitempty" gorm:"foreignKey:EventID;references:ID"`
}

func (Paper) TableName() string {
	return "papers"
}

// Pending reports whether a paper in this result status still awaits a
// decision. Rows written before the column had a default carry "".
func (s ResultStatus) Pending() bool {
	return s == "" || s == ResultStatusSubmitted
}

func ValidAdminStatus(s string) bool {
	return s == string(AdminStatusApproved) || s == string(AdminStatusRejected)
}

// ValidDecision reports whether s is a decision a reviewer or coordinator may set.
func ValidDecision(s string) bool {
	return s == string(ResultStatusSelected) || s == string(ResultStatusRejected)
}
