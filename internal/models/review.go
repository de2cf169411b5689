package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReviewDecision string

const (
	DecisionPending  ReviewDecision = "pending"
	DecisionSelected ReviewDecision = "selected"
	DecisionRejected ReviewDecision = "rejected"
)

// Review is unique per (paper, reviewer) and is only ever written by upsert.
type Review struct {
	ID         uint                        `json:"id" gorm:"primaryKey"`
	PaperID    uint                        `json:"paperId" gorm:"not null;uniqueIndex:idx_review_paper_reviewer,priority:1"`
	ReviewerID uint                        `json:"reviewerId" gorm:"not null;uniqueIndex:idx_review_paper_reviewer,priority:2;index"`
	Comments   string                      `json:"comments" gorm:"type:text"`
	Insights   datatypes.JSONSlice[string] `json:"insights" gorm:"type:jsonb"`
	Decision   ReviewDecision              `json:"decision" gorm:"not null;default:'pending'"`
	CreatedAt  time.Time                   `json:"createdAt"`
	UpdatedAt  time.Time                   `json:"updatedAt"`

	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID;references:ID"`
}

func (Review) TableName() string {
	return "reviews"
}
