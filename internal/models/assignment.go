package models

import "time"

// Assignment links a reviewer to a paper within an event. Rows are never
// updated; the triple is unique.
type Assignment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    uint      `json:"eventId" gorm:"not null;uniqueIndex:idx_assignment_triple,priority:1;index:idx_assignment_reviewer_event,priority:2"`
	PaperID    uint      `json:"paperId" gorm:"not null;uniqueIndex:idx_assignment_triple,priority:2"`
	ReviewerID uint      `json:"reviewerId" gorm:"not null;uniqueIndex:idx_assignment_triple,priority:3;index:idx_assignment_reviewer_event,priority:1"`
	AssignedBy uint      `json:"assignedBy" gorm:"not null"`
	AssignedAt time.Time `json:"assignedAt"`
	CreatedAt  time.Time `json:"createdAt"`

	Paper    *Paper `json:"paper,omitempty" gorm:"foreignKey:PaperID;references:ID"`
	Reviewer *User  `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID;references:ID"`
}

func (Assignment) TableName() string {
	return "assignments"
}
