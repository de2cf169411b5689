package models

import "time"

type Event struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description" gorm:"type:text;not null"`
	Date           time.Time  `json:"date" gorm:"not null;index"`
	ReviewDeadline *time.Time `json:"reviewDeadline,omitempty" gorm:"index"`
	BannerURL      string     `json:"bannerUrl,omitempty"`
	CreatedBy      uint       `json:"createdBy" gorm:"not null"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Event) TableName() string {
	return "events"
}

// EventSummary is embedded in paper responses.
type EventSummary struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Date           time.Time  `json:"date"`
	ReviewDeadline *time.Time `json:"reviewDeadline,omitempty"`
}

func (e Event) Summary() EventSummary {
	return EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, ReviewDeadline: e.ReviewDeadline}
}
