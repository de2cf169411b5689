package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
)

// CoordinatorOverride labels accepted papers that no reviewer selected.
const CoordinatorOverride = "Coordinator override"

// AcceptedColumns is the fixed column order of the accepted-papers report.
var AcceptedColumns = []string{"reviewerName", "track", "authorEmail", "contactNumber"}

type StatsService struct {
	store *repository.Store
}

func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

type Progress struct {
	TotalAssigned int `json:"totalAssigned"`
	ReviewedCount int `json:"reviewedCount"`
	PendingCount  int `json:"pendingCount"`
}

type EventStats struct {
	TotalPapers       int64            `json:"totalPapers"`
	Selected          int64            `json:"selected"`
	Rejected          int64            `json:"rejected"`
	Pending           int64            `json:"pending"`
	TotalAssignments  int64            `json:"totalAssignments"`
	DistinctReviewers int64            `json:"distinctReviewers"`
	TotalReviews      int64            `json:"totalReviews"`
	Tracks            map[string]int64 `json:"tracks"`
}

type PendingReportEvent struct {
	Title            string     `json:"title"`
	Date             time.Time  `json:"date"`
	ReviewDeadline   *time.Time `json:"reviewDeadline"`
	DeadlineDaysLeft *int       `json:"deadlineDaysLeft"`
}

type PendingReportSummary struct {
	TotalReviewers int `json:"totalReviewers"`
	TotalAssigned  int `json:"totalAssigned"`
	TotalReviewed  int `json:"totalReviewed"`
	TotalPending   int `json:"totalPending"`
}

type ReviewerWorkload struct {
	ReviewerID    uint   `json:"reviewerId"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
	TotalAssigned int    `json:"totalAssigned"`
	ReviewedCount int    `json:"reviewedCount"`
	PendingCount  int    `json:"pendingCount"`
}

type PendingReport struct {
	Event   PendingReportEvent   `json:"event"`
	Summary PendingReportSummary `json:"summary"`
	Items   []ReviewerWorkload   `json:"items"`
}

type AcceptedRow struct {
	ReviewerName  string `json:"reviewerName"`
	Track         string `json:"track"`
	AuthorEmail   string `json:"authorEmail"`
	ContactNumber string `json:"contactNumber"`
}

// Values returns the row in AcceptedColumns order.
func (r AcceptedRow) Values() []string {
	return []string{r.ReviewerName, r.Track, r.AuthorEmail, r.ContactNumber}
}

// ReviewerProgress counts the reviewer's assigned papers in the event and how
// many of them already have a review by that reviewer.
func (s *StatsService) ReviewerProgress(ctx context.Context, eventID, reviewerID uint) (Progress, error) {
	assignments, err := s.store.Assignments.ListByEvent(ctx, eventID, &reviewerID)
	if err != nil {
		return Progress{}, err
	}
	paperIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		paperIDs = append(paperIDs, a.PaperID)
	}
	reviewed, err := s.reviewedBy(ctx, reviewerID, paperIDs)
	if err != nil {
		return Progress{}, err
	}
	return computeProgress(paperIDs, reviewed), nil
}

func (s *StatsService) EventStats(ctx context.Context, eventID uint) (EventStats, error) {
	if _, err := s.store.Events.GetByID(ctx, eventID); err != nil {
		return EventStats{}, notFoundOr(err, "Event not found")
	}

	byResult, err := s.store.Papers.CountByResult(ctx, eventID)
	if err != nil {
		return EventStats{}, err
	}
	stats := EventStats{
		Selected: byResult[models.ResultStatusSelected],
		Rejected: byResult[models.ResultStatusRejected],
	}
	for status, n := range byResult {
		stats.TotalPapers += n
		if status.Pending() {
			stats.Pending += n
		}
	}

	if stats.TotalAssignments, err = s.store.Assignments.CountByEvent(ctx, eventID); err != nil {
		return EventStats{}, err
	}
	if stats.DistinctReviewers, err = s.store.Assignments.CountDistinctReviewers(ctx, eventID); err != nil {
		return EventStats{}, err
	}
	if stats.TotalReviews, err = s.store.Reviews.CountForEvent(ctx, eventID); err != nil {
		return EventStats{}, err
	}
	if stats.Tracks, err = s.store.Papers.CountByTrack(ctx, eventID); err != nil {
		return EventStats{}, err
	}
	return stats, nil
}

// PendingReviewersReport summarizes every reviewer's workload in the event.
// DeadlineDaysLeft is rounded up, so any time left on the last day counts as
// a full day.
func (s *StatsService) PendingReviewersReport(ctx context.Context, eventID uint, now time.Time) (PendingReport, error) {
	event, err := s.store.Events.GetByID(ctx, eventID)
	if err != nil {
		return PendingReport{}, notFoundOr(err, "Event not found")
	}
	items, err := s.Workloads(ctx, eventID)
	if err != nil {
		return PendingReport{}, err
	}

	report := PendingReport{
		Event: PendingReportEvent{
			Title:            event.Title,
			Date:             event.Date,
			ReviewDeadline:   event.ReviewDeadline,
			DeadlineDaysLeft: DeadlineDaysLeft(event.ReviewDeadline, now),
		},
		Items: items,
	}
	report.Summary.TotalReviewers = len(items)
	for _, item := range items {
		report.Summary.TotalAssigned += item.TotalAssigned
		report.Summary.TotalReviewed += item.ReviewedCount
		report.Summary.TotalPending += item.PendingCount
	}
	return report, nil
}

// Workloads returns per-reviewer assignment counts for the event, ordered by
// reviewer name.
func (s *StatsService) Workloads(ctx context.Context, eventID uint) ([]ReviewerWorkload, error) {
	assignments, err := s.store.Assignments.ListByEvent(ctx, eventID, nil)
	if err != nil {
		return nil, err
	}

	paperIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		paperIDs = append(paperIDs, a.PaperID)
	}
	reviews, err := s.store.Reviews.ListByPapers(ctx, paperIDs)
	if err != nil {
		return nil, err
	}
	type pair struct{ paperID, reviewerID uint }
	reviewed := make(map[pair]bool, len(reviews))
	for _, r := range reviews {
		reviewed[pair{r.PaperID, r.ReviewerID}] = true
	}

	byReviewer := make(map[uint]*ReviewerWorkload)
	for _, a := range assignments {
		if a.Reviewer == nil {
			continue
		}
		w, ok := byReviewer[a.ReviewerID]
		if !ok {
			w = &ReviewerWorkload{
				ReviewerID:    a.ReviewerID,
				ReviewerName:  a.Reviewer.Name,
				ReviewerEmail: a.Reviewer.Email,
			}
			byReviewer[a.ReviewerID] = w
		}
		w.TotalAssigned++
		if reviewed[pair{a.PaperID, a.ReviewerID}] {
			w.ReviewedCount++
		}
	}

	items := make([]ReviewerWorkload, 0, len(byReviewer))
	for _, w := range byReviewer {
		w.PendingCount = pendingCount(w.TotalAssigned, w.ReviewedCount)
		items = append(items, *w)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ReviewerName != items[j].ReviewerName {
			return items[i].ReviewerName < items[j].ReviewerName
		}
		return items[i].ReviewerID < items[j].ReviewerID
	})
	return items, nil
}

// AcceptedReportRows builds one row per selected paper. The reviewer is the
// one whose selecting review was updated last; papers selected only by a
// coordinator get CoordinatorOverride.
func (s *StatsService) AcceptedReportRows(ctx context.Context, eventID uint) ([]AcceptedRow, error) {
	papers, err := s.store.Papers.ListByResult(ctx, eventID, models.ResultStatusSelected)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return []AcceptedRow{}, nil
	}

	paperIDs := make([]uint, len(papers))
	for i, p := range papers {
		paperIDs[i] = p.ID
	}
	reviews, err := s.store.Reviews.ListSelected(ctx, paperIDs)
	if err != nil {
		return nil, err
	}
	latest := make(map[uint]models.Review, len(reviews))
	for _, r := range reviews {
		if _, seen := latest[r.PaperID]; !seen {
			latest[r.PaperID] = r
		}
	}

	rows := make([]AcceptedRow, 0, len(papers))
	for _, p := range papers {
		row := AcceptedRow{ReviewerName: CoordinatorOverride, Track: p.Track}
		if r, ok := latest[p.ID]; ok && r.Reviewer != nil && r.Reviewer.Name != "" {
			row.ReviewerName = r.Reviewer.Name
		}
		if p.Publisher != nil {
			row.AuthorEmail = p.Publisher.Email
			row.ContactNumber = p.Publisher.ContactNumber
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// reviewedBy reports, per paper, whether reviewerID has a review row for it.
func (s *StatsService) reviewedBy(ctx context.Context, reviewerID uint, paperIDs []uint) (map[uint]bool, error) {
	reviewed := make(map[uint]bool)
	if len(paperIDs) == 0 {
		return reviewed, nil
	}
	reviews, err := s.store.Reviews.ListByPapers(ctx, paperIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		if r.ReviewerID == reviewerID {
			reviewed[r.PaperID] = true
		}
	}
	return reviewed, nil
}

func computeProgress(paperIDs []uint, reviewed map[uint]bool) Progress {
	p := Progress{TotalAssigned: len(paperIDs)}
	for _, id := range paperIDs {
		if reviewed[id] {
			p.ReviewedCount++
		}
	}
	p.PendingCount = pendingCount(p.TotalAssigned, p.ReviewedCount)
	return p
}

func pendingCount(total, reviewed int) int {
	if reviewed >= total {
		return 0
	}
	return total - reviewed
}

// DeadlineDaysLeft returns the whole days until deadline, rounded up, or nil
// when there is no deadline.
func DeadlineDaysLeft(deadline *time.Time, now time.Time) *int {
	if deadline == nil {
		return nil
	}
	days := int(math.Ceil(float64(deadline.Sub(now)) / float64(24*time.Hour)))
	return &days
}
