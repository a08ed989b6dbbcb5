package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/meezumi/content-review-platform/internal/domain"
	"github.com/meezumi/content-review-platform/internal/repository"
)

const activityWindow = 30 * 24 * time.Hour

type DocumentRepo interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.DocumentStatus) (int64, error)
	CountPerCategory(ctx context.Context) ([]repository.CategoryCount, error)
	UploadsPerDay(ctx context.Context, since time.Time) ([]repository.DailyCount, error)
}

type UserRepo interface {
	Count(ctx context.Context) (int64, error)
}

type CommentRepo interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	TotalDocs     int64 `json:"totalDocs"`
	TotalUsers    int64 `json:"totalUsers"`
	TotalComments int64 `json:"totalComments"`
	ApprovedDocs  int64 `json:"approvedDocs"`
}

// Service aggregates platform-wide counters for the dashboard.
type Service struct {
	docs     DocumentRepo
	users    UserRepo
	comments CommentRepo
}

func NewService(docs DocumentRepo, users UserRepo, comments CommentRepo) *Service {
	return &Service{docs: docs, users: users, comments: comments}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	totalDocs, err := s.docs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalComments, err := s.comments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	approved, err := s.docs.CountByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("count approved: %w", err)
	}

	return &Stats{
		TotalDocs:     totalDocs,
		TotalUsers:    totalUsers,
		TotalComments: totalComments,
		ApprovedDocs:  approved,
	}, nil
}

func (s *Service) DocsByCategory(ctx context.Context) ([]repository.CategoryCount, error) {
	rows, err := s.docs.CountPerCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count per category: %w", err)
	}
	if rows == nil {
		rows = []repository.CategoryCount{}
	}
	return rows, nil
}

func (s *Service) ActivityOverTime(ctx context.Context) ([]repository.DailyCount, error) {
	rows, err := s.docs.UploadsPerDay(ctx, time.Now().Add(-activityWindow))
	if err != nil {
		return nil, fmt.Errorf("uploads per day: %w", err)
	}
	if rows == nil {
		rows = []repository.DailyCount{}
	}
	return rows, nil
}
