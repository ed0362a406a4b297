package repository

import (
	"context"

	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
)

// SubmissionRepository is the persistence port for the submission journal.
type SubmissionRepository interface {
	Create(ctx context.Context, s *entity.Submission) error
	// UpdateStatus records a lifecycle transition together with the gateway
	// HTTP status, raw response body, and error text when present.
	UpdateStatus(ctx context.Context, s *entity.Submission) error
	GetByID(ctx context.Context, id string) (*entity.Submission, error)
	GetByDocNumber(ctx context.Context, docNumber string) (*entity.Submission, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Submission, error)
}
