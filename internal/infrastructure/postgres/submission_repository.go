package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/etax-pipeline/internal/domain"
	"github.com/jhoicas/etax-pipeline/internal/domain/entity"
	"github.com/jhoicas/etax-pipeline/internal/domain/repository"
)

var _ repository.SubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo persists the submission journal (usable with pool or tx).
type SubmissionRepo struct {
	q Querier
}

// NewSubmissionRepository builds the adapter. Pass a pool or a tx (Querier).
func NewSubmissionRepository(q Querier) *SubmissionRepo {
	return &SubmissionRepo{q: q}
}

// Create inserts a journal entry. A missing ID gets a fresh UUID; timestamps
// default to now.
func (r *SubmissionRepo) Create(ctx context.Context, s *entity.Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = entity.SubmissionPending
	}

	query := `
		INSERT INTO submissions (id, doc_number, doc_type, status, http_status, response, error_msg, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.DocNumber, s.DocType, s.Status,
		zeroToNull(s.HTTPStatus), nullIfEmpty(s.Response), nullIfEmpty(s.ErrorMsg),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: submission for %s already journaled", domain.ErrDuplicate, s.DocNumber)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// UpdateStatus records a lifecycle transition with the gateway outcome.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, s *entity.Submission) error {
	s.UpdatedAt = time.Now()
	query := `
		UPDATE submissions
		SET status      = $2,
		    http_status = COALESCE($3, http_status),
		    response    = COALESCE($4, response),
		    error_msg   = $5,
		    updated_at  = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.Status, zeroToNull(s.HTTPStatus), nullIfEmpty(s.Response),
		nullIfEmpty(s.ErrorMsg), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: submission %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// GetByID fetches one journal entry.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByDocNumber fetches the latest journal entry for a document number.
func (r *SubmissionRepo) GetByDocNumber(ctx context.Context, docNumber string) (*entity.Submission, error) {
	return r.getOne(ctx, `WHERE doc_number = $1 ORDER BY created_at DESC LIMIT 1`, docNumber)
}

func (r *SubmissionRepo) getOne(ctx context.Context, where string, arg any) (*entity.Submission, error) {
	query := `
		SELECT id, doc_number, doc_type, status,
		       COALESCE(http_status, 0), COALESCE(response, ''), COALESCE(error_msg, ''),
		       created_at, updated_at
		FROM submissions ` + where

	var s entity.Submission
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.DocNumber, &s.DocType, &s.Status,
		&s.HTTPStatus, &s.Response, &s.ErrorMsg,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: submission", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &s, nil
}

// ListRecent returns the newest journal entries, newest first.
func (r *SubmissionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, doc_number, doc_type, status,
		       COALESCE(http_status, 0), COALESCE(response, ''), COALESCE(error_msg, ''),
		       created_at, updated_at
		FROM submissions
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Submission
	for rows.Next() {
		var s entity.Submission
		if err := rows.Scan(
			&s.ID, &s.DocNumber, &s.DocType, &s.Status,
			&s.HTTPStatus, &s.Response, &s.ErrorMsg,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func zeroToNull(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
