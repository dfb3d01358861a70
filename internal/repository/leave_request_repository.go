package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/approval"
	"github.com/spec-kit/leave-service/internal/domain"
)

// LeaveRequestRepository encapsulates leave request persistence.
type LeaveRequestRepository interface {
	// Create inserts the request and its submission history entry atomically.
	Create(ctx context.Context, req *domain.LeaveRequest, history *domain.LeaveHistory) error
	GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error)
	ListWithFilter(ctx context.Context, filter approval.LeaveFilter, limit, offset int) ([]domain.LeaveRequest, error)
	// ApplyReview writes a review only if the request is still in update.From.
	// It returns ErrStatusChanged when another writer got there first.
	ApplyReview(ctx context.Context, id string, update approval.ReviewUpdate) error
}

type leaveRequestRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveRequestRepository instantiates repository.
func NewLeaveRequestRepository(pool *pgxpool.Pool) LeaveRequestRepository {
	return &leaveRequestRepository{pool: pool}
}

const leaveRequestSelect = `
        SELECT lr.id, lr.requester_id, lr.category, lr.start_date, lr.end_date, lr.justification, lr.status,
               lr.first_comment, lr.first_reviewed_at, lr.first_reviewer_id,
               lr.final_comment, lr.final_reviewed_at, lr.final_reviewer_id,
               lr.created_at, lr.updated_at,
               u.full_name, u.email, u.department, u.section
        FROM leave_requests lr
        JOIN users u ON u.id = lr.requester_id`

func (r *leaveRequestRepository) Create(ctx context.Context, req *domain.LeaveRequest, history *domain.LeaveHistory) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insertRequest = `
            INSERT INTO leave_requests (requester_id, category, start_date, end_date, justification, status,
                first_comment, first_reviewed_at, first_reviewer_id)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, insertRequest,
			req.RequesterID,
			req.Category,
			req.StartDate,
			req.EndDate,
			req.Justification,
			req.Status,
			req.FirstReview.Comment,
			req.FirstReview.ReviewedAt,
			req.FirstReview.ReviewerID,
		).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return err
		}

		if history == nil {
			return nil
		}
		history.LeaveRequestID = req.ID
		return insertHistory(ctx, tx, history)
	})
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (*domain.LeaveRequest, error) {
	return scanLeaveRequest(r.pool.QueryRow(ctx, leaveRequestSelect+` WHERE lr.id=$1`, id))
}

func (r *leaveRequestRepository) ListWithFilter(ctx context.Context, filter approval.LeaveFilter, limit, offset int) ([]domain.LeaveRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("lr.requester_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("lr.status IN (%s)", strings.Join(placeholders, ",")))
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY lr.created_at DESC LIMIT %d OFFSET %d`,
		leaveRequestSelect, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func (r *leaveRequestRepository) ApplyReview(ctx context.Context, id string, update approval.ReviewUpdate) error {
	prefix := "first"
	if update.Stage == approval.StageFinal {
		prefix = "final"
	}
	query := fmt.Sprintf(`
        UPDATE leave_requests
        SET status=$1, %[1]s_comment=$2, %[1]s_reviewed_at=$3, %[1]s_reviewer_id=$4, updated_at=NOW()
        WHERE id=$5 AND status=$6`, prefix)

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query,
			update.To,
			update.Review.Comment,
			update.Review.ReviewedAt,
			update.Review.ReviewerID,
			id,
			update.From,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrStatusChanged
		}

		from := update.From
		history := &domain.LeaveHistory{
			LeaveRequestID: id,
			ActorID:        update.Review.ReviewerID,
			FromStatus:     &from,
			ToStatus:       update.To,
		}
		if update.Review.Comment != nil {
			history.Comment = *update.Review.Comment
		}
		return insertHistory(ctx, tx, history)
	})
}

func insertHistory(ctx context.Context, tx pgx.Tx, history *domain.LeaveHistory) error {
	const query = `
        INSERT INTO leave_request_history (leave_request_id, actor_id, from_status, to_status, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return tx.QueryRow(ctx, query,
		history.LeaveRequestID,
		history.ActorID,
		history.FromStatus,
		history.ToStatus,
		history.Comment,
	).Scan(&history.ID, &history.CreatedAt)
}

func scanLeaveRequest(row pgx.Row) (*domain.LeaveRequest, error) {
	var (
		req       domain.LeaveRequest
		requester domain.RequesterInfo
	)
	if err := row.Scan(
		&req.ID,
		&req.RequesterID,
		&req.Category,
		&req.StartDate,
		&req.EndDate,
		&req.Justification,
		&req.Status,
		&req.FirstReview.Comment,
		&req.FirstReview.ReviewedAt,
		&req.FirstReview.ReviewerID,
		&req.FinalReview.Comment,
		&req.FinalReview.ReviewedAt,
		&req.FinalReview.ReviewerID,
		&req.CreatedAt,
		&req.UpdatedAt,
		&requester.FullName,
		&requester.Email,
		&requester.Department,
		&requester.Section,
	); err != nil {
		return nil, err
	}
	req.StartDate = domain.TruncateDay(req.StartDate)
	req.EndDate = domain.TruncateDay(req.EndDate)
	req.Requester = &requester
	return &req, nil
}
