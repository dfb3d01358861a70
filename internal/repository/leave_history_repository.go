package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// LeaveHistoryRepository reads the audit trail. Entries are written by
// LeaveRequestRepository inside the status-changing transaction.
type LeaveHistoryRepository interface {
	ListByRequest(ctx context.Context, leaveRequestID string) ([]domain.LeaveHistory, error)
}

type leaveHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewLeaveHistoryRepository builds repository.
func NewLeaveHistoryRepository(pool *pgxpool.Pool) LeaveHistoryRepository {
	return &leaveHistoryRepository{pool: pool}
}

func (r *leaveHistoryRepository) ListByRequest(ctx context.Context, leaveRequestID string) ([]domain.LeaveHistory, error) {
	const query = `
        SELECT id, leave_request_id, actor_id, from_status, to_status, comment, created_at
        FROM leave_request_history WHERE leave_request_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, leaveRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LeaveHistory
	for rows.Next() {
		var history domain.LeaveHistory
		if err := rows.Scan(
			&history.ID,
			&history.LeaveRequestID,
			&history.ActorID,
			&history.FromStatus,
			&history.ToStatus,
			&history.Comment,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
