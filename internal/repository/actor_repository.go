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

// ActorRepository defines persistence access for actors.
type ActorRepository interface {
	Create(ctx context.Context, actor *domain.Actor) error
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Actor, error)
	List(ctx context.Context, filter approval.ActorFilter) ([]domain.Actor, error)
	UpdateSection(ctx context.Context, id, section string) (*domain.Actor, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type actorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository returns a Postgres-backed implementation.
func NewActorRepository(pool *pgxpool.Pool) ActorRepository {
	return &actorRepository{pool: pool}
}

const actorColumns = `id, email, full_name, password_hash, role, department, section, created_at, updated_at`

func (r *actorRepository) Create(ctx context.Context, actor *domain.Actor) error {
	const query = `
        INSERT INTO users (email, full_name, password_hash, role, department, section)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		actor.Email,
		actor.FullName,
		actor.PasswordHash,
		actor.Role,
		actor.Department,
		actor.Section,
	).Scan(&actor.ID, &actor.CreatedAt, &actor.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM users WHERE id=$1`
	return scanActor(r.pool.QueryRow(ctx, query, id))
}

func (r *actorRepository) GetByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM users WHERE LOWER(email)=LOWER($1)`
	return scanActor(r.pool.QueryRow(ctx, query, email))
}

func (r *actorRepository) List(ctx context.Context, filter approval.ActorFilter) ([]domain.Actor, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Section != nil {
		args = append(args, *filter.Section)
		clauses = append(clauses, fmt.Sprintf("section=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY full_name ASC`,
		actorColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Actor
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *actor)
	}
	return result, rows.Err()
}

func (r *actorRepository) UpdateSection(ctx context.Context, id, section string) (*domain.Actor, error) {
	query := `UPDATE users SET section=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + actorColumns
	return scanActor(r.pool.QueryRow(ctx, query, section, id))
}

func (r *actorRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanActor(row pgx.Row) (*domain.Actor, error) {
	var actor domain.Actor
	if err := row.Scan(
		&actor.ID,
		&actor.Email,
		&actor.FullName,
		&actor.PasswordHash,
		&actor.Role,
		&actor.Department,
		&actor.Section,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &actor, nil
}
