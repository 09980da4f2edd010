package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/internal/domain/repository"
)

type StrategyRepository struct {
	pool *pgxpool.Pool
}

func NewStrategyRepository(pool *pgxpool.Pool) *StrategyRepository {
	return &StrategyRepository{pool: pool}
}

const strategyColumns = `id, user_id, name, strategy_code, analysis, run_state, approval_state, owner_name, owner_email, created_at`

func (r *StrategyRepository) Create(ctx context.Context, s *entity.Strategy) error {
	analysis, err := json.Marshal(s.Analysis)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO strategies (user_id, name, strategy_code, analysis, run_state, approval_state, owner_name, owner_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, s.UserID, s.Name, s.StrategyCode, analysis,
		string(s.RunState), string(s.ApprovalState), s.OwnerName, s.OwnerEmail)

	return row.Scan(&s.ID, &s.CreatedAt)
}

func (r *StrategyRepository) GetByID(ctx context.Context, id string) (*entity.Strategy, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+strategyColumns+` FROM strategies WHERE id = $1
	`, id)
	s, err := scanStrategy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StrategyRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Strategy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+strategyColumns+` FROM strategies
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectStrategies(rows)
}

func (r *StrategyRepository) ListByApproval(ctx context.Context, state entity.ApprovalState) ([]*entity.Strategy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+strategyColumns+` FROM strategies
		WHERE approval_state = $1
		ORDER BY created_at DESC
	`, string(state))
	if err != nil {
		return nil, err
	}
	return collectStrategies(rows)
}

func (r *StrategyRepository) SetApproval(ctx context.Context, id string, state entity.ApprovalState) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE strategies SET approval_state = $1 WHERE id = $2
	`, string(state), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StrategyRepository) SetRunState(ctx context.Context, id string, state entity.RunState) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE strategies SET run_state = $1 WHERE id = $2
	`, string(state), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StrategyRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM strategies`).Scan(&n)
	return n, err
}

func (r *StrategyRepository) CountByApproval(ctx context.Context, state entity.ApprovalState) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM strategies WHERE approval_state = $1
	`, string(state)).Scan(&n)
	return n, err
}

// CountRunning counts approved strategies currently running, the same
// slice the review console charts.
func (r *StrategyRepository) CountRunning(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM strategies WHERE approval_state = 'approved' AND run_state = 'running'
	`).Scan(&n)
	return n, err
}

func scanStrategy(row pgx.Row) (*entity.Strategy, error) {
	s := &entity.Strategy{}
	var analysis []byte
	var runState, approval string
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.StrategyCode, &analysis,
		&runState, &approval, &s.OwnerName, &s.OwnerEmail, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.RunState = entity.RunState(runState)
	s.ApprovalState = entity.ApprovalState(approval)
	if len(analysis) > 0 {
		if err := json.Unmarshal(analysis, &s.Analysis); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func collectStrategies(rows pgx.Rows) ([]*entity.Strategy, error) {
	defer rows.Close()
	var out []*entity.Strategy
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ repository.StrategyRepository = (*StrategyRepository)(nil)
