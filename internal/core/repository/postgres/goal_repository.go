package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
)

type postgresGoalRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresGoalRepo(db *sqlx.DB, log logger.Logger) repository.GoalRepository {
	return &postgresGoalRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresGoalRepo) GetByIDForUser(ctx context.Context, goalID, userID uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	query := `SELECT id, user_id, name, target_amount, current_amount, target_date, category, status, created_at, updated_at
		FROM goals WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &goal, query, goalID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}

	return &goal, nil
}

func (r *postgresGoalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	goals := []models.Goal{}
	query := `SELECT id, user_id, name, target_amount, current_amount, target_date, category, status, created_at, updated_at
		FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (r *postgresGoalRepo) Create(ctx context.Context, goal *models.Goal) error {
	const query = `INSERT INTO goals
		(id, user_id, name, target_amount, current_amount, target_date, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.Category,
		goal.Status,
	)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}

func (r *postgresGoalRepo) UpdateProgress(ctx context.Context, goalID uuid.UUID, currentAmount int64, status models.GoalStatus) error {
	const query = `UPDATE goals SET current_amount = $1, status = $2, updated_at = NOW() WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, currentAmount, status, goalID)
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal progress: rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
