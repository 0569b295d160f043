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

type postgresProfileRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresProfileRepo(db *sqlx.DB, log logger.Logger) repository.ProfileRepository {
	return &postgresProfileRepo{db: db, log: log}
}

func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT user_id, name, email, upi_id, created_at FROM profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}
