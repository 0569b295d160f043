package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
)

// Dashboard fans out the four read paths concurrently and composes a single
// view. Any failed read fails the whole call; there is no partial result.
type Dashboard interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error)
}

type dashboard struct {
	goals        GoalFunding
	ledger       WalletLedger
	profiles     repository.ProfileRepository
	gamification Gamification
}

func NewDashboard(goals GoalFunding, ledger WalletLedger, profiles repository.ProfileRepository, gamification Gamification) Dashboard {
	return &dashboard{
		goals:        goals,
		ledger:       ledger,
		profiles:     profiles,
		gamification: gamification,
	}
}

func (d *dashboard) Get(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	var view models.Dashboard

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		view.Goals, err = d.goals.ListGoals(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Wallet, err = d.ledger.GetWallet(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Profile, err = d.fetchProfile(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		view.Gamification, err = d.gamification.Status(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &view, nil
}

func (d *dashboard) fetchProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := d.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
