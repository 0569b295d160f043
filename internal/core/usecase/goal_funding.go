package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savrly/savr/internal/core/logger"
	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
)

const defaultGoalCategory = "General"

// Gamification is the best-effort collaborator for streaks and badges.
// Failures here never block money movement.
type Gamification interface {
	UpdateStreak(ctx context.Context, userID uuid.UUID) error
	CheckGoalCompletionBadges(ctx context.Context, userID uuid.UUID) error
	Status(ctx context.Context, userID uuid.UUID) (*models.GamificationStatus, error)
}

type CreateGoalInput struct {
	Name          string
	TargetAmount  int64
	InitialAmount int64
	TargetDate    time.Time
	Category      string
}

// GoalFunding moves money into and out of goals. The wallet ledger is the
// sole path for the money half; the goal row is updated second, with a
// compensating wallet credit when the goal update fails after a debit.
type GoalFunding interface {
	CreateGoal(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*models.Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]models.Goal, error)
	AddSavings(ctx context.Context, userID, goalID uuid.UUID, amount int64) (*models.Goal, error)
	WithdrawFunds(ctx context.Context, userID, goalID uuid.UUID, amount int64) (*models.Goal, error)
}

type goalFunding struct {
	goals        repository.GoalRepository
	ledger       WalletLedger
	gamification Gamification
	log          logger.Logger
}

func NewGoalFunding(goals repository.GoalRepository, ledger WalletLedger, gamification Gamification, log logger.Logger) GoalFunding {
	return &goalFunding{
		goals:        goals,
		ledger:       ledger,
		gamification: gamification,
		log:          log,
	}
}

func (g *goalFunding) CreateGoal(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*models.Goal, error) {
	if input.TargetAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.InitialAmount < 0 {
		return nil, ErrInvalidAmount
	}
	if input.Name == "" {
		return nil, fmt.Errorf("goal name is required")
	}

	category := input.Category
	if category == "" {
		category = defaultGoalCategory
	}

	goal := &models.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          input.Name,
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.InitialAmount,
		TargetDate:    input.TargetDate,
		Category:      category,
		Status:        models.GoalStatusActive,
	}

	if err := g.goals.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	return goal, nil
}

func (g *goalFunding) ListGoals(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	goals, err := g.goals.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// AddSavings credits the wallet first (the authoritative step), then advances
// the goal. A goal persist failure after the credit is an accepted
// inconsistency: the credit is durable and auditable on its own, and the
// failure is logged with the transaction ID for reconciliation.
func (g *goalFunding) AddSavings(ctx context.Context, userID, goalID uuid.UUID, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if err := g.gamification.UpdateStreak(ctx, userID); err != nil {
		g.log.Warn("streak update failed",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err),
		)
	}

	txID, err := g.ledger.AddFunds(ctx, userID, amount, models.SourceSave, goalID.String())
	if err != nil {
		return nil, err
	}

	goal, err := g.goals.GetByIDForUser(ctx, goalID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			g.logOrphanedCredit(userID, goalID, txID, amount, err)
			return nil, ErrGoalNotFound
		}
		g.logOrphanedCredit(userID, goalID, txID, amount, err)
		return nil, fmt.Errorf("fetch goal: %w", err)
	}

	goal.CurrentAmount += amount
	if goal.CurrentAmount >= goal.TargetAmount &&
		goal.Status != models.GoalStatusCompleted &&
		goal.Status != models.GoalStatusWithdrawn {
		goal.Status = models.GoalStatusCompleted
		if err := g.gamification.CheckGoalCompletionBadges(ctx, userID); err != nil {
			g.log.Warn("badge check failed",
				logger.StringField("user_id", userID.String()),
				logger.ErrorField("error", err),
			)
		}
	}

	if err := g.goals.UpdateProgress(ctx, goal.ID, goal.CurrentAmount, goal.Status); err != nil {
		g.logOrphanedCredit(userID, goalID, txID, amount, err)
		return nil, fmt.Errorf("update goal amount: %w", err)
	}

	return goal, nil
}

// WithdrawFunds debits the wallet and decrements the goal. The goal stays
// "completed" even when its balance reaches zero. If the goal persist fails
// after the debit, the wallet is refunded with a UPI credit referencing the
// debit transaction.
func (g *goalFunding) WithdrawFunds(ctx context.Context, userID, goalID uuid.UUID, amount int64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	goal, err := g.goals.GetByIDForUser(ctx, goalID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("fetch goal: %w", err)
	}

	if goal.Status != models.GoalStatusCompleted {
		return nil, ErrGoalNotCompleted
	}
	if amount > goal.CurrentAmount {
		return nil, ErrInsufficientBalance
	}

	txID, err := g.ledger.WithdrawFunds(ctx, userID, amount, models.SourceWithdraw, goalID.String())
	if err != nil {
		return nil, err
	}

	goal.CurrentAmount -= amount
	goal.Status = models.GoalStatusCompleted

	if err := g.goals.UpdateProgress(ctx, goal.ID, goal.CurrentAmount, goal.Status); err != nil {
		g.refundWallet(ctx, userID, goalID, txID, amount, err)
		return nil, fmt.Errorf("update goal after withdrawal: %w", err)
	}

	return goal, nil
}

// refundWallet compensates a wallet debit whose matching goal update failed.
// The refund credit references the original debit transaction so the two
// halves stay linked in the ledger.
func (g *goalFunding) refundWallet(ctx context.Context, userID, goalID, txID uuid.UUID, amount int64, cause error) {
	refundRef := "REFUND_" + txID.String()
	if _, err := g.ledger.AddFunds(ctx, userID, amount, models.SourceUPI, refundRef); err != nil {
		g.log.Error("CRITICAL: wallet debited, goal update and refund both failed",
			logger.StringField("user_id", userID.String()),
			logger.StringField("goal_id", goalID.String()),
			logger.StringField("transaction_id", txID.String()),
			logger.Int64Field("amount", amount),
			logger.ErrorField("cause", cause),
			logger.ErrorField("refund_error", errors.Join(ErrUnrecoverableInconsistency, err)),
		)
		return
	}

	g.log.Warn("wallet refunded after failed goal update",
		logger.StringField("user_id", userID.String()),
		logger.StringField("goal_id", goalID.String()),
		logger.StringField("transaction_id", txID.String()),
		logger.Int64Field("amount", amount),
	)
}

func (g *goalFunding) logOrphanedCredit(userID, goalID, txID uuid.UUID, amount int64, cause error) {
	g.log.Error("wallet credited but goal not advanced, manual reconciliation required",
		logger.StringField("user_id", userID.String()),
		logger.StringField("goal_id", goalID.String()),
		logger.StringField("transaction_id", txID.String()),
		logger.Int64Field("amount", amount),
		logger.ErrorField("cause", cause),
	)
}
