package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/usecase"
)

func seedGoal(goals *fakeGoalRepo, userID uuid.UUID, current, target int64, status models.GoalStatus) *models.Goal {
	goal := &models.Goal{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          "Emergency Fund",
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    time.Now().AddDate(0, 6, 0),
		Category:      "General",
		Status:        status,
	}
	goals.seed(goal)
	return goal
}

func TestAddSavingsCompletesGoalAtTarget(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{}
	gamify := &fakeGamification{}
	funding := usecase.NewGoalFunding(goals, ledger, gamify, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 900, 1000, models.GoalStatusActive)

	updated, err := funding.AddSavings(context.Background(), userID, goal.ID, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), updated.CurrentAmount)
	assert.Equal(t, models.GoalStatusCompleted, updated.Status)
	assert.Equal(t, 1, gamify.badgeCalls)
	assert.Equal(t, 1, gamify.streakCalls)

	require.Len(t, ledger.addCalls, 1)
	assert.Equal(t, models.SourceSave, ledger.addCalls[0].source)
	assert.Equal(t, goal.ID.String(), ledger.addCalls[0].referenceID)

	stored := goals.stored(goal.ID)
	assert.Equal(t, models.GoalStatusCompleted, stored.Status)
}

func TestAddSavingsStaysActiveUnderTarget(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{}
	gamify := &fakeGamification{}
	funding := usecase.NewGoalFunding(goals, ledger, gamify, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 100, 1000, models.GoalStatusActive)

	updated, err := funding.AddSavings(context.Background(), userID, goal.ID, 200)
	require.NoError(t, err)

	assert.Equal(t, int64(300), updated.CurrentAmount)
	assert.Equal(t, models.GoalStatusActive, updated.Status)
	assert.Zero(t, gamify.badgeCalls)
}

func TestAddSavingsStreakFailureDoesNotBlock(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{}
	gamify := &fakeGamification{streakErr: errors.New("redis down")}
	funding := usecase.NewGoalFunding(goals, ledger, gamify, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 0, 1000, models.GoalStatusActive)

	_, err := funding.AddSavings(context.Background(), userID, goal.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), goals.stored(goal.ID).CurrentAmount)
}

func TestAddSavingsWalletFailureLeavesGoalUntouched(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{addErr: errors.New("store unavailable")}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 100, 1000, models.GoalStatusActive)

	_, err := funding.AddSavings(context.Background(), userID, goal.ID, 200)
	require.Error(t, err)

	stored := goals.stored(goal.ID)
	assert.Equal(t, int64(100), stored.CurrentAmount)
	assert.Equal(t, models.GoalStatusActive, stored.Status)
}

func TestAddSavingsUnknownGoal(t *testing.T) {
	funding := usecase.NewGoalFunding(newFakeGoalRepo(), &fakeLedger{}, &fakeGamification{}, zap.NewNop())

	_, err := funding.AddSavings(context.Background(), uuid.New(), uuid.New(), 200)
	assert.ErrorIs(t, err, usecase.ErrGoalNotFound)
}

func TestWithdrawRequiresCompletedGoal(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{balance: 5000}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 500, 1000, models.GoalStatusActive)

	_, err := funding.WithdrawFunds(context.Background(), userID, goal.ID, 100)
	require.ErrorIs(t, err, usecase.ErrGoalNotCompleted)
	assert.Empty(t, ledger.withdrawCalls)
}

func TestWithdrawExceedingGoalBalance(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{balance: 5000}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 1000, 1000, models.GoalStatusCompleted)

	_, err := funding.WithdrawFunds(context.Background(), userID, goal.ID, 1500)
	require.ErrorIs(t, err, usecase.ErrInsufficientBalance)
	assert.Empty(t, ledger.withdrawCalls)
}

func TestWithdrawKeepsCompletedStatusAtZeroBalance(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{balance: 1000}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 1000, 1000, models.GoalStatusCompleted)

	updated, err := funding.WithdrawFunds(context.Background(), userID, goal.ID, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(0), updated.CurrentAmount)
	assert.Equal(t, models.GoalStatusCompleted, updated.Status)
	require.Len(t, ledger.withdrawCalls, 1)
	assert.Equal(t, models.SourceWithdraw, ledger.withdrawCalls[0].source)
}

func TestWithdrawCompensatesOnGoalPersistFailure(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{balance: 2000}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 1000, 1000, models.GoalStatusCompleted)
	goals.updateErr = errors.New("constraint violation")

	_, err := funding.WithdrawFunds(context.Background(), userID, goal.ID, 300)
	require.Error(t, err)

	// Net wallet balance is back where it started.
	assert.Equal(t, int64(2000), ledger.balance)

	require.Len(t, ledger.addCalls, 1)
	refund := ledger.addCalls[0]
	assert.Equal(t, int64(300), refund.amount)
	assert.Equal(t, models.SourceUPI, refund.source)
	assert.True(t, strings.HasPrefix(refund.referenceID, "REFUND_"))

	stored := goals.stored(goal.ID)
	assert.Equal(t, int64(1000), stored.CurrentAmount)
}

func TestWithdrawSurfacesPersistErrorWhenRefundFails(t *testing.T) {
	goals := newFakeGoalRepo()
	ledger := &fakeLedger{balance: 2000, addErr: errors.New("store gone")}
	funding := usecase.NewGoalFunding(goals, ledger, &fakeGamification{}, zap.NewNop())

	userID := uuid.New()
	goal := seedGoal(goals, userID, 1000, 1000, models.GoalStatusCompleted)
	goals.updateErr = errors.New("constraint violation")

	_, err := funding.WithdrawFunds(context.Background(), userID, goal.ID, 300)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update goal after withdrawal")
}

func TestCreateGoalDefaults(t *testing.T) {
	goals := newFakeGoalRepo()
	funding := usecase.NewGoalFunding(goals, &fakeLedger{}, &fakeGamification{}, zap.NewNop())

	goal, err := funding.CreateGoal(context.Background(), uuid.New(), usecase.CreateGoalInput{
		Name:         "Bike",
		TargetAmount: 50000,
		TargetDate:   time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "General", goal.Category)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
	assert.Zero(t, goal.CurrentAmount)
}

func TestCreateGoalRejectsBadTarget(t *testing.T) {
	funding := usecase.NewGoalFunding(newFakeGoalRepo(), &fakeLedger{}, &fakeGamification{}, zap.NewNop())

	_, err := funding.CreateGoal(context.Background(), uuid.New(), usecase.CreateGoalInput{
		Name:         "Bike",
		TargetAmount: 0,
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidAmount)
}
