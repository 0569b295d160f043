package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/usecase"
)

func TestRecorderCreatesPendingRow(t *testing.T) {
	transactions := newFakeTransactionRepo()
	recorder := usecase.NewTransactionRecorder(transactions, zap.NewNop())

	tx, err := recorder.Create(context.Background(), uuid.New(), uuid.New(), 150, models.DirectionCredit, models.SourceSave, "goal-1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, tx.Status)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, "goal-1", tx.ReferenceID)
}

func TestRecorderRejectsNonPositiveAmount(t *testing.T) {
	recorder := usecase.NewTransactionRecorder(newFakeTransactionRepo(), zap.NewNop())

	_, err := recorder.Create(context.Background(), uuid.New(), uuid.New(), 0, models.DirectionCredit, models.SourceSave, "")
	assert.ErrorIs(t, err, usecase.ErrInvalidAmount)
}

func TestRecorderRejectsNonTerminalStatus(t *testing.T) {
	recorder := usecase.NewTransactionRecorder(newFakeTransactionRepo(), zap.NewNop())

	err := recorder.SetStatus(context.Background(), uuid.New(), models.StatusPending)
	assert.Error(t, err)
}

func TestRecorderSetStatusOnMissingTransaction(t *testing.T) {
	recorder := usecase.NewTransactionRecorder(newFakeTransactionRepo(), zap.NewNop())

	err := recorder.SetStatus(context.Background(), uuid.New(), models.StatusSuccess)
	assert.ErrorIs(t, err, usecase.ErrTransactionNotFound)
}

func TestTerminalStatusIsSticky(t *testing.T) {
	transactions := newFakeTransactionRepo()
	recorder := usecase.NewTransactionRecorder(transactions, zap.NewNop())
	ctx := context.Background()

	tx, err := recorder.Create(ctx, uuid.New(), uuid.New(), 150, models.DirectionDebit, models.SourceWithdraw, "")
	require.NoError(t, err)

	require.NoError(t, recorder.SetStatus(ctx, tx.ID, models.StatusSuccess))

	// Same terminal status twice is safe.
	require.NoError(t, recorder.SetStatus(ctx, tx.ID, models.StatusSuccess))

	// Flipping to the other terminal status is not.
	err = recorder.SetStatus(ctx, tx.ID, models.StatusFailed)
	require.Error(t, err)

	stored, err := transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, stored.Status)
}
