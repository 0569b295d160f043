package usecase_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/savrly/savr/internal/core/models"
	"github.com/savrly/savr/internal/core/repository"
	"github.com/savrly/savr/internal/core/usecase"
)

type fakeWalletRepo struct {
	mu      sync.Mutex
	byUser  map[uuid.UUID]*models.Wallet
	byID    map[uuid.UUID]*models.Wallet
	getErr  error
	addHook func(walletID uuid.UUID, delta int64) error
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		byUser: make(map[uuid.UUID]*models.Wallet),
		byID:   make(map[uuid.UUID]*models.Wallet),
	}
}

func (f *fakeWalletRepo) seed(userID uuid.UUID, balance int64) *models.Wallet {
	f.mu.Lock()
	defer f.mu.Unlock()
	wallet := &models.Wallet{ID: uuid.New(), UserID: userID, Balance: balance}
	f.byUser[userID] = wallet
	f.byID[wallet.ID] = wallet
	return wallet
}

func (f *fakeWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	wallet, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *wallet
	return &copied, nil
}

func (f *fakeWalletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *wallet
	f.byUser[wallet.UserID] = &copied
	f.byID[wallet.ID] = &copied
	return nil
}

func (f *fakeWalletRepo) AddToBalance(ctx context.Context, walletID uuid.UUID, delta int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addHook != nil {
		if err := f.addHook(walletID, delta); err != nil {
			return 0, err
		}
	}
	wallet, ok := f.byID[walletID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	if wallet.Balance+delta < 0 {
		return 0, repository.ErrInsufficientFunds
	}
	wallet.Balance += delta
	return wallet.Balance, nil
}

func (f *fakeWalletRepo) balanceOf(userID uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if wallet, ok := f.byUser[userID]; ok {
		return wallet.Balance
	}
	return 0
}

type fakeTransactionRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*models.Transaction
	order      []uuid.UUID
	insertErr  error
	updateHook func(id uuid.UUID, status models.TransactionStatus) error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{rows: make(map[uuid.UUID]*models.Transaction)}
}

func (f *fakeTransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *tx
	f.rows[tx.ID] = &copied
	f.order = append(f.order, tx.ID)
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *tx
	return &copied, nil
}

// UpdateStatus mirrors the SQL guard of the postgres repository: PENDING
// moves forward, the same terminal status is a no-op, a different terminal
// status conflicts.
func (f *fakeTransactionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateHook != nil {
		if err := f.updateHook(id, status); err != nil {
			return err
		}
	}
	tx, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if tx.Status != models.StatusPending && tx.Status != status {
		return repository.ErrStatusConflict
	}
	tx.Status = status
	return nil
}

func (f *fakeTransactionRepo) all() []models.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Transaction, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.rows[id])
	}
	return out
}

type fakeGoalRepo struct {
	mu        sync.Mutex
	goals     map[uuid.UUID]*models.Goal
	updateErr error
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: make(map[uuid.UUID]*models.Goal)}
}

func (f *fakeGoalRepo) seed(goal *models.Goal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *goal
	f.goals[goal.ID] = &copied
}

func (f *fakeGoalRepo) GetByIDForUser(ctx context.Context, goalID, userID uuid.UUID) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[goalID]
	if !ok || goal.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *goal
	return &copied, nil
}

func (f *fakeGoalRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Goal{}
	for _, goal := range f.goals {
		if goal.UserID == userID {
			out = append(out, *goal)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) Create(ctx context.Context, goal *models.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *goal
	f.goals[goal.ID] = &copied
	return nil
}

func (f *fakeGoalRepo) UpdateProgress(ctx context.Context, goalID uuid.UUID, currentAmount int64, status models.GoalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	goal, ok := f.goals[goalID]
	if !ok {
		return repository.ErrNotFound
	}
	goal.CurrentAmount = currentAmount
	goal.Status = status
	return nil
}

func (f *fakeGoalRepo) stored(goalID uuid.UUID) models.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.goals[goalID]
}

type fakeGamification struct {
	mu          sync.Mutex
	streakCalls int
	badgeCalls  int
	streakErr   error
	badgeErr    error
	statusErr   error
	status      models.GamificationStatus
}

func (f *fakeGamification) UpdateStreak(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streakCalls++
	return f.streakErr
}

func (f *fakeGamification) CheckGoalCompletionBadges(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.badgeCalls++
	return f.badgeErr
}

func (f *fakeGamification) Status(ctx context.Context, userID uuid.UUID) (*models.GamificationStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	copied := f.status
	return &copied, nil
}

type ledgerCall struct {
	userID      uuid.UUID
	amount      int64
	source      models.TransactionSource
	referenceID string
}

// fakeLedger stands in for the wallet ledger in goal funding tests. It keeps
// a running balance so compensation can be observed end to end.
type fakeLedger struct {
	mu            sync.Mutex
	balance       int64
	addErr        error
	withdrawErr   error
	addCalls      []ledgerCall
	withdrawCalls []ledgerCall
}

func (f *fakeLedger) AddFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, ledgerCall{userID, amount, source, referenceID})
	if f.addErr != nil {
		return uuid.Nil, f.addErr
	}
	f.balance += amount
	return uuid.New(), nil
}

func (f *fakeLedger) WithdrawFunds(ctx context.Context, userID uuid.UUID, amount int64, source models.TransactionSource, referenceID string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawCalls = append(f.withdrawCalls, ledgerCall{userID, amount, source, referenceID})
	if f.withdrawErr != nil {
		return uuid.Nil, f.withdrawErr
	}
	if f.balance < amount {
		return uuid.Nil, usecase.ErrInsufficientBalance
	}
	f.balance -= amount
	return uuid.New(), nil
}

func (f *fakeLedger) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.Wallet{ID: uuid.New(), UserID: userID, Balance: f.balance}, nil
}

type fakeProfileRepo struct {
	profile *models.Profile
	err     error
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return nil, repository.ErrNotFound
	}
	copied := *f.profile
	return &copied, nil
}
