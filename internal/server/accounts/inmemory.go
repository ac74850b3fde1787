package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/datalyst-app/authd/internal/common"
)

// InMemoryRepository is a mutex-guarded map implementation of Repository,
// used by tests and local development. It enforces the same uniqueness and
// conditional-update semantics as the Postgres implementation.
type InMemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]*Account)}
}

func clone(a *Account) *Account {
	c := *a
	if a.RecoveryCode != nil {
		code := *a.RecoveryCode
		c.RecoveryCode = &code
	}
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.Email]; ok {
		return nil, common.ErrorAccountExists
	}

	stored := clone(account)
	stored.CreatedAt = time.Now()
	r.accounts[account.Email] = stored

	return clone(stored), nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return clone(account), nil
}

func (r *InMemoryRepository) SetRecoveryCode(ctx context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[email]
	if !ok {
		return common.ErrorNotFound
	}

	account.RecoveryCode = &code
	return nil
}

func (r *InMemoryRepository) ResetPassword(ctx context.Context, email, code, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[email]
	if !ok || account.RecoveryCode == nil || *account.RecoveryCode != code {
		return common.ErrorInvalidRecoveryCode
	}

	account.PasswordHash = passwordHash
	account.RecoveryCode = nil
	return nil
}
