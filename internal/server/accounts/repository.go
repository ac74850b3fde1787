package accounts

import "context"

// Repository is the account store contract used by the service.
//
// Implementations must enforce email uniqueness at the store level so two
// concurrent Create calls for the same email cannot both succeed, and must
// make ResetPassword conditional on the stored recovery code still matching
// at write time.
type Repository interface {
	// Create inserts a new account. Returns common.ErrorAccountExists when
	// the email is already taken.
	Create(ctx context.Context, account *Account) (*Account, error)

	// GetByEmail returns the account with exactly this email (no case
	// folding), or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// SetRecoveryCode stores code as the account's pending recovery code,
	// replacing any previous one. Returns common.ErrorNotFound when no such
	// account exists.
	SetRecoveryCode(ctx context.Context, email, code string) error

	// ResetPassword sets the new password hash and clears the recovery code,
	// but only if the stored code still equals code. Returns
	// common.ErrorInvalidRecoveryCode on any mismatch, which also consumes
	// nothing.
	ResetPassword(ctx context.Context, email, code, passwordHash string) error
}
