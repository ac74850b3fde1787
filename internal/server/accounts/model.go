package accounts

import "time"

// Account is the persisted identity record. Email is the unique login
// identifier and also the recovery delivery channel. PasswordHash is a
// PHC-encoded argon2id string, never the plaintext password. RecoveryCode
// is only present while a password recovery is in flight.
type Account struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	RecoveryCode *string
	CreatedAt    time.Time
}
