package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/datalyst-app/authd/internal/common"
)

func TestInMemory_CreateDuplicate(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	a := &Account{ID: "id-1", Email: "a@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err := repo.Create(ctx, &Account{ID: "id-2", Email: "a@x.com", PasswordHash: "h2"})
	if !errors.Is(err, common.ErrorAccountExists) {
		t.Fatalf("want common.ErrorAccountExists, got %v", err)
	}
}

func TestInMemory_GetByEmailReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &Account{ID: "id-1", Email: "a@x.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}

	// mutating the returned value must not affect the stored account
	got.PasswordHash = "tampered"
	again, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if again.PasswordHash != "h" {
		t.Fatalf("stored account was mutated through a returned copy")
	}
}

func TestInMemory_SetRecoveryCodeUnknownAccount(t *testing.T) {
	repo := NewInMemoryRepository()

	err := repo.SetRecoveryCode(context.Background(), "ghost@x.com", "123456")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
