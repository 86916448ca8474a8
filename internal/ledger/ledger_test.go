package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

func TestMemoryLedger_PendingInvisibleUntilFinalized(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	handle, err := l.Submit(ctx, "identity-1", []byte("payload"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if handle.Status != TxPending {
		t.Errorf("expected pending handle, got %q", handle.Status)
	}
	if handle.ID == "" {
		t.Error("expected a non-empty tx id")
	}

	if _, err := l.Read(ctx, "identity-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("pending submission should read as absent, got %v", err)
	}

	l.FinalizeAll()

	payload, err := l.Read(ctx, "identity-1")
	if err != nil {
		t.Fatalf("read after finalize failed: %v", err)
	}
	if string(payload) != "payload" {
		t.Errorf("read %q, want %q", payload, "payload")
	}
	if l.PendingCount() != 0 {
		t.Errorf("expected empty pending pool, got %d", l.PendingCount())
	}
}

func TestMemoryLedger_ReadUnknownIdentity(t *testing.T) {
	l := NewMemoryLedger()

	if _, err := l.Read(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountRepository_SaveThenFind(t *testing.T) {
	l := NewMemoryLedger()
	repo := NewAccountRepository(l)
	ctx := context.Background()

	account := &model.Account{PublicKey: "02aabb"}
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// The write is still pending; the strategy contract allows it to be
	// invisible here.
	if _, err := repo.FindByPublicKey(ctx, "02aabb"); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound before finality, got %v", err)
	}

	l.FinalizeAll()

	found, err := repo.FindByPublicKey(ctx, "02aabb")
	if err != nil {
		t.Fatalf("find after finalize failed: %v", err)
	}
	if found.PublicKey != "02aabb" {
		t.Errorf("found %q, want %q", found.PublicKey, "02aabb")
	}
}

func TestAccountRepository_DuplicateAfterFinality(t *testing.T) {
	l := NewMemoryLedger()
	repo := NewAccountRepository(l)
	ctx := context.Background()

	account := &model.Account{PublicKey: "02ccdd"}
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	l.FinalizeAll()

	err := repo.SaveAccount(ctx, &model.Account{PublicKey: "02ccdd"})
	if !errors.Is(err, repository.ErrDuplicateAccount) {
		t.Errorf("expected ErrDuplicateAccount, got %v", err)
	}
}
