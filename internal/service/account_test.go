package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/datapact/datapact-go/internal/crypto"
	"github.com/datapact/datapact-go/internal/model"
	"github.com/datapact/datapact-go/internal/repository"
)

func newTestAccountService(repo repository.AccountRepository) *AccountService {
	return NewAccountService(repository.NewStrategy(repo))
}

func mustKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	return priv
}

// signEnvelope builds a signed request whose signature covers the exact
// serialized payload.
func signEnvelope(t *testing.T, priv *secp256k1.PrivateKey, claimedKey string, payload any) *model.SignedRequest {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	sig := crypto.SignMessage(priv, data)
	return &model.SignedRequest{
		Data:      data,
		PublicKey: claimedKey,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}
}

func TestRegisterClient(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestAccountService(repo)
	priv := mustKey(t)
	account := &model.Account{PublicKey: crypto.PublicKeyHex(priv)}

	created, err := svc.RegisterClient(context.Background(), account, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if created.PublicKey != crypto.PublicKeyHex(priv) {
		t.Errorf("registered key %q, want %q", created.PublicKey, crypto.PublicKeyHex(priv))
	}
}

func TestRegisterClient_SecondRegistrationRejected(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestAccountService(repo)
	priv := mustKey(t)

	if _, err := svc.RegisterClient(context.Background(),
		&model.Account{PublicKey: crypto.PublicKeyHex(priv)}, repository.StrategyRelational); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.RegisterClient(context.Background(),
		&model.Account{PublicKey: crypto.PublicKeyHex(priv)}, repository.StrategyRelational)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterClient_MalformedKey(t *testing.T) {
	svc := newTestAccountService(newMemAccountRepo())

	_, err := svc.RegisterClient(context.Background(),
		&model.Account{PublicKey: "not-a-key"}, repository.StrategyRelational)
	if !errors.Is(err, ErrBadArgument) {
		t.Errorf("expected ErrBadArgument, got %v", err)
	}
}

func TestAccountExists(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestAccountService(repo)
	priv := mustKey(t)
	account := &model.Account{PublicKey: crypto.PublicKeyHex(priv)}

	if _, err := svc.AccountExists(context.Background(), account, repository.StrategyRelational); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound before registration, got %v", err)
	}

	if _, err := svc.RegisterClient(context.Background(), account, repository.StrategyRelational); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	stored, err := svc.AccountExists(context.Background(), account, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if stored.PublicKey != account.PublicKey {
		t.Errorf("stored key %q, want %q", stored.PublicKey, account.PublicKey)
	}
}

func TestCheckSignature_ValidEnvelope(t *testing.T) {
	svc := newTestAccountService(newMemAccountRepo())
	priv := mustKey(t)
	key := crypto.PublicKeyHex(priv)

	env := signEnvelope(t, priv, key, model.Account{PublicKey: key})

	recovered, err := svc.CheckSignature(env)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if recovered != key {
		t.Errorf("recovered %q, want %q", recovered, key)
	}
}

func TestCheckSignature_IdentityMismatch(t *testing.T) {
	svc := newTestAccountService(newMemAccountRepo())
	signer := mustKey(t)
	impostor := crypto.PublicKeyHex(mustKey(t))

	// Signed by one key, claiming to be another.
	env := signEnvelope(t, signer, impostor, model.Account{PublicKey: impostor})

	if _, err := svc.CheckSignature(env); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCheckSignature_GarbageSignature(t *testing.T) {
	svc := newTestAccountService(newMemAccountRepo())
	key := crypto.PublicKeyHex(mustKey(t))

	env := &model.SignedRequest{
		Data:      json.RawMessage(`{"publicKey":"` + key + `"}`),
		PublicKey: key,
		Signature: base64.StdEncoding.EncodeToString([]byte("not a signature")),
	}

	if _, err := svc.CheckSignature(env); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestCheckSignature_EmptyEnvelope(t *testing.T) {
	svc := newTestAccountService(newMemAccountRepo())

	if _, err := svc.CheckSignature(&model.SignedRequest{}); !errors.Is(err, ErrBadArgument) {
		t.Errorf("expected ErrBadArgument, got %v", err)
	}
}

func TestAccountBySignedRequest(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestAccountService(repo)
	priv := mustKey(t)
	key := crypto.PublicKeyHex(priv)

	env := signEnvelope(t, priv, key, model.Account{PublicKey: key})

	// Unregistered caller with a valid signature resolves to not found.
	if _, err := svc.AccountBySignedRequest(context.Background(), env, repository.StrategyRelational); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.RegisterClient(context.Background(),
		&model.Account{PublicKey: key}, repository.StrategyRelational); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	account, err := svc.AccountBySignedRequest(context.Background(), env, repository.StrategyRelational)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if account.PublicKey != key {
		t.Errorf("resolved %q, want %q", account.PublicKey, key)
	}
}

func TestAccountBySignedRequest_MismatchLeavesStorageUntouched(t *testing.T) {
	repo := newMemAccountRepo()
	svc := newTestAccountService(repo)
	signer := mustKey(t)
	claimed := crypto.PublicKeyHex(mustKey(t))

	env := signEnvelope(t, signer, claimed, model.Account{PublicKey: claimed})

	_, err := svc.AccountBySignedRequest(context.Background(), env, repository.StrategyRelational)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if repo.writes != 0 {
		t.Errorf("authentication failure reached storage: %d writes", repo.writes)
	}
}
