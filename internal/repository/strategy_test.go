package repository

import (
	"errors"
	"testing"
)

type fakeBackend struct{ name string }

func TestParseStrategyTag(t *testing.T) {
	cases := []struct {
		in   string
		want StrategyTag
	}{
		{"", StrategyRelational},
		{"relational", StrategyRelational},
		{"ledger-hybrid", StrategyLedgerHybrid},
		{"HYBRID", StrategyLedgerHybrid},
		{" Ledger-Hybrid ", StrategyLedgerHybrid},
		{"postgres", StrategyRelational},
		{"nonsense", StrategyRelational},
	}

	for _, tc := range cases {
		if got := ParseStrategyTag(tc.in); got != tc.want {
			t.Errorf("ParseStrategyTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStrategy_RelationalOnlyFamilyAlwaysRelational(t *testing.T) {
	relational := &fakeBackend{name: "relational"}
	s := NewStrategy(relational)

	if s.Select(StrategyRelational) != relational {
		t.Error("relational tag did not resolve to the relational backend")
	}
	// Requesting the ledger variant of a family without one falls back.
	if s.Select(StrategyLedgerHybrid) != relational {
		t.Error("ledger tag on a relational-only family must fall back to relational")
	}
}

func TestHybridStrategy_SelectsPerTag(t *testing.T) {
	relational := &fakeBackend{name: "relational"}
	ledgerBacked := &fakeBackend{name: "ledger"}

	s, err := NewHybridStrategy(relational, ledgerBacked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Select(StrategyRelational) != relational {
		t.Error("relational tag did not resolve to the relational backend")
	}
	if s.Select(StrategyLedgerHybrid) != ledgerBacked {
		t.Error("ledger tag did not resolve to the ledger backend")
	}
}

func TestHybridStrategy_NilLedgerIsStartupError(t *testing.T) {
	type backend interface{}
	var missing backend

	_, err := NewHybridStrategy[backend](&fakeBackend{}, missing)
	if !errors.Is(err, ErrNoLedgerVariant) {
		t.Errorf("nil interface: expected ErrNoLedgerVariant, got %v", err)
	}

	// A typed-nil pointer must fail at construction too, not on the first
	// ledger-tagged request.
	var missingPtr *fakeBackend
	_, err = NewHybridStrategy(&fakeBackend{}, missingPtr)
	if !errors.Is(err, ErrNoLedgerVariant) {
		t.Errorf("typed nil: expected ErrNoLedgerVariant, got %v", err)
	}
}
