package repository

import (
	"errors"
	"reflect"
	"strings"
)

// StrategyTag selects which storage backend variant serves a request.
type StrategyTag string

const (
	StrategyRelational   StrategyTag = "relational"
	StrategyLedgerHybrid StrategyTag = "ledger-hybrid"
)

// ParseStrategyTag maps a raw header value to a StrategyTag. Absent or
// unrecognized values fall back to the relational backend.
func ParseStrategyTag(s string) StrategyTag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StrategyLedgerHybrid), "hybrid":
		return StrategyLedgerHybrid
	default:
		return StrategyRelational
	}
}

var ErrNoLedgerVariant = errors.New("entity family has no ledger-backed variant")

// Strategy binds the backend variants of one entity family and resolves the
// variant for a request. The bindings are fixed at construction, so a single
// Strategy value is safe for concurrent use by any number of requests.
type Strategy[R any] struct {
	relational R
	ledger     R
	hasLedger  bool
}

// NewStrategy builds a selector for an entity family that only has a
// relational backend. Every tag resolves to it.
func NewStrategy[R any](relational R) *Strategy[R] {
	return &Strategy[R]{relational: relational}
}

// NewHybridStrategy builds a selector with both a relational and a
// ledger-backed variant. A missing ledger variant is a wiring mistake and is
// rejected here, at startup, rather than surfacing on some later request.
func NewHybridStrategy[R any](relational, ledger R) (*Strategy[R], error) {
	if isNil(ledger) {
		return nil, ErrNoLedgerVariant
	}
	return &Strategy[R]{relational: relational, ledger: ledger, hasLedger: true}, nil
}

// Select returns the backend serving the given tag. Requesting the ledger
// variant of a relational-only family resolves to relational, matching the
// fallback rule for unrecognized tags.
func (s *Strategy[R]) Select(tag StrategyTag) R {
	if tag == StrategyLedgerHybrid && s.hasLedger {
		return s.ledger
	}
	return s.relational
}

// isNil catches typed-nil pointers as well as nil interfaces, so a
// misconfigured ledger variant never survives past the constructor.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
