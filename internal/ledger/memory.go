package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryLedger is an in-process Client with the same observable semantics as
// a real ledger: submits enter a pending pool and become readable only after
// finalization. Finalization is driven explicitly through FinalizeAll, which
// makes the pending window deterministic in tests.
type MemoryLedger struct {
	mu      sync.Mutex
	pending map[string][]byte
	final   map[string][]byte
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		pending: make(map[string][]byte),
		final:   make(map[string][]byte),
	}
}

// Submit accepts the payload into the pending pool and returns a pending
// transaction handle.
func (l *MemoryLedger) Submit(_ context.Context, identity string, payload []byte) (TxHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	buf := make([]byte, len(payload))
	copy(buf, payload)
	l.pending[identity] = buf

	return TxHandle{ID: uuid.NewString(), Status: TxPending}, nil
}

// Read returns the finalized payload for identity. Pending submissions are
// invisible, matching the eventually-final contract.
func (l *MemoryLedger) Read(_ context.Context, identity string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload, ok := l.final[identity]
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)
	return buf, nil
}

// FinalizeAll moves every pending submission into finalized state.
func (l *MemoryLedger) FinalizeAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for identity, payload := range l.pending {
		l.final[identity] = payload
		delete(l.pending, identity)
	}
}

// PendingCount reports how many identities have unfinalized submissions.
func (l *MemoryLedger) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
