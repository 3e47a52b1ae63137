package frost

import (
    "sync"
)

// NonceStore is the storage capability spec §6 requires the embedding to
// supply for binonce persistence: put_nonce/take_nonce. take_nonce MUST be
// atomic — it returns the binonce and deletes it in the same critical
// section, per spec §5's concurrency model, so that two concurrent
// sign_partial calls on the same session_id cannot both succeed.
type NonceStore interface {
    PutNonce(wallet, sessionID string, nonce *Binonce) error
    // TakeNonce atomically reads and deletes the binonce for sessionID. It
    // returns ErrNonceMissing for a session that was never stored and
    // ErrNonceAlreadyUsed for one that was already taken.
    TakeNonce(wallet, sessionID string) (*Binonce, error)
}

// ShareStore is the storage capability for a wallet's long-term material.
type ShareStore interface {
    LoadShare(wallet string) (*PairedShare, error)
    StoreShare(wallet string, share *PairedShare) error
    LoadMeta(wallet string) (*HTSSMetadata, error)
    StoreMeta(wallet string, meta *HTSSMetadata) error
}

// MemoryStore is the in-memory reference implementation of NonceStore and
// ShareStore spec §9 calls for ("tests instantiate an in-memory stub"). A
// single mutex guards both maps since spec §5 only requires that
// consume_nonce be atomic, not that unrelated sessions be lock-free; the
// protocol operations above this capability remain single-threaded and
// synchronous.
type MemoryStore struct {
    mu       sync.Mutex
    nonces   map[string]*Binonce
    consumed map[string]bool
    shares   map[string]*PairedShare
    metas    map[string]*HTSSMetadata
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        nonces:   make(map[string]*Binonce),
        consumed: make(map[string]bool),
        shares:   make(map[string]*PairedShare),
        metas:    make(map[string]*HTSSMetadata),
    }
}

func nonceKey(wallet, sessionID string) string {
    return wallet + "\x00" + sessionID
}

// PutNonce persists binonce secrets for (wallet, sessionID).
func (m *MemoryStore) PutNonce(wallet, sessionID string, nonce *Binonce) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.nonces[nonceKey(wallet, sessionID)] = nonce
    return nil
}

// TakeNonce atomically reads and deletes the stored binonce. It distinguishes
// the two failure categories spec §7 names: a session_id that was never
// generated returns ErrNonceMissing, while one already consumed by a prior
// take returns ErrNonceAlreadyUsed — this is what makes spec scenario 6
// ("nonce reuse fails closed") observable to the caller as a replay, not a
// generic miss.
func (m *MemoryStore) TakeNonce(wallet, sessionID string) (*Binonce, error) {
    m.mu.Lock()
    defer m.mu.Unlock()

    key := nonceKey(wallet, sessionID)
    nonce, ok := m.nonces[key]
    if !ok {
        if m.consumed[key] {
            return nil, ErrNonceAlreadyUsed.WithContext("session_id", sessionID)
        }
        return nil, ErrNonceMissing.WithContext("session_id", sessionID)
    }
    delete(m.nonces, key)
    m.consumed[key] = true
    return nonce, nil
}

func (m *MemoryStore) LoadShare(wallet string) (*PairedShare, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    share, ok := m.shares[wallet]
    if !ok {
        return nil, ErrInvalidInput.WithDetails("no share stored for wallet %q", wallet)
    }
    return share, nil
}

func (m *MemoryStore) StoreShare(wallet string, share *PairedShare) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.shares[wallet] = share
    return nil
}

func (m *MemoryStore) LoadMeta(wallet string) (*HTSSMetadata, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    meta, ok := m.metas[wallet]
    if !ok {
        return nil, ErrInvalidInput.WithDetails("no metadata stored for wallet %q", wallet)
    }
    return meta, nil
}

func (m *MemoryStore) StoreMeta(wallet string, meta *HTSSMetadata) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.metas[wallet] = meta
    return nil
}
