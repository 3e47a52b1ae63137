package frost

import (
    "testing"
)

func TestMemoryStoreNonceMissingVsAlreadyUsed(t *testing.T) {
    curve := NewSecp256k1Curve()
    store := NewMemoryStore()

    nonce := &Binonce{D: curve.ScalarOne(), E: curve.ScalarOne()}

    // Never generated: must be NonceMissing.
    _, err := store.TakeNonce("wallet", "never-generated")
    if err == nil || !IsErrorCategory(err, ErrorCategoryNonceMissing) {
        t.Fatalf("expected ErrorCategoryNonceMissing, got %v", err)
    }

    if err := store.PutNonce("wallet", "session-1", nonce); err != nil {
        t.Fatalf("PutNonce: %v", err)
    }

    taken, err := store.TakeNonce("wallet", "session-1")
    if err != nil {
        t.Fatalf("TakeNonce should succeed the first time: %v", err)
    }
    if !taken.D.Equal(nonce.D) {
        t.Fatalf("returned nonce does not match stored nonce")
    }

    // Already consumed: must be NonceAlreadyUsed, not NonceMissing.
    _, err = store.TakeNonce("wallet", "session-1")
    if err == nil || !IsErrorCategory(err, ErrorCategoryNonceAlreadyUsed) {
        t.Fatalf("expected ErrorCategoryNonceAlreadyUsed, got %v", err)
    }
}

func TestMemoryStoreShareAndMetaRoundTrip(t *testing.T) {
    curve := NewSecp256k1Curve()
    store := NewMemoryStore()

    share := &PairedShare{Index: 1, Share: curve.ScalarOne(), GroupKey: &GroupKey{Point: curve.BasePoint()}}
    meta := &HTSSMetadata{Threshold: 2, Total: 3}

    if err := store.StoreShare("wallet", share); err != nil {
        t.Fatalf("StoreShare: %v", err)
    }
    if err := store.StoreMeta("wallet", meta); err != nil {
        t.Fatalf("StoreMeta: %v", err)
    }

    loadedShare, err := store.LoadShare("wallet")
    if err != nil {
        t.Fatalf("LoadShare: %v", err)
    }
    if loadedShare.Index != share.Index {
        t.Fatalf("loaded share index mismatch")
    }

    loadedMeta, err := store.LoadMeta("wallet")
    if err != nil {
        t.Fatalf("LoadMeta: %v", err)
    }
    if loadedMeta.Threshold != meta.Threshold {
        t.Fatalf("loaded meta threshold mismatch")
    }

    if _, err := store.LoadShare("unknown-wallet"); err == nil {
        t.Fatalf("expected error loading unknown wallet")
    }
}
