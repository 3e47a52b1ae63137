package frost

import (
    "testing"
)

func TestDeterministicNonceRNGIsReproducible(t *testing.T) {
    curve := NewSecp256k1Curve()
    share := &PairedShare{
        Index: 1,
        Share: curve.ScalarOne(),
    }

    rng := DeterministicNonceRNG{}
    n1, err := rng.GenerateBinonce(curve, share, "session-x")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }
    n2, err := rng.GenerateBinonce(curve, share, "session-x")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }

    if !n1.D.Equal(n2.D) || !n1.E.Equal(n2.E) {
        t.Fatalf("DeterministicNonceRNG must reproduce identical nonces for identical inputs")
    }
}

func TestDeterministicNonceRNGVariesBySession(t *testing.T) {
    curve := NewSecp256k1Curve()
    share := &PairedShare{
        Index: 1,
        Share: curve.ScalarOne(),
    }

    rng := DeterministicNonceRNG{}
    n1, err := rng.GenerateBinonce(curve, share, "session-a")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }
    n2, err := rng.GenerateBinonce(curve, share, "session-b")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }

    if n1.D.Equal(n2.D) && n1.E.Equal(n2.E) {
        t.Fatalf("nonces must differ across distinct session IDs")
    }
}

func TestDefaultNonceRNGVariesAcrossCalls(t *testing.T) {
    curve := NewSecp256k1Curve()
    share := &PairedShare{
        Index: 1,
        Share: curve.ScalarOne(),
    }

    rng := DefaultNonceRNG{}
    n1, err := rng.GenerateBinonce(curve, share, "session-x")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }
    n2, err := rng.GenerateBinonce(curve, share, "session-x")
    if err != nil {
        t.Fatalf("GenerateBinonce: %v", err)
    }

    // Entropy mixing means two calls with identical (share, sessionID) must
    // not collide, unlike DeterministicNonceRNG.
    if n1.D.Equal(n2.D) && n1.E.Equal(n2.E) {
        t.Fatalf("DefaultNonceRNG must not reproduce identical nonces across calls")
    }
}
