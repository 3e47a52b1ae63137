package frost

import (
    "crypto/sha256"
    "fmt"
    "io"

    "golang.org/x/crypto/blake2b"
    "golang.org/x/crypto/hkdf"
)

// nonceSeedSalt domain-separates nonce-seed derivation from every other HKDF
// use in this package, grounded on the teacher's CANOPY_DETERMINISTIC_SCALAR_v1
// salt convention in deterministic.go.
const nonceSeedSalt = "FrostDAO/NonceSeed_v1"

// NonceRNG produces the two scalars of a fresh Binonce. The default
// implementation mixes long-term share material, the session id, and OS
// entropy through HKDF before sampling — spec §4.2's "mix (PairedShare
// bytes, session_id bytes, OS entropy) into a domain-separated hash to seed
// an RNG". Test builds may inject a deterministic variant (no OS entropy)
// behind this same interface, per spec §5's explicit carve-out.
type NonceRNG interface {
    GenerateBinonce(curve Curve, share *PairedShare, sessionID string) (*Binonce, error)
}

// DefaultNonceRNG is the CSPRNG-backed NonceRNG every production caller uses.
type DefaultNonceRNG struct{}

// GenerateBinonce implements NonceRNG using fresh OS entropy mixed with the
// share and session context.
func (DefaultNonceRNG) GenerateBinonce(curve Curve, share *PairedShare, sessionID string) (*Binonce, error) {
    entropy, err := SecureRandom(32)
    if err != nil {
        return nil, fmt.Errorf("failed to read OS entropy: %w", err)
    }
    return deriveBinonce(curve, share, sessionID, entropy)
}

// DeterministicNonceRNG is the explicit test capability spec §5 permits:
// identical (share, sessionID) always yields the identical binonce, with no
// OS entropy mixed in. It exists purely for reproducible tests and MUST NOT
// back production signing, since nonce reuse across sessions would follow
// directly from reused (share, sessionID) pairs.
type DeterministicNonceRNG struct{}

// GenerateBinonce implements NonceRNG with no entropy input.
func (DeterministicNonceRNG) GenerateBinonce(curve Curve, share *PairedShare, sessionID string) (*Binonce, error) {
    return deriveBinonce(curve, share, sessionID, nil)
}

// sessionBinder keys a blake2b-256 hash with the share scalar and hashes the
// session id, giving an HKDF "info" value that is itself bound to the share
// rather than a plain string concatenation — the same keyed-hash discipline
// the teacher's signing.go uses for its BLS binding challenge, reused here to
// bind nonce derivation to (share, session) instead of a BLS challenge.
func sessionBinder(shareBytes []byte, sessionID string) ([]byte, error) {
    h, err := blake2b.New256(shareBytes)
    if err != nil {
        return nil, fmt.Errorf("failed to construct session binder: %w", err)
    }
    h.Write([]byte(sessionID))
    return h.Sum(nil), nil
}

func deriveBinonce(curve Curve, share *PairedShare, sessionID string, entropy []byte) (*Binonce, error) {
    if share == nil || share.Share == nil {
        return nil, fmt.Errorf("share must not be nil")
    }

    shareBytes := share.Share.Bytes()
    info, err := sessionBinder(shareBytes, sessionID)
    if err != nil {
        return nil, err
    }
    seedMaterial := append(append([]byte{}, shareBytes...), entropy...)

    hkdfReader := hkdf.New(sha256.New, seedMaterial, []byte(nonceSeedSalt), info)

    dBytes := make([]byte, 64)
    if _, err := io.ReadFull(hkdfReader, dBytes); err != nil {
        return nil, fmt.Errorf("failed to derive nonce d: %w", err)
    }
    eBytes := make([]byte, 64)
    if _, err := io.ReadFull(hkdfReader, eBytes); err != nil {
        return nil, fmt.Errorf("failed to derive nonce e: %w", err)
    }

    d, err := curve.ScalarFromUniformBytes(dBytes)
    if err != nil {
        return nil, fmt.Errorf("failed to fold nonce d into scalar field: %w", err)
    }
    e, err := curve.ScalarFromUniformBytes(eBytes)
    if err != nil {
        return nil, fmt.Errorf("failed to fold nonce e into scalar field: %w", err)
    }

    for i := range dBytes {
        dBytes[i] = 0
    }
    for i := range eBytes {
        eBytes[i] = 0
    }

    return &Binonce{D: d, E: e}, nil
}
