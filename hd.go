package frost

import (
    "crypto/hmac"
    "crypto/sha512"
    "encoding/binary"
    "fmt"
    "math/big"
    "strconv"
    "strings"
)

const hdChainCodeSeedTag = "FrostDAO/HD"

// maxNonHardenedIndex is the BIP-32 boundary: indices at or above this value
// are hardened and require the private key, which this non-hardened-only
// scheme never needs and therefore never supports (spec §4.5).
const maxNonHardenedIndex = uint32(1) << 31

// DerivationPath is an arbitrary-length sequence of non-hardened child
// indices, generalizing the two-level path of the original implementation to
// spec §4.5's "multi-level path" requirement.
type DerivationPath []uint32

// String renders the path in BIP-32 notation ("m/0/7/2"), grounded on the
// original implementation's to_path_string formatter.
func (p DerivationPath) String() string {
    parts := make([]string, len(p))
    for i, idx := range p {
        parts[i] = strconv.FormatUint(uint64(idx), 10)
    }
    return "m/" + strings.Join(parts, "/")
}

// HDResult is the per-level and cumulative output of spec §4.5's derivation:
// the child group key (already even-Y normalized, the key SignPartial signs
// for), its chain code, and the cumulative tweak/parity-flip state that
// SignCombine takes.
type HDResult struct {
    ChildGroupKey         *GroupKey
    ChildChainCode        []byte
    CumulativeTweak       Scalar
    CumulativeParityFlip  bool
}

// HDChainCodeSeed derives spec §4.5's root chain code,
// tagged_hash("FrostDAO/HD", GroupKey.x_only_bytes), from which every
// wallet's derivation tree descends.
func HDChainCodeSeed(groupKey *GroupKey) []byte {
    return taggedHash(hdChainCodeSeedTag, groupKey.XOnlyBytes())
}

// hdStep computes one level of spec §4.5's non-hardened BIP-32-style
// derivation: I = HMAC-SHA512(chainCode, compressed(parent) || index_be32),
// tweak = I[0:32] (rejected if >= curve order, per BIP-32 semantics),
// childChainCode = I[32:64], childPoint = parent + tweak·G normalized to
// even-Y.
func hdStep(curve Curve, parent Point, chainCode []byte, index uint32) (childPoint Point, childChainCode []byte, tweak Scalar, parityFlip bool, err error) {
    if index >= maxNonHardenedIndex {
        return nil, nil, nil, false, ErrInvalidInput.WithDetails("index %d is hardened; only non-hardened derivation is supported", index)
    }

    parentPoint, ok := parent.(*Secp256k1Point)
    if !ok {
        return nil, nil, nil, false, fmt.Errorf("parent is not a Secp256k1Point")
    }

    indexBytes := make([]byte, 4)
    binary.BigEndian.PutUint32(indexBytes, index)

    mac := hmac.New(sha512.New, chainCode)
    mac.Write(parentPoint.CompressedBytes())
    mac.Write(indexBytes)
    I := mac.Sum(nil)

    tweakBytes := I[0:32]
    childChainCode = append([]byte{}, I[32:64]...)

    tweakInt := new(big.Int).SetBytes(tweakBytes)
    if tweakInt.Cmp(secp256k1Order) >= 0 {
        return nil, nil, nil, false, ErrInvalidInput.WithDetails("derived tweak at index %d >= curve order, retry with next index", index)
    }

    tweak, err = curve.ScalarFromBytes(tweakBytes)
    if err != nil {
        return nil, nil, nil, false, fmt.Errorf("failed to fold tweak into scalar field: %w", err)
    }

    raw := parent.Add(curve.BasePoint().Mul(tweak))
    normalized, flipped := NormalizeEvenY(raw)
    if normalized.IsIdentity() {
        return nil, nil, nil, false, ErrInvalidInput.WithDetails("derived child point at index %d is the identity, retry with next index", index)
    }

    return normalized, childChainCode, tweak, flipped, nil
}

// HDDerive applies spec §4.5's per-level step iteratively across an
// arbitrary-length path. Each level's effective scalar is
// E_i = s_i·(E_{i-1} + tweak_i), where s_i is that level's own parity flip,
// so E_L = (Π s_i)·(E_0 + T_L) with T_i = T_{i-1} + (Π_{k<i} s_k)·tweak_i:
// each incoming tweak is negated when the parity composed over the levels
// before it is odd, and the running total itself is never re-signed.
// For a single level T_1 = tweak_1, so the child point is the even-Y
// normalization of parent + T_1·G. CumulativeParityFlip is the
// product of every level's s_i (composed by XOR, an even number of flips
// cancels out) and is deliberately kept separate from groupKey.ParityFlipped:
// the coefficient of the root secret in E_L also folds in the DKG root's own
// parity (sign0·Π s_i), but the coefficient of each tweak_i does not include
// sign0 at all. SignCombine must sign the tweak term by CumulativeParityFlip,
// never by the child GroupKey's ParityFlipped (see DESIGN.md).
func HDDerive(curve Curve, groupKey *GroupKey, path DerivationPath) (*HDResult, error) {
    chainCode := HDChainCodeSeed(groupKey)
    point := groupKey.Point
    cumulativeTweak := curve.ScalarZero()
    cumulativeFlip := false

    for _, index := range path {
        childPoint, childChainCode, tweak, flipped, err := hdStep(curve, point, chainCode, index)
        if err != nil {
            return nil, fmt.Errorf("failed to derive path level (index %d): %w", index, err)
        }

        if cumulativeFlip {
            tweak = tweak.Negate()
        }
        cumulativeTweak = cumulativeTweak.Add(tweak)

        cumulativeFlip = cumulativeFlip != flipped

        point = childPoint
        chainCode = childChainCode
    }

    childGroupKey := &GroupKey{Point: point, ParityFlipped: groupKey.ParityFlipped != cumulativeFlip}

    return &HDResult{
        ChildGroupKey:        childGroupKey,
        ChildChainCode:       chainCode,
        CumulativeTweak:      cumulativeTweak,
        CumulativeParityFlip: cumulativeFlip,
    }, nil
}
