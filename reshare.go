package frost

import (
    "fmt"
)

// ReshareRound1Output is one old party's contribution to spec §4.3's
// resharing protocol: a fresh zero-polynomial (no constant term), its
// coefficient commitments, the old party's long-term public share
// Yᵢ = sᵢ·G (used to tag which source wallet this contribution belongs to),
// and the sub-shares it emits for every new recipient.
type ReshareRound1Output struct {
    FromIndex           ParticipantIndex
    SourceGroupKeyXOnly []byte
    PublicShare         Point
    Commitments         []Point // [b_1·G, ..., b_{newT-1}·G, plus C_0 = identity]
    SubShares           map[ParticipantIndex]Scalar
}

// ReshareRound1 runs on an old party: samples gᵢ(x) = b₁x + b₂x² + ... with
// no constant term (gᵢ(0)=0, the correctness property spec §4.3 relies on),
// commits to its coefficients, and emits subᵢ→ⱼ = sᵢ·gᵢ(j) for every new
// recipient j.
func ReshareRound1(curve Curve, share *PairedShare, newThreshold int, recipients []ParticipantIndex) (*ReshareRound1Output, error) {
    if newThreshold < 1 {
        return nil, ErrThresholdConfig.WithDetails("new_threshold must be >= 1, got %d", newThreshold)
    }
    if share == nil || share.GroupKey == nil {
        return nil, fmt.Errorf("share and its group key must not be nil")
    }

    zeroPoly, err := NewRandomPolynomial(curve, newThreshold-1, curve.ScalarZero())
    if err != nil {
        return nil, fmt.Errorf("failed to generate zero-polynomial: %w", err)
    }
    defer zeroPoly.Zeroize()

    commitment := NewFeldmanCommitment(curve, zeroPoly)
    points := make([]Point, len(commitment.GetCommitments()))
    for i, c := range commitment.GetCommitments() {
        points[i] = c.Point()
    }

    subShares := make(map[ParticipantIndex]Scalar, len(recipients))
    for _, j := range recipients {
        jScalar, err := j.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert recipient index %d: %w", j, err)
        }
        gij := zeroPoly.Evaluate(jScalar)
        subShares[j] = share.Share.Mul(gij)
    }

    return &ReshareRound1Output{
        FromIndex:           share.Index,
        SourceGroupKeyXOnly: share.GroupKey.XOnlyBytes(),
        PublicShare:         curve.BasePoint().Mul(share.Share),
        Commitments:         points,
        SubShares:           subShares,
    }, nil
}

// ReshareFinalize runs on a new party: combines the sub-shares addressed to
// newIndex across contributors via old-set Lagrange coefficients,
// reconstructing new_share_j = Σᵢ λᵢ(0)·subᵢ→ⱼ, and verifies the result
// against a combined commitment vector built from the contributors'
// commitments plus the invariant group public key (spec §4.3's
// ShareCommitmentMismatch check). oldThreshold is the source wallet's
// threshold; at least that many old parties must contribute regardless of
// the new threshold.
func ReshareFinalize(
    curve Curve,
    newIndex ParticipantIndex,
    newRank int,
    oldThreshold int,
    contributions []*ReshareRound1Output,
    groupKey *GroupKey,
) (*PairedShare, error) {
    if len(contributions) < oldThreshold {
        return nil, ErrInsufficientContributors.WithDetails("have %d contributors, need %d", len(contributions), oldThreshold)
    }

    sourceKey := contributions[0].SourceGroupKeyXOnly
    for _, c := range contributions[1:] {
        if string(c.SourceGroupKeyXOnly) != string(sourceKey) {
            return nil, ErrPubkeyMismatch.WithDetails("contributors disagree on source group key")
        }
    }

    indices := make([]Scalar, len(contributions))
    for i, c := range contributions {
        s, err := c.FromIndex.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert contributor index %d: %w", c.FromIndex, err)
        }
        indices[i] = s
    }

    newIndexScalar, err := newIndex.ToScalar(curve)
    if err != nil {
        return nil, fmt.Errorf("failed to convert own index: %w", err)
    }

    degree := len(contributions[0].Commitments)
    newShare := curve.ScalarZero()
    combined := make([]Point, degree)
    for i := range combined {
        combined[i] = curve.PointIdentity()
    }

    for i, c := range contributions {
        if len(c.Commitments) != degree {
            return nil, ErrShareInconsistent.WithDetails("contributor %d has mismatched commitment degree", c.FromIndex)
        }

        lambda, err := LagrangeCoefficientAtZero(curve, indices, i)
        if err != nil {
            return nil, fmt.Errorf("failed to compute old-set Lagrange coefficient for %d: %w", c.FromIndex, err)
        }

        sub, ok := c.SubShares[newIndex]
        if !ok {
            return nil, ErrInsufficientContributors.WithDetails("contributor %d sent no sub-share for recipient %d", c.FromIndex, newIndex)
        }

        newShare = newShare.Add(lambda.Mul(sub))

        for k, point := range c.Commitments {
            combined[k] = combined[k].Add(point.Mul(lambda))
        }
    }

    // combined[0] is the weighted sum of zero-polynomials' constant-term
    // commitments (always identity); the finalized polynomial's true constant
    // term is the untouched group secret, so substitute GroupKey.Point here.
    combined[0] = groupKey.Point

    ok, err := VerifyAgainstCoefficientPoints(curve, combined, newIndexScalar, newRank, newShare)
    if err != nil {
        return nil, fmt.Errorf("failed to verify reshared share: %w", err)
    }
    if !ok {
        return nil, ErrShareInconsistent.WithDetails("reshared share for index %d failed commitment check", newIndex)
    }

    return &PairedShare{Index: newIndex, Share: newShare, GroupKey: groupKey}, nil
}
