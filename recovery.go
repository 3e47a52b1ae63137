package frost

import (
    "fmt"
)

// RecoverRound1 runs on a helper: computes its recovery coefficient cᵢ for
// the lost party at (lostIndex, lostRank) within helperSet, dispatching to
// plain Lagrange (flat TSS) or Birkhoff (hierarchical HTSS) exactly as spec
// §4.4 specifies, and emits subᵢ = cᵢ·sᵢ.
func RecoverRound1(
    curve Curve,
    helperShare *PairedShare,
    meta *HTSSMetadata,
    helperSet []ParticipantIndex,
    lostIndex ParticipantIndex,
    lostRank int,
) (Scalar, error) {
    coeff, err := recoveryCoefficient(curve, meta, helperSet, helperShare.Index, lostIndex, lostRank)
    if err != nil {
        return nil, err
    }
    return coeff.Mul(helperShare.Share), nil
}

// recoveryCoefficient computes cᵢ = λᵢ(j) for flat TSS, or the Birkhoff
// coefficient at (j, r_j) for hierarchical HTSS, for the helper at
// helperIndex within helperSet.
func recoveryCoefficient(curve Curve, meta *HTSSMetadata, helperSet []ParticipantIndex, helperIndex, lostIndex ParticipantIndex, lostRank int) (Scalar, error) {
    if !meta.Hierarchical {
        indices := make([]Scalar, len(helperSet))
        myPos := -1
        for i, idx := range helperSet {
            s, err := idx.ToScalar(curve)
            if err != nil {
                return nil, fmt.Errorf("failed to convert helper index %d: %w", idx, err)
            }
            indices[i] = s
            if idx == helperIndex {
                myPos = i
            }
        }
        if myPos < 0 {
            return nil, ErrSignerSetInvalid.WithDetails("helper %d not in helper set", helperIndex)
        }
        target, err := lostIndex.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert lost index %d: %w", lostIndex, err)
        }
        return LagrangeCoefficient(curve, indices, myPos, target)
    }

    parties := make([]HTSSParty, len(helperSet))
    indexInts := make([]int64, len(helperSet))
    var ranks []int
    myPos := -1
    for i, idx := range helperSet {
        s, err := idx.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert helper index %d: %w", idx, err)
        }
        rank := meta.RankOf(idx)
        parties[i] = HTSSParty{Index: s, Rank: rank}
        indexInts[i] = int64(idx)
        ranks = append(ranks, rank)
        if idx == helperIndex {
            myPos = i
        }
    }
    if myPos < 0 {
        return nil, ErrSignerSetInvalid.WithDetails("helper %d not in helper set", helperIndex)
    }
    if err := ValidatePolyaCondition(ranks); err != nil {
        return nil, err
    }

    coeffs, err := BirkhoffCoefficients(curve, parties, indexInts, int64(lostIndex), lostRank)
    if err != nil {
        return nil, fmt.Errorf("failed to compute Birkhoff recovery coefficients: %w", err)
    }
    return coeffs[myPos], nil
}

// RecoverFinalize runs on (or on behalf of) the lost party: sums the
// sub-shares emitted by every helper, s_j = Σᵢ subᵢ, per spec §4.4. It does
// not verify the result against a commitment vector — recovering parties are
// trusted to reshare immediately afterward per the spec's documented
// security note, restoring minimality.
func RecoverFinalize(curve Curve, lostIndex ParticipantIndex, lostRank int, subShares []Scalar, groupKey *GroupKey) (*PairedShare, error) {
    if len(subShares) == 0 {
        return nil, ErrInsufficientContributors.WithDetails("no helper sub-shares supplied")
    }

    recovered := curve.ScalarZero()
    for _, sub := range subShares {
        recovered = recovered.Add(sub)
    }

    return &PairedShare{Index: lostIndex, Share: recovered, GroupKey: groupKey}, nil
}
