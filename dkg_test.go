package frost

import (
    "testing"
)

// runDKG simulates a full 2-round DKG among indices 1..total, using ranks[idx]
// (defaulting to 0 when ranks is nil) and the given hierarchical flag,
// returning each party's finalized PairedShare/GroupKey/Metadata.
func runDKG(t *testing.T, curve Curve, threshold, total int, sessionContext []byte, ranks map[ParticipantIndex]int, hierarchical bool) (map[ParticipantIndex]*PairedShare, *GroupKey, *HTSSMetadata) {
    t.Helper()

    indices := make([]ParticipantIndex, total)
    for i := 0; i < total; i++ {
        indices[i] = ParticipantIndex(i + 1)
    }
    rankOf := func(idx ParticipantIndex) int {
        if ranks == nil {
            return 0
        }
        return ranks[idx]
    }
    policy := &ThresholdPolicy{Threshold: threshold, Total: total, Hierarchical: hierarchical, Ranks: ranks}

    round1 := make([]*DKGRound1Output, 0, total)
    polys := make(map[ParticipantIndex]*Polynomial, total)
    for _, idx := range indices {
        r1, poly, err := DKGRound1(curve, sessionContext, policy, indices, idx)
        if err != nil {
            t.Fatalf("DKGRound1(%d): %v", idx, err)
        }
        round1 = append(round1, r1)
        polys[idx] = poly
    }

    var allShares []*DKGRound2Share
    for _, idx := range indices {
        shares, err := DKGRound2(curve, idx, polys[idx], round1)
        if err != nil {
            t.Fatalf("DKGRound2(%d): %v", idx, err)
        }
        allShares = append(allShares, shares...)
    }

    finals := make(map[ParticipantIndex]*PairedShare, total)
    var groupKey *GroupKey
    var meta *HTSSMetadata
    for _, idx := range indices {
        paired, gk, m, err := DKGFinalize(curve, sessionContext, idx, rankOf(idx), hierarchical, round1, allShares)
        if err != nil {
            t.Fatalf("DKGFinalize(%d): %v", idx, err)
        }
        finals[idx] = paired
        if groupKey == nil {
            groupKey = gk
            meta = m
        } else if !groupKey.Point.Equal(gk.Point) {
            t.Fatalf("party %d derived a different group key", idx)
        }
    }

    return finals, groupKey, meta
}

func TestDKGHappyPath(t *testing.T) {
    curve := NewSecp256k1Curve()
    shares, groupKey, meta := runDKG(t, curve, 2, 3, []byte("test-session"), nil, false)

    if len(shares) != 3 {
        t.Fatalf("expected 3 shares, got %d", len(shares))
    }
    if meta.Threshold != 2 || meta.Total != 3 {
        t.Fatalf("unexpected metadata: %+v", meta)
    }
    if groupKey.Point.IsIdentity() {
        t.Fatalf("group key must not be the identity point")
    }

    // The secret reconstructed via Lagrange over any 2 of the 3 shares must
    // produce the same group point as the DKG's own aggregate: the group key,
    // or its negation when even-Y normalization flipped it (shares are not
    // negated; ParityFlipped records the flip).
    indices := []Scalar{}
    parts := []ParticipantIndex{1, 2}
    for _, idx := range parts {
        s, err := idx.ToScalar(curve)
        if err != nil {
            t.Fatalf("ToScalar: %v", err)
        }
        indices = append(indices, s)
    }
    secret := curve.ScalarZero()
    for i, idx := range parts {
        lambda, err := LagrangeCoefficientAtZero(curve, indices, i)
        if err != nil {
            t.Fatalf("LagrangeCoefficientAtZero: %v", err)
        }
        secret = secret.Add(lambda.Mul(shares[idx].Share))
    }
    reconstructed := curve.BasePoint().Mul(secret)
    expected := groupKey.Point
    if groupKey.ParityFlipped {
        expected = expected.Negate()
    }
    if !reconstructed.Equal(expected) {
        t.Fatalf("reconstructed secret does not match group key")
    }
}

func TestDKGRejectsBadPoP(t *testing.T) {
    curve := NewSecp256k1Curve()
    sessionContext := []byte("test-session")
    policy := &ThresholdPolicy{Threshold: 2, Total: 3}
    participants := []ParticipantIndex{1, 2, 3}

    r1a, polyA, err := DKGRound1(curve, sessionContext, policy, participants, 1)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1b, polyB, err := DKGRound1(curve, sessionContext, policy, participants, 2)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1c, polyC, err := DKGRound1(curve, sessionContext, policy, participants, 3)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }

    // Tamper with party 2's PoP response after the fact.
    r1b.PoP.Response = r1b.PoP.Response.Add(curve.ScalarOne())

    all := []*DKGRound1Output{r1a, r1b, r1c}
    var allShares []*DKGRound2Share
    for idx, poly := range map[ParticipantIndex]*Polynomial{1: polyA, 2: polyB, 3: polyC} {
        shares, err := DKGRound2(curve, idx, poly, all)
        if err != nil {
            t.Fatalf("DKGRound2(%d): %v", idx, err)
        }
        allShares = append(allShares, shares...)
    }

    _, _, _, err = DKGFinalize(curve, sessionContext, 1, 0, false, all, allShares)
    if err == nil {
        t.Fatalf("expected PoP verification failure, got nil error")
    }
    if !IsErrorCategory(err, ErrorCategoryPoPInvalid) {
        t.Fatalf("expected ErrorCategoryPoPInvalid, got %v", err)
    }
}

func TestDKGFinalizeMissingContribution(t *testing.T) {
    curve := NewSecp256k1Curve()
    sessionContext := []byte("test-session")
    policy := &ThresholdPolicy{Threshold: 2, Total: 3}
    participants := []ParticipantIndex{1, 2, 3}

    r1a, polyA, err := DKGRound1(curve, sessionContext, policy, participants, 1)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1b, polyB, err := DKGRound1(curve, sessionContext, policy, participants, 2)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1c, _, err := DKGRound1(curve, sessionContext, policy, participants, 3)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }

    all := []*DKGRound1Output{r1a, r1b, r1c}

    // Only parties 1 and 2 emit Round-2 shares; party 3's contribution is
    // entirely missing from the transcript.
    var allShares []*DKGRound2Share
    for idx, poly := range map[ParticipantIndex]*Polynomial{1: polyA, 2: polyB} {
        shares, err := DKGRound2(curve, idx, poly, all)
        if err != nil {
            t.Fatalf("DKGRound2(%d): %v", idx, err)
        }
        allShares = append(allShares, shares...)
    }

    _, _, _, err = DKGFinalize(curve, sessionContext, 1, 0, false, all, allShares)
    if err == nil {
        t.Fatalf("expected failure due to missing contribution")
    }
    if !IsErrorCategory(err, ErrorCategoryInsufficientContributors) {
        t.Fatalf("expected ErrorCategoryInsufficientContributors, got %v", err)
    }
}

func TestDKGRejectsInconsistentShare(t *testing.T) {
    curve := NewSecp256k1Curve()
    sessionContext := []byte("test-session")
    policy := &ThresholdPolicy{Threshold: 2, Total: 3}
    participants := []ParticipantIndex{1, 2, 3}

    r1a, polyA, err := DKGRound1(curve, sessionContext, policy, participants, 1)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1b, polyB, err := DKGRound1(curve, sessionContext, policy, participants, 2)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }
    r1c, polyC, err := DKGRound1(curve, sessionContext, policy, participants, 3)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }

    all := []*DKGRound1Output{r1a, r1b, r1c}
    var allShares []*DKGRound2Share
    for idx, poly := range map[ParticipantIndex]*Polynomial{1: polyA, 2: polyB, 3: polyC} {
        shares, err := DKGRound2(curve, idx, poly, all)
        if err != nil {
            t.Fatalf("DKGRound2(%d): %v", idx, err)
        }
        allShares = append(allShares, shares...)
    }

    // Corrupt the share party 2 sent to party 1.
    for _, s := range allShares {
        if s.From == 2 && s.To == 1 {
            s.Share = s.Share.Add(curve.ScalarOne())
        }
    }

    _, _, _, err = DKGFinalize(curve, sessionContext, 1, 0, false, all, allShares)
    if err == nil {
        t.Fatalf("expected share-inconsistency failure")
    }
    if !IsErrorCategory(err, ErrorCategoryShareInconsistent) {
        t.Fatalf("expected ErrorCategoryShareInconsistent, got %v", err)
    }
}
