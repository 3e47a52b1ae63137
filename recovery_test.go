package frost

import (
    "testing"
)

func TestRecoverFlatTSS(t *testing.T) {
    curve := NewSecp256k1Curve()
    shares, groupKey, meta := runDKG(t, curve, 2, 3, []byte("recover-test"), nil, false)

    lostIndex := ParticipantIndex(3)
    helperSet := []ParticipantIndex{1, 2}

    var subShares []Scalar
    for _, idx := range helperSet {
        sub, err := RecoverRound1(curve, shares[idx], meta, helperSet, lostIndex, 0)
        if err != nil {
            t.Fatalf("RecoverRound1(%d): %v", idx, err)
        }
        subShares = append(subShares, sub)
    }

    recovered, err := RecoverFinalize(curve, lostIndex, 0, subShares, groupKey)
    if err != nil {
        t.Fatalf("RecoverFinalize: %v", err)
    }

    if !recovered.Share.Equal(shares[lostIndex].Share) {
        t.Fatalf("recovered share does not match original")
    }
}

func TestRecoverHTSS(t *testing.T) {
    curve := NewSecp256k1Curve()
    ranks := map[ParticipantIndex]int{1: 0, 2: 1, 3: 0}
    shares, groupKey, meta := runDKG(t, curve, 2, 3, []byte("recover-htss-test"), ranks, true)

    lostIndex := ParticipantIndex(2)
    lostRank := ranks[lostIndex]
    helperSet := []ParticipantIndex{1, 3}

    var subShares []Scalar
    for _, idx := range helperSet {
        sub, err := RecoverRound1(curve, shares[idx], meta, helperSet, lostIndex, lostRank)
        if err != nil {
            t.Fatalf("RecoverRound1(%d): %v", idx, err)
        }
        subShares = append(subShares, sub)
    }

    recovered, err := RecoverFinalize(curve, lostIndex, lostRank, subShares, groupKey)
    if err != nil {
        t.Fatalf("RecoverFinalize: %v", err)
    }

    if !recovered.Share.Equal(shares[lostIndex].Share) {
        t.Fatalf("recovered HTSS share does not match original")
    }
}

func TestRecoverFinalizeRejectsEmptyContributions(t *testing.T) {
    curve := NewSecp256k1Curve()
    _, groupKey, _ := runDKG(t, curve, 2, 3, []byte("recover-empty-test"), nil, false)

    _, err := RecoverFinalize(curve, 3, 0, nil, groupKey)
    if err == nil {
        t.Fatalf("expected insufficient-contributors failure")
    }
    if !IsErrorCategory(err, ErrorCategoryInsufficientContributors) {
        t.Fatalf("expected ErrorCategoryInsufficientContributors, got %v", err)
    }
}
