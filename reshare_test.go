package frost

import (
    "testing"
)

func TestReshareHappyPath(t *testing.T) {
    curve := NewSecp256k1Curve()
    shares, groupKey, _ := runDKG(t, curve, 2, 3, []byte("reshare-test"), nil, false)

    oldThreshold := 2
    newThreshold := 2
    newRecipients := []ParticipantIndex{10, 20, 30}

    // All three old parties contribute (>= oldThreshold).
    var contributions []*ReshareRound1Output
    for _, idx := range []ParticipantIndex{1, 2, 3} {
        out, err := ReshareRound1(curve, shares[idx], newThreshold, newRecipients)
        if err != nil {
            t.Fatalf("ReshareRound1(%d): %v", idx, err)
        }
        contributions = append(contributions, out)
    }

    newShares := make(map[ParticipantIndex]*PairedShare, len(newRecipients))
    for _, idx := range newRecipients {
        ns, err := ReshareFinalize(curve, idx, 0, oldThreshold, contributions, groupKey)
        if err != nil {
            t.Fatalf("ReshareFinalize(%d): %v", idx, err)
        }
        newShares[idx] = ns
    }

    // Reconstruct the secret from any newThreshold of the new shares and
    // confirm it still matches the original (invariant) group key.
    signSet := []ParticipantIndex{10, 20}
    indices := make([]Scalar, len(signSet))
    for i, idx := range signSet {
        s, err := idx.ToScalar(curve)
        if err != nil {
            t.Fatalf("ToScalar: %v", err)
        }
        indices[i] = s
    }
    secret := curve.ScalarZero()
    for i, idx := range signSet {
        lambda, err := LagrangeCoefficientAtZero(curve, indices, i)
        if err != nil {
            t.Fatalf("LagrangeCoefficientAtZero: %v", err)
        }
        secret = secret.Add(lambda.Mul(newShares[idx].Share))
    }
    reconstructed := curve.BasePoint().Mul(secret)
    if !reconstructed.Equal(groupKey.Point) {
        t.Fatalf("reshared group secret does not match original group key")
    }
}

func TestReshareInsufficientContributors(t *testing.T) {
    curve := NewSecp256k1Curve()
    shares, groupKey, _ := runDKG(t, curve, 2, 3, []byte("reshare-insuff-test"), nil, false)

    newRecipients := []ParticipantIndex{10, 20, 30}
    out, err := ReshareRound1(curve, shares[1], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1: %v", err)
    }

    _, err = ReshareFinalize(curve, 10, 0, 2, []*ReshareRound1Output{out}, groupKey)
    if err == nil {
        t.Fatalf("expected insufficient-contributors failure")
    }
    if !IsErrorCategory(err, ErrorCategoryInsufficientContributors) {
        t.Fatalf("expected ErrorCategoryInsufficientContributors, got %v", err)
    }
}

func TestReshareRejectsSourceKeyMismatch(t *testing.T) {
    curve := NewSecp256k1Curve()
    sharesA, groupKeyA, _ := runDKG(t, curve, 2, 3, []byte("reshare-mismatch-a"), nil, false)
    sharesB, _, _ := runDKG(t, curve, 2, 3, []byte("reshare-mismatch-b"), nil, false)

    newRecipients := []ParticipantIndex{10, 20, 30}
    outA1, err := ReshareRound1(curve, sharesA[1], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1 A1: %v", err)
    }
    outA2, err := ReshareRound1(curve, sharesA[2], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1 A2: %v", err)
    }
    // outB1 comes from an entirely different DKG run / group key.
    outB1, err := ReshareRound1(curve, sharesB[1], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1 B1: %v", err)
    }

    _, err = ReshareFinalize(curve, 10, 0, 2, []*ReshareRound1Output{outA1, outA2, outB1}, groupKeyA)
    if err == nil {
        t.Fatalf("expected source group key mismatch failure")
    }
    if !IsErrorCategory(err, ErrorCategoryPubkeyMismatch) {
        t.Fatalf("expected ErrorCategoryPubkeyMismatch, got %v", err)
    }
}

func TestReshareDetectsTamperedSubShare(t *testing.T) {
    curve := NewSecp256k1Curve()
    shares, groupKey, _ := runDKG(t, curve, 2, 3, []byte("reshare-tamper-test"), nil, false)

    newRecipients := []ParticipantIndex{10, 20, 30}
    out1, err := ReshareRound1(curve, shares[1], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1: %v", err)
    }
    out2, err := ReshareRound1(curve, shares[2], 2, newRecipients)
    if err != nil {
        t.Fatalf("ReshareRound1: %v", err)
    }

    // Corrupt the sub-share sent to recipient 10 from contributor 1, without
    // updating its commitment vector, so the verification check must fail.
    out1.SubShares[10] = out1.SubShares[10].Add(curve.ScalarOne())

    _, err = ReshareFinalize(curve, 10, 0, 2, []*ReshareRound1Output{out1, out2}, groupKey)
    if err == nil {
        t.Fatalf("expected share-inconsistency failure")
    }
    if !IsErrorCategory(err, ErrorCategoryShareInconsistent) {
        t.Fatalf("expected ErrorCategoryShareInconsistent, got %v", err)
    }
}
