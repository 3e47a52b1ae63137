package frost

import (
    "testing"
)

func TestFeldmanCommitmentVerifyShare(t *testing.T) {
    curve := NewSecp256k1Curve()
    a0, err := curve.ScalarRandom()
    if err != nil {
        t.Fatalf("ScalarRandom: %v", err)
    }
    poly, err := NewRandomPolynomial(curve, 2, a0)
    if err != nil {
        t.Fatalf("NewRandomPolynomial: %v", err)
    }
    commitment := NewFeldmanCommitment(curve, poly)

    xScalar, err := ParticipantIndex(5).ToScalar(curve)
    if err != nil {
        t.Fatalf("ToScalar: %v", err)
    }
    share := poly.Evaluate(xScalar)

    ok, err := commitment.VerifyShare(xScalar, 0, share)
    if err != nil {
        t.Fatalf("VerifyShare: %v", err)
    }
    if !ok {
        t.Fatalf("valid share failed verification")
    }

    tampered := share.Add(curve.ScalarOne())
    ok, err = commitment.VerifyShare(xScalar, 0, tampered)
    if err != nil {
        t.Fatalf("VerifyShare: %v", err)
    }
    if ok {
        t.Fatalf("tampered share passed verification")
    }
}

func TestFeldmanCommitmentVerifyShareWithRank(t *testing.T) {
    curve := NewSecp256k1Curve()
    a0, err := curve.ScalarRandom()
    if err != nil {
        t.Fatalf("ScalarRandom: %v", err)
    }
    poly, err := NewRandomPolynomial(curve, 3, a0)
    if err != nil {
        t.Fatalf("NewRandomPolynomial: %v", err)
    }
    commitment := NewFeldmanCommitment(curve, poly)

    xScalar, err := ParticipantIndex(7).ToScalar(curve)
    if err != nil {
        t.Fatalf("ToScalar: %v", err)
    }
    rank := 2
    share, err := poly.EvaluateDerivative(xScalar, rank)
    if err != nil {
        t.Fatalf("EvaluateDerivative: %v", err)
    }

    ok, err := commitment.VerifyShare(xScalar, rank, share)
    if err != nil {
        t.Fatalf("VerifyShare: %v", err)
    }
    if !ok {
        t.Fatalf("valid rank-2 share failed verification")
    }

    // Verifying the rank-2 share against rank 0 (plain evaluation) must fail:
    // it is checking a different invariant.
    ok, err = commitment.VerifyShare(xScalar, 0, share)
    if err != nil {
        t.Fatalf("VerifyShare: %v", err)
    }
    if ok {
        t.Fatalf("rank-2 share incorrectly verified against rank 0")
    }
}

func TestVerifyAgainstCoefficientPointsRejectsZeroIndex(t *testing.T) {
    curve := NewSecp256k1Curve()
    poly, err := NewRandomPolynomial(curve, 1, curve.ScalarOne())
    if err != nil {
        t.Fatalf("NewRandomPolynomial: %v", err)
    }
    commitment := NewFeldmanCommitment(curve, poly)
    points := make([]Point, len(commitment.GetCommitments()))
    for i, c := range commitment.GetCommitments() {
        points[i] = c.Point()
    }

    _, err = VerifyAgainstCoefficientPoints(curve, points, curve.ScalarZero(), 0, curve.ScalarOne())
    if err == nil {
        t.Fatalf("expected rejection of zero share index")
    }
}
