package frost

import (
    "fmt"
)

// MaxShareIndex is an upper bound on share indices, mirroring the teacher's
// PolynomialCommitment.Verify bounds check. VerifyShare and
// VerifyAgainstCoefficientPoints do not check it.
const MaxShareIndex = 1000000

// Commitment represents a cryptographic commitment to a single value.
type Commitment struct {
    curve Curve
    point Point
}

// NewCommitment creates a new commitment with input validation.
func NewCommitment(curve Curve, point Point) (*Commitment, error) {
    if curve == nil {
        return nil, fmt.Errorf("curve cannot be nil")
    }
    if point == nil {
        return nil, fmt.Errorf("point cannot be nil")
    }
    return &Commitment{curve: curve, point: point}, nil
}

// Point returns the commitment point.
func (c *Commitment) Point() Point {
    return c.point
}

// Bytes returns the serialized commitment.
func (c *Commitment) Bytes() []byte {
    if c == nil || c.point == nil {
        return nil
    }
    return c.point.CompressedBytes()
}

// Equal checks if two commitments are equal.
func (c *Commitment) Equal(other *Commitment) bool {
    if c == nil || other == nil {
        return false
    }
    if c.point == nil || other.point == nil {
        return false
    }
    return c.point.Equal(other.point)
}

// FeldmanCommitment is the plain (unblinded) vector [a_k · G] committing to
// each coefficient of a party's Round-1 polynomial, per spec §3's
// Commitment data type. Unlike the teacher's PedersenCommitment, this
// carries no blinding term: spec §4.1's finalize check
// `share · G == Σₖ (k!/(k−r)!) · j^(k−r) · C_k` must hold against the raw
// coefficient commitments, which a blinded commitment cannot satisfy.
type FeldmanCommitment struct {
    curve       Curve
    commitments []*Commitment // one per coefficient, a0 first
}

// NewFeldmanCommitment commits to every coefficient of polynomial.
func NewFeldmanCommitment(curve Curve, polynomial *Polynomial) *FeldmanCommitment {
    coeffs := polynomial.Coefficients()
    commitments := make([]*Commitment, len(coeffs))
    generator := curve.BasePoint()
    for i, coeff := range coeffs {
        commitments[i], _ = NewCommitment(curve, generator.Mul(coeff))
    }
    return &FeldmanCommitment{curve: curve, commitments: commitments}
}

// ConstantTermCommitment returns C_0 = a_0 · G, i.e. the party's DKG Round-1
// public commitment used both for the proof of possession and for summing
// into the group public key.
func (fc *FeldmanCommitment) ConstantTermCommitment() Point {
    if len(fc.commitments) == 0 {
        return fc.curve.PointIdentity()
    }
    return fc.commitments[0].Point()
}

// GetCommitments returns a defensive copy of the coefficient commitments.
func (fc *FeldmanCommitment) GetCommitments() []*Commitment {
    result := make([]*Commitment, len(fc.commitments))
    copy(result, fc.commitments)
    return result
}

// VerifyShare checks spec §4.1's finalize share-consistency invariant for a
// recipient at shareIndex with the given rank:
//
//	share · G == Σₖ (k!/(k−rank)!) · shareIndex^(k−rank) · C_k   (k >= rank)
//
// rank 0 collapses the weight to 1 for k=0 (and xᵏ otherwise), reducing to
// the standard Feldman check Σₖ xᵏ·C_k spec §4.1 calls out explicitly.
func (fc *FeldmanCommitment) VerifyShare(shareIndex Scalar, rank int, share Scalar) (bool, error) {
    if len(fc.commitments) == 0 {
        return false, fmt.Errorf("no commitments available")
    }
    points := make([]Point, len(fc.commitments))
    for i, c := range fc.commitments {
        points[i] = c.Point()
    }
    return VerifyAgainstCoefficientPoints(fc.curve, points, shareIndex, rank, share)
}

// VerifyAgainstCoefficientPoints checks spec §4.1's finalize share-consistency
// invariant against an arbitrary coefficient-commitment vector (a0 first):
//
//	share · G == Σₖ (k!/(k−rank)!) · shareIndex^(k−rank) · commitments[k]   (k >= rank)
//
// Factored out of FeldmanCommitment.VerifyShare so reshare.go can run the same
// check against a combined commitment vector assembled from several
// contributors (spec §4.3's ShareCommitmentMismatch check), not just a single
// party's own commitments.
func VerifyAgainstCoefficientPoints(curve Curve, commitments []Point, shareIndex Scalar, rank int, share Scalar) (bool, error) {
    if shareIndex == nil || share == nil {
        return false, fmt.Errorf("share index and value must not be nil")
    }
    if shareIndex.IsZero() {
        return false, fmt.Errorf("share index cannot be zero")
    }
    if rank >= len(commitments) {
        return false, fmt.Errorf("rank %d exceeds polynomial degree", rank)
    }

    expected := curve.PointIdentity()
    xPower := curve.ScalarOne() // shareIndex^(k-rank)

    for k := rank; k < len(commitments); k++ {
        weight := fallingFactorialScalar(curve, k, rank)
        term := commitments[k].Mul(weight.Mul(xPower))
        expected = expected.Add(term)
        xPower = xPower.Mul(shareIndex)
    }

    actual := curve.BasePoint().Mul(share)
    return expected.Equal(actual), nil
}
