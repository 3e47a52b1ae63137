package frost

import (
    "fmt"
)

// LagrangeCoefficient computes λᵢ(target) = Πⱼ≠ᵢ (target−xⱼ)/(xᵢ−xⱼ) for the
// party at position i (index xi) within indices, evaluated at target. This is
// the general form behind spec §4.2's λᵢ(0) signer coefficient, §4.3's
// λᵢ(0) resharing recombination weight, and §4.4's Lagrange sub-share
// coefficient cᵢ = λᵢ(j). Always computed in the scalar field (spec §9).
func LagrangeCoefficient(curve Curve, indices []Scalar, i int, target Scalar) (Scalar, error) {
    if i < 0 || i >= len(indices) {
        return nil, fmt.Errorf("index %d out of range for %d indices", i, len(indices))
    }

    xi := indices[i]
    numerator := curve.ScalarOne()
    denominator := curve.ScalarOne()

    for j, xj := range indices {
        if j == i {
            continue
        }
        numerator = numerator.Mul(target.Sub(xj))
        denominator = denominator.Mul(xi.Sub(xj))
    }

    denomInv, err := denominator.Invert()
    if err != nil {
        return nil, fmt.Errorf("failed to invert Lagrange denominator: %w", err)
    }

    return numerator.Mul(denomInv), nil
}

// LagrangeCoefficientAtZero is LagrangeCoefficient with target = 0, the
// common case for reconstructing/combining at the secret's constant term.
func LagrangeCoefficientAtZero(curve Curve, indices []Scalar, i int) (Scalar, error) {
    return LagrangeCoefficient(curve, indices, i, curve.ScalarZero())
}
