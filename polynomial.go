package frost

import (
    "fmt"
)

// Polynomial represents a polynomial over a scalar field
type Polynomial struct {
    curve        Curve
    coefficients []Scalar
}

// NewRandomPolynomial creates a new random polynomial with given degree and constant term
func NewRandomPolynomial(curve Curve, degree int, constantTerm Scalar) (*Polynomial, error) {
    if degree < 0 {
        return nil, fmt.Errorf("degree must be non-negative")
    }
    
    coefficients := make([]Scalar, degree+1)
    coefficients[0] = constantTerm // a0 = constant term
    
    // Generate random coefficients for higher degree terms
    for i := 1; i <= degree; i++ {
        coeff, err := curve.ScalarRandom()
        if err != nil {
            return nil, fmt.Errorf("failed to generate coefficient %d: %w", i, err)
        }
        coefficients[i] = coeff
    }
    
    return &Polynomial{
        curve:        curve,
        coefficients: coefficients,
    }, nil
}

// Evaluate evaluates the polynomial at a given point
func (p *Polynomial) Evaluate(x Scalar) Scalar {
    if len(p.coefficients) == 0 {
        return p.curve.ScalarZero()
    }
    
    // Use Horner's method: f(x) = a0 + x(a1 + x(a2 + x(a3 + ...)))
    result := p.coefficients[len(p.coefficients)-1]
    
    for i := len(p.coefficients) - 2; i >= 0; i-- {
        result = result.Mul(x).Add(p.coefficients[i])
    }
    
    return result
}

// Degree returns the degree of the polynomial
func (p *Polynomial) Degree() int {
    return len(p.coefficients) - 1
}

// Coefficients returns a defensive copy of the coefficient vector, a0 first.
func (p *Polynomial) Coefficients() []Scalar {
    out := make([]Scalar, len(p.coefficients))
    copy(out, p.coefficients)
    return out
}

// EvaluateDerivative evaluates the rank-th derivative of the polynomial at x.
// This is spec §4.1's HTSS Round-2 share formula:
//
//	f^(r)(x) = Σ_{k≥r} k!/(k−r)! · a_k · x^(k−r)
//
// rank 0 reduces to plain Evaluate. Falling factorials are accumulated as
// integer products and converted into scalars, never carried as raw 64-bit
// factorials the way a naive implementation would — per spec §9's warning
// about integer Lagrange overflow, the same discipline applies here.
func (p *Polynomial) EvaluateDerivative(x Scalar, rank int) (Scalar, error) {
    if rank < 0 {
        return nil, fmt.Errorf("rank must be non-negative, got %d", rank)
    }
    if rank >= len(p.coefficients) {
        return p.curve.ScalarZero(), nil
    }

    result := p.curve.ScalarZero()
    xPower := p.curve.ScalarOne() // x^(k-rank), starts at k=rank

    for k := rank; k < len(p.coefficients); k++ {
        fallingFactorial := fallingFactorialScalar(p.curve, k, rank)
        term := p.coefficients[k].Mul(fallingFactorial).Mul(xPower)
        result = result.Add(term)
        xPower = xPower.Mul(x)
    }

    return result, nil
}

// fallingFactorialScalar computes n!/(n-r)! = n*(n-1)*...*(n-r+1) directly in
// the scalar field, avoiding the 64-bit-overflow trap spec §9 warns against.
func fallingFactorialScalar(curve Curve, n, r int) Scalar {
    result := curve.ScalarOne()
    for i := 0; i < r; i++ {
        factor := intToScalar(curve, n-i)
        result = result.Mul(factor)
    }
    return result
}

// intToScalar embeds a small non-negative integer into the scalar field.
func intToScalar(curve Curve, v int) Scalar {
    s := curve.ScalarZero()
    one := curve.ScalarOne()
    for i := 0; i < v; i++ {
        s = s.Add(one)
    }
    return s
}

// Zeroize securely clears the polynomial coefficients
func (p *Polynomial) Zeroize() {
    for _, coeff := range p.coefficients {
        if coeff != nil {
            coeff.Zeroize()
        }
    }
    // Clear the slice itself
    for i := range p.coefficients {
        p.coefficients[i] = nil
    }
    p.coefficients = nil
}
