package frost

import (
    "fmt"
    "math/big"
    "sort"
)

// secp256k1 group order n, used to fold exact rational Birkhoff coefficients
// back into the scalar field without any floating-point tolerance or scale
// factor (spec §9's explicit replacement for the original's f64+1e-10+SVD
// approach).
var secp256k1Order, _ = new(big.Int).SetString(
    "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// HTSSParty pairs a signer-set position with its rank, per spec §3's
// definition: rank 0 is the highest authority, and a party of rank r holds
// the r-th derivative of the secret polynomial at its index.
type HTSSParty struct {
    Index Scalar // field embedding of the party index
    Rank  int
}

// ValidatePolyaCondition checks spec §3/§4.2's Pólya condition:
// sorted_ranks[i] <= i. Violating signer sets make the Birkhoff matrix
// singular and must be rejected before any scalar arithmetic is touched
// (spec scenario 2).
func ValidatePolyaCondition(ranks []int) error {
    sorted := make([]int, len(ranks))
    copy(sorted, ranks)
    sort.Ints(sorted)

    for i, r := range sorted {
        if r > i {
            return ErrSignerSetInvalid.WithDetails(
                "sorted rank %d at position %d violates Pólya condition (rank <= position)", r, i)
        }
    }
    return nil
}

// birkhoffMatrix builds B[row][k] = k!/(k-rank_row)! * indexInt_row^(k-rank_row)
// for k >= rank_row, else 0, over exact rationals. indexInt carries the
// integer party index alongside its field embedding so that x^power can be
// computed exactly instead of via field exponentiation (which would hide a
// non-invertible matrix behind modular wraparound).
func birkhoffMatrix(parties []HTSSParty, indexInts []int64) [][]*big.Rat {
    t := len(parties)
    matrix := make([][]*big.Rat, t)
    for row := 0; row < t; row++ {
        matrix[row] = make([]*big.Rat, t)
        rank := parties[row].Rank
        x := indexInts[row]
        for k := 0; k < t; k++ {
            if k < rank {
                matrix[row][k] = new(big.Rat)
                continue
            }
            matrix[row][k] = fallingFactorialTimesPower(int64(k), int64(rank), x)
        }
    }
    return matrix
}

// fallingFactorialTimesPower computes k!/(k-rank)! * x^(k-rank) exactly.
func fallingFactorialTimesPower(k, rank, x int64) *big.Rat {
    result := big.NewInt(1)
    for i := int64(0); i < rank; i++ {
        result.Mul(result, big.NewInt(k-i))
    }
    power := k - rank
    xBig := big.NewInt(x)
    xPow := big.NewInt(1)
    for i := int64(0); i < power; i++ {
        xPow.Mul(xPow, xBig)
    }
    result.Mul(result, xPow)
    return new(big.Rat).SetInt(result)
}

// targetRow builds the evaluation functional e_target[k] = k!/(k-rank)! *
// x^(k-rank) for a single (index, rank) pair — the same formula as a matrix
// row, used both for signing's target (0, rank 0) and recovery's target
// (lost index, lost rank).
func targetRow(t int, rank int, x int64) []*big.Rat {
    row := make([]*big.Rat, t)
    for k := 0; k < t; k++ {
        if k < rank {
            row[k] = new(big.Rat)
            continue
        }
        row[k] = fallingFactorialTimesPower(int64(k), int64(rank), x)
    }
    return row
}

// BirkhoffCoefficients computes the vector c such that, for the given signer
// set (indices/ranks) and target (targetIndex, targetRank), the target's
// derivative value is Σᵢ c[i] * v_i where v_i is party i's held value
// f^(rank_i)(index_i). Signing's λᵢ(0) is BirkhoffCoefficients(parties, 0, 0);
// recovery's sub-share coefficient cᵢ is BirkhoffCoefficients(helpers, j, r_j).
//
// Solved with exact big.Rat Gaussian elimination (spec §9), never floating
// point: the system is B^T c = e_target, because secret-like target value
// a_target = Σ_k e_target[k] * a_k, and a = B^{-1} v, so
// target = e_target^T B^{-1} v = (B^{-T} e_target)^T v.
func BirkhoffCoefficients(curve Curve, parties []HTSSParty, indexInts []int64, targetIndexInt int64, targetRank int) ([]Scalar, error) {
    t := len(parties)
    if t == 0 {
        return nil, fmt.Errorf("empty party set")
    }
    if len(indexInts) != t {
        return nil, fmt.Errorf("indexInts length %d does not match parties length %d", len(indexInts), t)
    }

    ranks := make([]int, t)
    for i, p := range parties {
        ranks[i] = p.Rank
    }
    if err := ValidatePolyaCondition(ranks); err != nil {
        return nil, err
    }

    matrix := birkhoffMatrix(parties, indexInts)
    transposed := transposeRat(matrix)
    target := targetRow(t, targetRank, targetIndexInt)

    solution, err := solveRationalSystem(transposed, target)
    if err != nil {
        return nil, ErrSignerSetInvalid.WithCause(err).WithDetails("Birkhoff matrix is singular for this signer set")
    }

    scalars := make([]Scalar, t)
    for i, rat := range solution {
        s, err := ratToScalar(curve, rat)
        if err != nil {
            return nil, fmt.Errorf("failed to fold Birkhoff coefficient %d into scalar field: %w", i, err)
        }
        scalars[i] = s
    }
    return scalars, nil
}

func transposeRat(m [][]*big.Rat) [][]*big.Rat {
    n := len(m)
    out := make([][]*big.Rat, n)
    for i := range out {
        out[i] = make([]*big.Rat, n)
        for j := range out[i] {
            out[i][j] = m[j][i]
        }
    }
    return out
}

// solveRationalSystem solves A x = b for square A via Gaussian elimination
// with partial pivoting over exact rationals.
func solveRationalSystem(a [][]*big.Rat, b []*big.Rat) ([]*big.Rat, error) {
    n := len(a)

    // Deep-copy so we can pivot in place without mutating the caller's matrix.
    m := make([][]*big.Rat, n)
    rhs := make([]*big.Rat, n)
    for i := 0; i < n; i++ {
        m[i] = make([]*big.Rat, n)
        for j := 0; j < n; j++ {
            m[i][j] = new(big.Rat).Set(a[i][j])
        }
        rhs[i] = new(big.Rat).Set(b[i])
    }

    for col := 0; col < n; col++ {
        pivot := -1
        for row := col; row < n; row++ {
            if m[row][col].Sign() != 0 {
                pivot = row
                break
            }
        }
        if pivot == -1 {
            return nil, fmt.Errorf("matrix is singular at column %d", col)
        }
        m[col], m[pivot] = m[pivot], m[col]
        rhs[col], rhs[pivot] = rhs[pivot], rhs[col]

        inv := new(big.Rat).Inv(m[col][col])
        for j := col; j < n; j++ {
            m[col][j].Mul(m[col][j], inv)
        }
        rhs[col].Mul(rhs[col], inv)

        for row := 0; row < n; row++ {
            if row == col {
                continue
            }
            factor := new(big.Rat).Set(m[row][col])
            if factor.Sign() == 0 {
                continue
            }
            for j := col; j < n; j++ {
                term := new(big.Rat).Mul(factor, m[col][j])
                m[row][j].Sub(m[row][j], term)
            }
            term := new(big.Rat).Mul(factor, rhs[col])
            rhs[row].Sub(rhs[row], term)
        }
    }

    return rhs, nil
}

// ratToScalar folds an exact rational into the scalar field via a true
// modular inverse of the denominator, never a fixed-scale float conversion.
func ratToScalar(curve Curve, r *big.Rat) (Scalar, error) {
    num := new(big.Int).Mod(r.Num(), secp256k1Order)
    denom := new(big.Int).Mod(r.Denom(), secp256k1Order)

    denomInv := new(big.Int).ModInverse(denom, secp256k1Order)
    if denomInv == nil {
        return nil, fmt.Errorf("denominator is not invertible mod curve order")
    }

    result := new(big.Int).Mul(num, denomInv)
    result.Mod(result, secp256k1Order)

    bytes := make([]byte, 32)
    result.FillBytes(bytes)

    return curve.ScalarFromBytes(bytes)
}
