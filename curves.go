package frost

import (
    "crypto/rand"
    "errors"
    "fmt"
)

// Curve abstracts the group arithmetic every core operation (DKG, signing,
// resharing, recovery, HD derivation) is built on, so none of those files
// touch a concrete library type directly.
type Curve interface {
    // Metadata
    Name() string
    ScalarSize() int
    PointSize() int
    
    // Scalar operations
    ScalarFromBytes([]byte) (Scalar, error)
    ScalarFromUniformBytes([]byte) (Scalar, error)
    ScalarRandom() (Scalar, error)
    ScalarZero() Scalar
    ScalarOne() Scalar
    
    // Point operations
    PointFromBytes([]byte) (Point, error)
    BasePoint() Point
    PointIdentity() Point
    
    // Validation
    ValidateScalar([]byte) error
    ValidatePoint([]byte) error
}

// Scalar is an element of the curve's scalar field — a signing share, a
// nonce, a Lagrange/Birkhoff coefficient, a tweak, or an intermediate
// computed over any of those.
type Scalar interface {
    // Serialization
    Bytes() []byte
    String() string
    
    // Arithmetic operations
    Add(Scalar) Scalar
    Sub(Scalar) Scalar
    Mul(Scalar) Scalar
    Negate() Scalar
    Invert() (Scalar, error)
    
    // Comparison
    Equal(Scalar) bool
    IsZero() bool
    
    // Security
    Zeroize()
}

// Point is a group element — a commitment, a public share, a group key, or
// a nonce commitment.
type Point interface {
    // Serialization
    Bytes() []byte
    CompressedBytes() []byte
    String() string
    
    // Arithmetic operations
    Add(Point) Point
    Sub(Point) Point
    Mul(Scalar) Point
    Negate() Point
    
    // Comparison
    Equal(Point) bool
    IsIdentity() bool
    
    // Validation
    IsOnCurve() bool
}

// CurveType names a registered Curve implementation. BIP-340/Taproot fixes
// the curve, so secp256k1 is the only value NewCurve accepts; the type
// exists so callers construct a Curve by name (config, CLI flag) rather than
// importing Secp256k1Curve directly.
type CurveType string

const (
    Secp256k1 CurveType = "secp256k1"
)

// NewCurve resolves curveType to a Curve implementation.
func NewCurve(curveType CurveType) (Curve, error) {
    switch curveType {
    case Secp256k1:
        return NewSecp256k1Curve(), nil
    default:
        return nil, fmt.Errorf("unsupported curve type: %s", curveType)
    }
}

// Sentinel errors surfaced by every Curve implementation's parsing and
// validation methods.
var (
    ErrInvalidScalarLength = errors.New("invalid scalar length")
    ErrInvalidPointLength  = errors.New("invalid point length")
    ErrInvalidScalar       = errors.New("invalid scalar value")
    ErrInvalidPoint        = errors.New("invalid point")
    ErrPointNotOnCurve     = errors.New("point not on curve")
    ErrScalarZero          = errors.New("scalar is zero")
)

// SecureRandom reads size bytes from the OS CSPRNG, used for nonce entropy
// (rng.go's DefaultNonceRNG) and anywhere else this package needs fresh
// randomness outside of Curve.ScalarRandom.
func SecureRandom(size int) ([]byte, error) {
    out := make([]byte, size)
    _, err := rand.Read(out)
    return out, err
}
