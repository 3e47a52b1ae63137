package frost

import (
    "crypto/rand"
    "encoding/hex"
    "fmt"
    "runtime"

    "github.com/btcsuite/btcd/btcec/v2"
)

// Secp256k1Curve implements Curve over the curve this module's Taproot
// signatures live on. It is the only concrete Curve this package registers
// (see curves.go's NewCurve) since BIP-340/Taproot fixes the curve.
type Secp256k1Curve struct{}

// NewSecp256k1Curve constructs the sole Curve this module signs over.
func NewSecp256k1Curve() *Secp256k1Curve {
    return &Secp256k1Curve{}
}

func (c *Secp256k1Curve) Name() string    { return "secp256k1" }
func (c *Secp256k1Curve) ScalarSize() int { return 32 }
func (c *Secp256k1Curve) PointSize() int  { return 65 } // uncompressed SEC1 encoding

func (c *Secp256k1Curve) ScalarFromBytes(data []byte) (Scalar, error) {
    if len(data) != 32 {
        return nil, ErrInvalidScalarLength
    }

    scalar := new(btcec.ModNScalar)
    scalar.SetBytes((*[32]byte)(data)) // BIP-340 reduces mod n unconditionally; overflow is not an error here

    return &Secp256k1Scalar{inner: scalar}, nil
}

// ScalarFromUniformBytes folds a wide byte string (an HKDF output, say) into
// the scalar field by reducing its leading 32 bytes modulo the curve order.
func (c *Secp256k1Curve) ScalarFromUniformBytes(data []byte) (Scalar, error) {
    if len(data) < 32 {
        return nil, fmt.Errorf("need at least 32 bytes for uniform scalar generation, got %d", len(data))
    }

    scalar := new(btcec.ModNScalar)
    scalar.SetBytes((*[32]byte)(data[:32]))
    return &Secp256k1Scalar{inner: scalar}, nil
}

func (c *Secp256k1Curve) ScalarRandom() (Scalar, error) {
    for {
        raw := make([]byte, 32)
        if _, err := rand.Read(raw); err != nil {
            return nil, err
        }

        scalar := new(btcec.ModNScalar)
        if overflow := scalar.SetBytes((*[32]byte)(raw)); overflow == 0 {
            return &Secp256k1Scalar{inner: scalar}, nil
        }
        // rejection-sample: retry on overflow rather than reduce, to keep
        // the output uniform over [0, n)
    }
}

func (c *Secp256k1Curve) ScalarZero() Scalar {
    return &Secp256k1Scalar{inner: new(btcec.ModNScalar)}
}

func (c *Secp256k1Curve) ScalarOne() Scalar {
    scalar := new(btcec.ModNScalar)
    scalar.SetInt(1)
    return &Secp256k1Scalar{inner: scalar}
}

func (c *Secp256k1Curve) PointFromBytes(data []byte) (Point, error) {
    if len(data) != 33 && len(data) != 65 {
        return nil, ErrInvalidPointLength
    }

    pubKey, err := btcec.ParsePubKey(data)
    if err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
    }

    return &Secp256k1Point{inner: pubKey}, nil
}

func (c *Secp256k1Curve) BasePoint() Point {
    return &Secp256k1Point{inner: btcec.Generator()}
}

// PointIdentity returns the group identity (point at infinity), represented
// internally as a nil *btcec.PublicKey — every Point method below treats a
// nil inner specially rather than panicking on it.
func (c *Secp256k1Curve) PointIdentity() Point {
    return &Secp256k1Point{inner: nil}
}

func (c *Secp256k1Curve) ValidateScalar(data []byte) error {
    if len(data) != 32 {
        return ErrInvalidScalarLength
    }

    scalar := new(btcec.ModNScalar)
    if overflow := scalar.SetBytes((*[32]byte)(data)); overflow != 0 {
        return ErrInvalidScalar
    }

    return nil
}

func (c *Secp256k1Curve) ValidatePoint(data []byte) error {
    _, err := c.PointFromBytes(data)
    return err
}

// Secp256k1Scalar implements Scalar over btcec/v2's ModNScalar.
type Secp256k1Scalar struct {
    inner *btcec.ModNScalar
}

func (s *Secp256k1Scalar) Bytes() []byte {
    var out [32]byte
    s.inner.PutBytes(&out)
    return out[:]
}

func (s *Secp256k1Scalar) String() string {
    return hex.EncodeToString(s.Bytes())
}

func (s *Secp256k1Scalar) Add(other Scalar) Scalar {
    result := new(btcec.ModNScalar)
    result.Add(s.inner).Add(other.(*Secp256k1Scalar).inner)
    return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Sub(other Scalar) Scalar {
    var negOther btcec.ModNScalar
    negOther.NegateVal(other.(*Secp256k1Scalar).inner)
    result := new(btcec.ModNScalar)
    result.Add(s.inner).Add(&negOther)
    return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Mul(other Scalar) Scalar {
    result := new(btcec.ModNScalar)
    result.Set(s.inner).Mul(other.(*Secp256k1Scalar).inner)
    return &Secp256k1Scalar{inner: result}
}

func (s *Secp256k1Scalar) Negate() Scalar {
    result := new(btcec.ModNScalar)
    result.Add(s.inner).Negate()
    return &Secp256k1Scalar{inner: result}
}

// Invert returns the multiplicative inverse mod the curve order. btcec/v2
// exposes only a non-constant-time inversion; this package never inverts a
// live signing share (the only caller, LagrangeCoefficient, inverts a
// denominator built from public party indices, and Birkhoff coefficients are
// computed with big.Rat), so the timing surface here is limited to
// non-secret values — see DESIGN.md.
func (s *Secp256k1Scalar) Invert() (Scalar, error) {
    if s.IsZero() {
        return nil, ErrScalarZero
    }

    result := new(btcec.ModNScalar)
    result.Set(s.inner).InverseNonConst()
    return &Secp256k1Scalar{inner: result}, nil
}

func (s *Secp256k1Scalar) Equal(other Scalar) bool {
    return s.inner.Equals(other.(*Secp256k1Scalar).inner)
}

func (s *Secp256k1Scalar) IsZero() bool {
    return s.inner.IsZero()
}

func (s *Secp256k1Scalar) Zeroize() {
    s.inner.Zero()
    runtime.KeepAlive(s)
}

// Secp256k1Point implements Point over btcec/v2's PublicKey. A nil inner
// represents the group identity.
type Secp256k1Point struct {
    inner *btcec.PublicKey
}

func (p *Secp256k1Point) Bytes() []byte {
    if p.inner == nil {
        return make([]byte, 65)
    }
    return p.inner.SerializeUncompressed()
}

func (p *Secp256k1Point) CompressedBytes() []byte {
    if p.inner == nil {
        return make([]byte, 33)
    }
    return p.inner.SerializeCompressed()
}

func (p *Secp256k1Point) String() string {
    return hex.EncodeToString(p.CompressedBytes())
}

// Add uses btcec/v2's non-constant-time Jacobian addition; see the note on
// Invert above regarding this package's exposure to that timing surface.
func (p *Secp256k1Point) Add(other Point) Point {
    if p.inner == nil {
        return other
    }
    if other.(*Secp256k1Point).inner == nil {
        return p
    }

    var acc btcec.JacobianPoint
    p.inner.AsJacobian(&acc)

    var rhs btcec.JacobianPoint
    other.(*Secp256k1Point).inner.AsJacobian(&rhs)

    btcec.AddNonConst(&acc, &rhs, &acc)

    acc.ToAffine()
    pubKey := btcec.NewPublicKey(&acc.X, &acc.Y)

    return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Sub(other Point) Point {
    return p.Add(other.Negate())
}

// Mul uses btcec/v2's non-constant-time scalar multiplication; see the note
// on Invert above.
func (p *Secp256k1Point) Mul(scalar Scalar) Point {
    if p.inner == nil {
        return p
    }

    var scalarInt btcec.ModNScalar
    scalarBytes := scalar.Bytes()
    scalarInt.SetBytes((*[32]byte)(scalarBytes))

    var base btcec.JacobianPoint
    p.inner.AsJacobian(&base)

    var result btcec.JacobianPoint
    btcec.ScalarMultNonConst(&scalarInt, &base, &result)

    result.ToAffine()
    pubKey := btcec.NewPublicKey(&result.X, &result.Y)

    return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Negate() Point {
    if p.inner == nil {
        return p
    }

    var jac btcec.JacobianPoint
    p.inner.AsJacobian(&jac)
    jac.Y.Negate(1)
    jac.ToAffine()

    pubKey := btcec.NewPublicKey(&jac.X, &jac.Y)
    return &Secp256k1Point{inner: pubKey}
}

func (p *Secp256k1Point) Equal(other Point) bool {
    otherPoint := other.(*Secp256k1Point)
    if p.inner == nil || otherPoint.inner == nil {
        return p.inner == nil && otherPoint.inner == nil
    }

    return p.inner.IsEqual(otherPoint.inner)
}

func (p *Secp256k1Point) IsIdentity() bool {
    return p.inner == nil
}

// IsOnCurve always reports true for a non-identity point since
// btcec.ParsePubKey already rejects off-curve encodings at parse time; the
// identity is vacuously valid.
func (p *Secp256k1Point) IsOnCurve() bool {
    return true
}
