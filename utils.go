package frost

import (
    "encoding/binary"
    "fmt"
)

// ToScalar converts participant index to a scalar with proper bounds validation
func (pi ParticipantIndex) ToScalar(curve Curve) (Scalar, error) {
    // Validate curve scalar size
    scalarSize := curve.ScalarSize()
    if scalarSize < 4 {
        return nil, fmt.Errorf("curve scalar size %d is too small (minimum 4 bytes required)", scalarSize)
    }

    bytes := make([]byte, scalarSize)
    binary.BigEndian.PutUint32(bytes[scalarSize-4:], uint32(pi))
    return curve.ScalarFromBytes(bytes)
}

// ParticipantIndexFromScalar creates a participant index from a scalar with proper validation
func ParticipantIndexFromScalar(scalar Scalar) ParticipantIndex {
    if scalar == nil {
        return ParticipantIndex(0)
    }

    bytes := scalar.Bytes()
    // Validate byte slice length before accessing
    if len(bytes) < 4 {
        return ParticipantIndex(0)
    }

    // Take the last 4 bytes as uint32
    return ParticipantIndex(binary.BigEndian.Uint32(bytes[len(bytes)-4:]))
}

// ZeroizeBytes securely clears a byte slice
func ZeroizeBytes(data []byte) {
    for i := range data {
        data[i] = 0
    }
}

// ZeroizeScalarSlice securely clears a slice of scalars
func ZeroizeScalarSlice(scalars []Scalar) {
    for _, scalar := range scalars {
        if scalar != nil {
            scalar.Zeroize()
        }
    }
}
