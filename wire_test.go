package frost

import (
    "testing"
)

func TestPairedShareWireRoundTrip(t *testing.T) {
    curve := NewSecp256k1Curve()
    secret, err := curve.ScalarRandom()
    if err != nil {
        t.Fatalf("ScalarRandom: %v", err)
    }
    groupPoint := curve.BasePoint().Mul(secret)
    normalized, _ := NormalizeEvenY(groupPoint)

    share := &PairedShare{
        Index:    3,
        Share:    secret,
        GroupKey: &GroupKey{Point: normalized},
    }

    data, err := MarshalPairedShare(curve, share)
    if err != nil {
        t.Fatalf("MarshalPairedShare: %v", err)
    }
    if len(data) != PairedShareWireSize {
        t.Fatalf("expected %d bytes, got %d", PairedShareWireSize, len(data))
    }

    parsed, err := UnmarshalPairedShare(curve, data)
    if err != nil {
        t.Fatalf("UnmarshalPairedShare: %v", err)
    }
    if parsed.Index != share.Index {
        t.Fatalf("index mismatch: got %d want %d", parsed.Index, share.Index)
    }
    if !parsed.Share.Equal(share.Share) {
        t.Fatalf("share scalar mismatch")
    }
    if !parsed.GroupKey.Point.Equal(share.GroupKey.Point) {
        t.Fatalf("group key mismatch")
    }
}

func TestUnmarshalPairedShareRejectsBadLength(t *testing.T) {
    curve := NewSecp256k1Curve()
    _, err := UnmarshalPairedShare(curve, make([]byte, 10))
    if err == nil {
        t.Fatalf("expected length validation failure")
    }
    if !IsErrorCategory(err, ErrorCategoryInvalidInput) {
        t.Fatalf("expected ErrorCategoryInvalidInput, got %v", err)
    }
}

func TestSignatureWireRoundTrip(t *testing.T) {
    curve := NewSecp256k1Curve()
    secret, err := curve.ScalarRandom()
    if err != nil {
        t.Fatalf("ScalarRandom: %v", err)
    }
    rPoint, _ := NormalizeEvenY(curve.BasePoint().Mul(secret))
    s, err := curve.ScalarRandom()
    if err != nil {
        t.Fatalf("ScalarRandom: %v", err)
    }

    sig := &Signature{R: rPoint, S: s}
    data, err := MarshalSignature(sig)
    if err != nil {
        t.Fatalf("MarshalSignature: %v", err)
    }
    if len(data) != SignatureWireSize {
        t.Fatalf("expected %d bytes, got %d", SignatureWireSize, len(data))
    }

    parsed, err := UnmarshalSignature(curve, data)
    if err != nil {
        t.Fatalf("UnmarshalSignature: %v", err)
    }
    if !parsed.R.Equal(sig.R) {
        t.Fatalf("R mismatch")
    }
    if !parsed.S.Equal(sig.S) {
        t.Fatalf("S mismatch")
    }
}

func TestDKGRound1MessageEnvelopeRoundTrip(t *testing.T) {
    curve := NewSecp256k1Curve()
    policy := &ThresholdPolicy{Threshold: 2, Total: 3}
    output, _, err := DKGRound1(curve, []byte("wire-test"), policy, []ParticipantIndex{1, 2, 3}, 1)
    if err != nil {
        t.Fatalf("DKGRound1: %v", err)
    }

    data, err := EncodeDKGRound1(output)
    if err != nil {
        t.Fatalf("EncodeDKGRound1: %v", err)
    }

    msg, err := DecodeDKGRound1(data)
    if err != nil {
        t.Fatalf("DecodeDKGRound1: %v", err)
    }
    if msg.Type != MessageTypeDKGRound1 {
        t.Fatalf("unexpected type: %s", msg.Type)
    }
    if msg.PartyIndex != uint32(output.PartyIndex) {
        t.Fatalf("party index mismatch")
    }
    if len(msg.Commitments) != len(output.Commitment.GetCommitments()) {
        t.Fatalf("commitment count mismatch")
    }
}

func TestDKGRound2MessageEnvelopeRoundTrip(t *testing.T) {
    curve := NewSecp256k1Curve()
    share := &DKGRound2Share{From: 1, To: 2, Share: curve.ScalarOne()}

    data, err := EncodeDKGRound2(share)
    if err != nil {
        t.Fatalf("EncodeDKGRound2: %v", err)
    }

    parsed, err := DecodeDKGRound2(curve, data)
    if err != nil {
        t.Fatalf("DecodeDKGRound2: %v", err)
    }
    if parsed.From != share.From || parsed.To != share.To {
        t.Fatalf("from/to mismatch")
    }
    if !parsed.Share.Equal(share.Share) {
        t.Fatalf("share scalar mismatch")
    }
}
