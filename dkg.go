package frost

import (
    "fmt"
)

// DKGRound1Output is a party's Round-1 broadcast: polynomial commitments,
// its proof of possession, and its rank (spec §4.1).
type DKGRound1Output struct {
    PartyIndex   ParticipantIndex
    Rank         int
    Hierarchical bool
    Commitment   *FeldmanCommitment
    PoP          *SchnorrProof
}

// DKGRound2Share is one (from, to, share) entry of spec §4.1's Round-2
// "one scalar per recipient" output.
type DKGRound2Share struct {
    From  ParticipantIndex
    To    ParticipantIndex
    Share Scalar
}

// DKGRound1 samples party myIndex's random polynomial and produces its
// Round-1 commitment + proof of possession, per spec §4.1. policy is
// validated against participants first — spec scenario 2's "must return
// SignerSetInvalid before any share scalar is touched" — so a malformed
// threshold config, duplicate/miscounted participant set, or rank/Pólya
// violation is rejected before curve.ScalarRandom is ever called. The caller
// must retain the returned polynomial (ephemeral secret state) to produce its
// Round-2 shares; it is zeroized by DKGRound2 once shares are emitted.
func DKGRound1(curve Curve, sessionContext []byte, policy *ThresholdPolicy, participants []ParticipantIndex, myIndex ParticipantIndex) (*DKGRound1Output, *Polynomial, error) {
    if err := policy.Validate(participants); err != nil {
        return nil, nil, err
    }

    rank := 0
    if policy.Hierarchical {
        rank = policy.Ranks[myIndex]
    }

    a0, err := curve.ScalarRandom()
    if err != nil {
        return nil, nil, fmt.Errorf("failed to sample constant term: %w", err)
    }

    polynomial, err := NewRandomPolynomial(curve, policy.Threshold-1, a0)
    if err != nil {
        return nil, nil, fmt.Errorf("failed to generate Round-1 polynomial: %w", err)
    }

    commitment := NewFeldmanCommitment(curve, polynomial)

    pop, err := NewProofOfPossession(curve, a0, commitment.ConstantTermCommitment(), sessionContext, myIndex)
    if err != nil {
        return nil, nil, fmt.Errorf("failed to generate proof of possession: %w", err)
    }

    return &DKGRound1Output{
        PartyIndex:   myIndex,
        Rank:         rank,
        Hierarchical: policy.Hierarchical,
        Commitment:   commitment,
        PoP:          pop,
    }, polynomial, nil
}

// DKGRound2 evaluates polynomial at every recipient's index, at the
// recipient's own rank-th derivative (spec §4.1's Round-2 formula: plain
// evaluation for TSS recipients, the r_j-th derivative for HTSS
// recipients). allRound1 must include every party's Round-1 output
// (including the caller's own), since every party — including the sender —
// is also a recipient of its own polynomial.
func DKGRound2(curve Curve, myIndex ParticipantIndex, polynomial *Polynomial, allRound1 []*DKGRound1Output) ([]*DKGRound2Share, error) {
    defer polynomial.Zeroize()

    shares := make([]*DKGRound2Share, 0, len(allRound1))
    for _, recipient := range allRound1 {
        recipientScalar, err := recipient.PartyIndex.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert recipient index %d: %w", recipient.PartyIndex, err)
        }

        share, err := polynomial.EvaluateDerivative(recipientScalar, recipient.Rank)
        if err != nil {
            return nil, fmt.Errorf("failed to evaluate share for recipient %d: %w", recipient.PartyIndex, err)
        }

        shares = append(shares, &DKGRound2Share{From: myIndex, To: recipient.PartyIndex, Share: share})
    }
    return shares, nil
}

// DKGFinalize verifies every received share's proof of possession and
// Feldman consistency, aggregates the final PairedShare, and derives the
// even-Y GroupKey plus HTSSMetadata, per spec §4.1's Finalize contract.
func DKGFinalize(
    curve Curve,
    sessionContext []byte,
    myIndex ParticipantIndex,
    myRank int,
    hierarchical bool,
    allRound1 []*DKGRound1Output,
    allRound2Shares []*DKGRound2Share,
) (*PairedShare, *GroupKey, *HTSSMetadata, error) {
    myIndexScalar, err := myIndex.ToScalar(curve)
    if err != nil {
        return nil, nil, nil, fmt.Errorf("failed to convert own index: %w", err)
    }

    ranks := make(map[ParticipantIndex]int, len(allRound1))
    for _, r1 := range allRound1 {
        ranks[r1.PartyIndex] = r1.Rank

        if !r1.PoP.Verify(curve, r1.Commitment.ConstantTermCommitment(), sessionContext, r1.PartyIndex) {
            return nil, nil, nil, ErrPoPInvalid.WithContext("party_index", r1.PartyIndex)
        }
    }

    receivedByFrom := make(map[ParticipantIndex]*DKGRound2Share, len(allRound1))
    for _, s := range allRound2Shares {
        if s.To == myIndex {
            receivedByFrom[s.From] = s
        }
    }

    secretShare := curve.ScalarZero()
    for _, r1 := range allRound1 {
        received, ok := receivedByFrom[r1.PartyIndex]
        if !ok {
            return nil, nil, nil, ErrInsufficientContributors.WithContext("missing_from", r1.PartyIndex)
        }

        ok, err := r1.Commitment.VerifyShare(myIndexScalar, myRank, received.Share)
        if err != nil {
            return nil, nil, nil, fmt.Errorf("failed to verify share from party %d: %w", r1.PartyIndex, err)
        }
        if !ok {
            return nil, nil, nil, ErrShareInconsistent.WithContext("from", r1.PartyIndex)
        }

        secretShare = secretShare.Add(received.Share)
    }

    groupPoint := curve.PointIdentity()
    for _, r1 := range allRound1 {
        groupPoint = groupPoint.Add(r1.Commitment.ConstantTermCommitment())
    }
    normalizedGroupPoint, flipped := NormalizeEvenY(groupPoint)

    groupKey := &GroupKey{Point: normalizedGroupPoint, ParityFlipped: flipped}

    meta := &HTSSMetadata{
        Ranks:        ranks,
        Threshold:    len(allRound1[0].Commitment.GetCommitments()),
        Total:        len(allRound1),
        Hierarchical: hierarchical,
    }

    pairedShare := &PairedShare{Index: myIndex, Share: secretShare, GroupKey: groupKey}

    return pairedShare, groupKey, meta, nil
}
