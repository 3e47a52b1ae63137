package frost

import (
    "encoding/binary"
    "fmt"
    "sort"
)

const bindingFactorTag = "frost/binding"

// SignGenerateNonce implements spec §4.2's nonce-generation step: derive a
// fresh binonce via rng, persist the secret half through store, and return
// the public commitment to broadcast.
func SignGenerateNonce(curve Curve, rng NonceRNG, store NonceStore, wallet string, share *PairedShare, sessionID string) (*BinonceCommitment, error) {
    binonce, err := rng.GenerateBinonce(curve, share, sessionID)
    if err != nil {
        return nil, fmt.Errorf("failed to generate nonce: %w", err)
    }

    if err := store.PutNonce(wallet, sessionID, binonce); err != nil {
        return nil, fmt.Errorf("failed to persist nonce: %w", err)
    }

    return &BinonceCommitment{
        PartyIndex: share.Index,
        D:          curve.BasePoint().Mul(binonce.D),
        E:          curve.BasePoint().Mul(binonce.E),
    }, nil
}

// serializeSignerSet renders a signer set as a canonical, order-independent
// byte string (sorted ascending) for inclusion in a hash transcript.
func serializeSignerSet(signerSet []ParticipantIndex) []byte {
    sorted := append([]ParticipantIndex{}, signerSet...)
    sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })

    out := make([]byte, 4*len(sorted))
    for i, idx := range sorted {
        binary.BigEndian.PutUint32(out[4*i:4*i+4], uint32(idx))
    }
    return out
}

// bindingFactor computes signer i's FROST binding factor
// ρᵢ = H("frost/binding", i, (Dᵢ, Eᵢ), P, m, signer_set), per spec §4.2.
func bindingFactor(curve Curve, index ParticipantIndex, commitment *BinonceCommitment, groupKey *GroupKey, message []byte, signerSet []ParticipantIndex) (Scalar, error) {
    indexBytes := make([]byte, 4)
    binary.BigEndian.PutUint32(indexBytes, uint32(index))

    return taggedHashToScalar(curve, bindingFactorTag,
        indexBytes,
        commitment.D.CompressedBytes(),
        commitment.E.CompressedBytes(),
        groupKey.XOnlyBytes(),
        message,
        serializeSignerSet(signerSet),
    )
}

// AggregateNonce computes every signer's binding factor and the aggregate
// nonce R = Σᵢ (Dᵢ + ρᵢ·Eᵢ), normalized to even-Y, per spec §4.2. peerNonces
// must contain exactly one entry per index in signerSet.
func AggregateNonce(curve Curve, groupKey *GroupKey, message []byte, signerSet []ParticipantIndex, peerNonces map[ParticipantIndex]*BinonceCommitment) (Point, bool, map[ParticipantIndex]Scalar, error) {
    rhos := make(map[ParticipantIndex]Scalar, len(signerSet))
    aggregate := curve.PointIdentity()

    for _, idx := range signerSet {
        commitment, ok := peerNonces[idx]
        if !ok {
            return nil, false, nil, ErrInsufficientContributors.WithContext("missing_nonce_from", idx)
        }

        rho, err := bindingFactor(curve, idx, commitment, groupKey, message, signerSet)
        if err != nil {
            return nil, false, nil, fmt.Errorf("failed to compute binding factor for %d: %w", idx, err)
        }
        rhos[idx] = rho

        aggregate = aggregate.Add(commitment.D).Add(commitment.E.Mul(rho))
    }

    normalized, flipped := NormalizeEvenY(aggregate)
    return normalized, flipped, rhos, nil
}

// SignerCoefficient dispatches to plain Lagrange (flat TSS) or Birkhoff
// (hierarchical HTSS) interpolation for signer i's coefficient λᵢ(0), per
// spec §4.2. The signer set's shape is checked against meta — exactly
// Threshold signers, no duplicates, every signer ranked when hierarchical —
// before any index is folded into the scalar field.
func SignerCoefficient(curve Curve, meta *HTSSMetadata, signerSet []ParticipantIndex, myIndex ParticipantIndex) (Scalar, error) {
    policy := &ThresholdPolicy{Threshold: meta.Threshold, Total: meta.Total, Hierarchical: meta.Hierarchical, Ranks: meta.Ranks}
    if err := policy.ValidateSignerSet(signerSet); err != nil {
        return nil, err
    }

    if !meta.Hierarchical {
        indices := make([]Scalar, len(signerSet))
        myPos := -1
        for i, idx := range signerSet {
            s, err := idx.ToScalar(curve)
            if err != nil {
                return nil, fmt.Errorf("failed to convert index %d: %w", idx, err)
            }
            indices[i] = s
            if idx == myIndex {
                myPos = i
            }
        }
        if myPos < 0 {
            return nil, ErrSignerSetInvalid.WithDetails("index %d not in signer set", myIndex)
        }
        return LagrangeCoefficientAtZero(curve, indices, myPos)
    }

    parties := make([]HTSSParty, len(signerSet))
    indexInts := make([]int64, len(signerSet))
    var ranks []int
    myPos := -1
    for i, idx := range signerSet {
        s, err := idx.ToScalar(curve)
        if err != nil {
            return nil, fmt.Errorf("failed to convert index %d: %w", idx, err)
        }
        rank := meta.RankOf(idx)
        parties[i] = HTSSParty{Index: s, Rank: rank}
        indexInts[i] = int64(idx)
        ranks = append(ranks, rank)
        if idx == myIndex {
            myPos = i
        }
    }
    if myPos < 0 {
        return nil, ErrSignerSetInvalid.WithDetails("index %d not in signer set", myIndex)
    }
    if err := ValidatePolyaCondition(ranks); err != nil {
        return nil, err
    }

    coeffs, err := BirkhoffCoefficients(curve, parties, indexInts, 0, 0)
    if err != nil {
        return nil, fmt.Errorf("failed to compute Birkhoff coefficients: %w", err)
    }
    return coeffs[myPos], nil
}

// SignPartial implements spec §4.2's partial-signature generation:
// σᵢ = (dᵢ + ρᵢ·eᵢ) + e·λᵢ·sᵢ, with R_parity_flip negating the nonce term
// and groupKey.ParityFlipped (the DKG P_parity_flip composed with any HD
// tweak parity flips, already folded together by HDDerive) negating the
// share term. signerSet is validated against meta (exactly Threshold
// signers, no duplicates, every signer ranked when hierarchical) before the
// session nonce is even taken from store, per spec scenario 2's "must return
// SignerSetInvalid before any share scalar is touched" — a malformed signer
// set must not consume the caller's one-time nonce. The nonce is then
// consumed atomically through store (failing with
// NonceAlreadyUsed/NonceMissing on replay or an unknown session) before any
// share-derived value is computed, per spec scenario 6's "does not leak the
// share" requirement. groupKey must be the key actually being signed for —
// the root GroupKey for a plain signature, or an HDResult.ChildGroupKey when
// signing for a derived address.
func SignPartial(
    curve Curve,
    wallet string,
    share *PairedShare,
    meta *HTSSMetadata,
    sessionID string,
    message []byte,
    signerSet []ParticipantIndex,
    peerNonces map[ParticipantIndex]*BinonceCommitment,
    store NonceStore,
    groupKey *GroupKey,
) (*PartialSig, Point, bool, error) {
    policy := &ThresholdPolicy{Threshold: meta.Threshold, Total: meta.Total, Hierarchical: meta.Hierarchical, Ranks: meta.Ranks}
    if err := policy.ValidateSignerSet(signerSet); err != nil {
        return nil, nil, false, err
    }

    myNonce, err := store.TakeNonce(wallet, sessionID)
    if err != nil {
        return nil, nil, false, err
    }
    defer myNonce.Zeroize()

    R, rParityFlip, rhos, err := AggregateNonce(curve, groupKey, message, signerSet, peerNonces)
    if err != nil {
        return nil, nil, false, err
    }

    challenge, err := BitcoinChallenge(R, groupKey.Point, message)
    if err != nil {
        return nil, nil, false, fmt.Errorf("failed to compute challenge: %w", err)
    }

    lambda, err := SignerCoefficient(curve, meta, signerSet, share.Index)
    if err != nil {
        return nil, nil, false, err
    }

    myRho := rhos[share.Index]
    nonceTerm := myNonce.D.Add(myRho.Mul(myNonce.E))
    if rParityFlip {
        nonceTerm = nonceTerm.Negate()
    }

    shareTerm := challenge.Mul(lambda).Mul(share.Share)
    if groupKey.ParityFlipped {
        shareTerm = shareTerm.Negate()
    }

    sigma := nonceTerm.Add(shareTerm)

    return &PartialSig{PartyIndex: share.Index, S: sigma}, R, rParityFlip, nil
}

// SignCombine implements spec §4.2's combining step:
// s = Σᵢ σᵢ [+ e·tweak_total, sign-adjusted by tweakParityFlip].
// tweakTotal may be nil when no HD tweak applies (a plain, non-derived
// signature); in that case tweakParityFlip is ignored. When signing for an
// HD-derived address, tweakTotal is HDResult.CumulativeTweak and
// tweakParityFlip is HDResult.CumulativeParityFlip — the HD-only composition
// of per-level flips, which is a different quantity from groupKey's own
// ParityFlipped (the DKG root parity folded with the HD flips, already
// consumed by SignPartial's share term and not reused here; see DESIGN.md).
// groupKey must match the one passed to every SignPartial call that produced
// partials.
func SignCombine(curve Curve, partials []*PartialSig, R Point, groupKey *GroupKey, message []byte, tweakTotal Scalar, tweakParityFlip bool) (*Signature, error) {
    if len(partials) == 0 {
        return nil, ErrInsufficientContributors.WithDetails("no partial signatures supplied")
    }

    challenge, err := BitcoinChallenge(R, groupKey.Point, message)
    if err != nil {
        return nil, fmt.Errorf("failed to compute challenge: %w", err)
    }

    s := curve.ScalarZero()
    for _, p := range partials {
        s = s.Add(p.S)
    }

    if tweakTotal != nil && !tweakTotal.IsZero() {
        tweakTerm := challenge.Mul(tweakTotal)
        if tweakParityFlip {
            tweakTerm = tweakTerm.Negate()
        }
        s = s.Add(tweakTerm)
    }

    return &Signature{R: R, S: s}, nil
}
