package frost

// ParticipantIndex is the 1-based party identifier of spec §3's Party Index.
type ParticipantIndex uint32

// GroupKey is the x-only (even-Y) group public key of spec §3, fixed at DKG
// completion and invariant under resharing, recovery, and non-hardened child
// derivation up to parity flipping.
type GroupKey struct {
    Point Point
    // ParityFlipped records whether the summed Round-1 commitments required
    // negation to reach even-Y (the "P_parity_flip" spec §4.2 refers to),
    // since every future signing partial must account for it.
    ParityFlipped bool
}

// XOnlyBytes returns the 32-byte x-only encoding used at module boundaries.
func (g *GroupKey) XOnlyBytes() []byte {
    p, ok := g.Point.(*Secp256k1Point)
    if !ok {
        return make([]byte, 32)
    }
    return p.XOnlyBytes()
}

// HTSSMetadata is the per-wallet mapping every party holds identically:
// index -> rank, threshold, total, and whether hierarchical (HTSS) sharing
// is in effect at all (spec §3).
type HTSSMetadata struct {
    Ranks        map[ParticipantIndex]int
    Threshold    int
    Total        int
    Hierarchical bool
}

// RankOf returns the rank of index, defaulting to 0 (flat TSS) when absent.
func (m *HTSSMetadata) RankOf(index ParticipantIndex) int {
    if m == nil || m.Ranks == nil {
        return 0
    }
    if r, ok := m.Ranks[index]; ok {
        return r
    }
    return 0
}

// PairedShare is the per-party long-term secret of spec §3: the triple
// (index, share_scalar, group_pubkey). Share is cleared by Zeroize and
// never logged.
type PairedShare struct {
    Index    ParticipantIndex
    Share    Scalar
    GroupKey *GroupKey
}

// Zeroize clears the secret share scalar.
func (ps *PairedShare) Zeroize() {
    if ps.Share != nil {
        ps.Share.Zeroize()
    }
}

// Binonce is a party's one-shot secret nonce pair (d, e) of spec §3; MUST
// NOT be reused across messages and is zeroized after partial-signature
// emission.
type Binonce struct {
    D Scalar
    E Scalar
}

// Zeroize clears both nonce scalars.
func (n *Binonce) Zeroize() {
    if n.D != nil {
        n.D.Zeroize()
    }
    if n.E != nil {
        n.E.Zeroize()
    }
}

// BinonceCommitment is the public half (D, E) = (d·G, e·G) a party
// broadcasts in spec §4.2's nonce-generation step.
type BinonceCommitment struct {
    PartyIndex ParticipantIndex
    D          Point
    E          Point
}

// PartialSig is spec §3's (party_index, signature_share_scalar) pair.
type PartialSig struct {
    PartyIndex ParticipantIndex
    S          Scalar
}

// Signature is the final BIP-340 pair (R.x, s).
type Signature struct {
    R Point
    S Scalar
}
