package draw

import (
	"golang.org/x/xerrors"
)

// VerifyWinner recomputes the draw for a published seed and ticket list and
// compares the outcome with the claimed winner. A wrong claim is reported
// through Verification.Valid; malformed input is an error.
func VerifyWinner(seedHex string, tickets []string, claimed string) (*Verification, error) {
	return DefaultScorer.VerifyWinner(seedHex, tickets, claimed)
}

// VerifyWinner is the package-level VerifyWinner using the scorer's hash.
func (s *Scorer) VerifyWinner(seedHex string, raw []string, claimed string) (*Verification, error) {
	p, err := s.recompute(seedHex, raw)
	if err != nil {
		return nil, err
	}
	claimedTicket, err := NormalizeTicket(claimed)
	if err != nil {
		return nil, xerrors.Errorf("claimed winner: %w", err)
	}
	return &Verification{
		Valid:         string(claimedTicket) == p.Winner,
		Winner:        p.Winner,
		ClaimedWinner: string(claimedTicket),
		Scores:        copyMap(p.Scores),
		Proof:         p,
	}, nil
}

// VerifyProof recomputes a proof from its seed and tickets alone and checks
// that every published value agrees. Tie-breakers and winner values are
// only checked when present, since some publishers omit them.
func VerifyProof(p *Proof) error {
	return DefaultScorer.VerifyProof(p)
}

// VerifyProof is the package-level VerifyProof using the scorer's hash.
func (s *Scorer) VerifyProof(p *Proof) error {
	if p == nil {
		return xerrors.Errorf("nil proof: %w", ErrInvalidInput)
	}
	exp, err := s.recompute(p.SeedHex, p.Tickets)
	if err != nil {
		return err
	}
	if len(exp.Tickets) != len(p.Tickets) {
		return xerrors.Errorf("proof lists duplicate tickets: %w", ErrProofMismatch)
	}
	for i, t := range exp.Tickets {
		if p.Tickets[i] != t {
			return xerrors.Errorf("ticket %q is not canonical: %w", p.Tickets[i], ErrProofMismatch)
		}
	}
	if p.Winner != exp.Winner {
		return xerrors.Errorf("winner %q, expected %q: %w", p.Winner, exp.Winner, ErrProofMismatch)
	}
	if err := compareValues("score", p.Scores, exp.Scores, true); err != nil {
		return err
	}
	if err := compareValues("tie-breaker", p.TieBreakers, exp.TieBreakers, false); err != nil {
		return err
	}
	if p.WinnerScore != "" && p.WinnerScore != exp.WinnerScore {
		return xerrors.Errorf("winner score differs: %w", ErrProofMismatch)
	}
	if p.WinnerTieBreaker != "" && p.WinnerTieBreaker != exp.WinnerTieBreaker {
		return xerrors.Errorf("winner tie-breaker differs: %w", ErrProofMismatch)
	}
	return nil
}

// VerifyResult checks the whole result: the seed against the block hashes,
// the proof, and the top-level copies of the proof values.
func VerifyResult(r *DrawResult) error {
	return DefaultScorer.VerifyResult(r)
}

// VerifyResult is the package-level VerifyResult using the scorer's hash.
func (s *Scorer) VerifyResult(r *DrawResult) error {
	if r == nil {
		return xerrors.Errorf("nil result: %w", ErrInvalidInput)
	}
	seed, err := GenerateSeed(r.BlockHashes)
	if err != nil {
		return err
	}
	if seed.Hex() != r.SeedHex || r.Proof.SeedHex != r.SeedHex {
		return xerrors.Errorf("seed does not match block hashes: %w", ErrProofMismatch)
	}
	if err := s.VerifyProof(&r.Proof); err != nil {
		return err
	}
	if r.Winner != r.Proof.Winner || len(r.Tickets) != len(r.Proof.Tickets) {
		return xerrors.Errorf("result disagrees with its proof: %w", ErrProofMismatch)
	}
	for i, t := range r.Tickets {
		if r.Proof.Tickets[i] != t {
			return xerrors.Errorf("result disagrees with its proof: %w", ErrProofMismatch)
		}
	}
	return compareValues("score", r.Scores, r.Proof.Scores, true)
}

func (s *Scorer) recompute(seedHex string, raw []string) (*Proof, error) {
	seed, err := ParseSeed(seedHex)
	if err != nil {
		return nil, err
	}
	tickets, err := NormalizeTickets(raw)
	if err != nil {
		return nil, err
	}
	winner, entries, err := s.Select(seed, tickets)
	if err != nil {
		return nil, err
	}
	return newProof(seed, entries, winner), nil
}

func compareValues(kind string, got, exp map[string]string, required bool) error {
	if len(got) == 0 && !required {
		return nil
	}
	if len(got) != len(exp) {
		return xerrors.Errorf("%d %ss for %d tickets: %w", len(got), kind, len(exp), ErrProofMismatch)
	}
	for t, v := range exp {
		if got[t] != v {
			return xerrors.Errorf("%s of ticket %s differs: %w", kind, t, ErrProofMismatch)
		}
	}
	return nil
}
