package draw

import (
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// ConductDraw runs a complete draw over the given block hashes and tickets.
// Tickets are normalized and deduplicated before scoring. On error no result
// is returned.
func ConductDraw(hashes []string, tickets []string) (*DrawResult, error) {
	return DefaultScorer.Conduct(hashes, nil, tickets)
}

// ConductBlockDraw is ConductDraw for callers that also know the heights of
// the blocks; heights are copied into the result for display only.
func ConductBlockDraw(heights []uint64, hashes []string, tickets []string) (*DrawResult, error) {
	return DefaultScorer.Conduct(hashes, heights, tickets)
}

// Conduct runs a draw with the scorer's hash function.
func (s *Scorer) Conduct(hashes []string, heights []uint64, raw []string) (*DrawResult, error) {
	seed, err := GenerateSeed(hashes)
	if err != nil {
		return nil, err
	}
	if len(heights) != 0 && len(heights) != len(hashes) {
		return nil, xerrors.Errorf("%d heights for %d hashes: %w",
			len(heights), len(hashes), ErrInvalidInput)
	}
	tickets, err := NormalizeTickets(raw)
	if err != nil {
		return nil, err
	}
	winner, entries, err := s.Select(seed, tickets)
	if err != nil {
		return nil, err
	}
	proof := newProof(seed, entries, winner)
	log.Lvlf2("Draw over %d blocks and %d tickets: winner %s", len(hashes),
		len(tickets), winner.Ticket)

	res := &DrawResult{
		BlockHashes: append([]string(nil), hashes...),
		SeedHex:     proof.SeedHex,
		Tickets:     ticketStrings(tickets),
		Winner:      proof.Winner,
		Scores:      copyMap(proof.Scores),
		Proof:       *proof,
	}
	if len(heights) > 0 {
		res.BlockHeights = append([]uint64(nil), heights...)
	}
	return res, nil
}

func newProof(seed Seed, entries []Entry, winner *Entry) *Proof {
	p := &Proof{
		SeedHex:          seed.Hex(),
		Tickets:          make([]string, len(entries)),
		Scores:           make(map[string]string, len(entries)),
		TieBreakers:      make(map[string]string, len(entries)),
		Winner:           string(winner.Ticket),
		WinnerScore:      winner.Score.String(),
		WinnerTieBreaker: winner.TieBreaker.String(),
	}
	for i, e := range entries {
		t := string(e.Ticket)
		p.Tickets[i] = t
		p.Scores[t] = e.Score.String()
		p.TieBreakers[t] = e.TieBreaker.String()
	}
	return p
}

func copyMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
