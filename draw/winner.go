package draw

import (
	"math/big"
)

// Select scores the tickets and returns the entry with the smallest
// (score, tie-breaker) pair together with all entries, in ticket order.
func (s *Scorer) Select(seed Seed, tickets []Ticket) (*Entry, []Entry, error) {
	if len(tickets) == 0 {
		return nil, nil, ErrEmptyTicketSet
	}
	entries := s.Entries(seed, tickets)
	return minEntry(entries), entries, nil
}

func minEntry(entries []Entry) *Entry {
	best := &entries[0]
	for i := 1; i < len(entries); i++ {
		if entries[i].Less(best) {
			best = &entries[i]
		}
	}
	return best
}

// SelectWinner returns the winning ticket and the score of every ticket.
func SelectWinner(seed Seed, tickets []Ticket) (Ticket, map[Ticket]*big.Int, error) {
	winner, entries, err := DefaultScorer.Select(seed, tickets)
	if err != nil {
		return "", nil, err
	}
	scores := make(map[Ticket]*big.Int, len(entries))
	for _, e := range entries {
		scores[e.Ticket] = e.Score
	}
	return winner.Ticket, scores, nil
}
