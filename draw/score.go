package draw

import (
	"math/big"
	"runtime"
	"sync"

	"github.com/dedis/blocklot/utils"
)

// TieBreakerSuffix separates the tie-breaker hash domain from the score hash
// domain.
const TieBreakerSuffix = ":tb1"

// parallelThreshold is the ticket count below which scoring stays on the
// calling goroutine.
const parallelThreshold = 256

// HashFunc maps a message to a digest that is read as a big-endian unsigned
// integer.
type HashFunc func(data []byte) []byte

// Scorer computes ticket scores and tie-breakers.
type Scorer struct {
	// Hash defaults to SHA-256.
	Hash HashFunc
	// Workers bounds the scoring goroutines. Zero means runtime.NumCPU().
	Workers int
}

// DefaultScorer is the SHA-256 scorer used by the package-level functions.
var DefaultScorer = &Scorer{}

func (s *Scorer) hash(msg string) *big.Int {
	var digest []byte
	if s.Hash != nil {
		digest = s.Hash([]byte(msg))
	} else {
		digest = utils.HashString(msg)
	}
	return new(big.Int).SetBytes(digest)
}

// Score hashes seed_hex + ":" + ticket.
func (s *Scorer) Score(seed Seed, t Ticket) *big.Int {
	return s.hash(seed.Hex() + ":" + string(t))
}

// TieBreaker hashes seed_hex + ":" + ticket + ":tb1".
func (s *Scorer) TieBreaker(seed Seed, t Ticket) *big.Int {
	return s.hash(seed.Hex() + ":" + string(t) + TieBreakerSuffix)
}

// Entry computes both values for one ticket.
func (s *Scorer) Entry(seed Seed, t Ticket) Entry {
	return Entry{
		Ticket:     t,
		Score:      s.Score(seed, t),
		TieBreaker: s.TieBreaker(seed, t),
	}
}

// Entries scores all tickets. The result is index-aligned with tickets.
// Large sets are split into contiguous ranges scored concurrently; every
// goroutine writes only its own slots.
func (s *Scorer) Entries(seed Seed, tickets []Ticket) []Entry {
	entries := make([]Entry, len(tickets))
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(tickets) < parallelThreshold || workers == 1 {
		for i, t := range tickets {
			entries[i] = s.Entry(seed, t)
		}
		return entries
	}
	chunk := (len(tickets) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(tickets); start += chunk {
		end := start + chunk
		if end > len(tickets) {
			end = len(tickets)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				entries[i] = s.Entry(seed, tickets[i])
			}
		}(start, end)
	}
	wg.Wait()
	return entries
}

// ComputeScore returns the SHA-256 score of a ticket.
func ComputeScore(seed Seed, t Ticket) *big.Int {
	return DefaultScorer.Score(seed, t)
}

// ComputeTieBreaker returns the SHA-256 tie-breaker of a ticket.
func ComputeTieBreaker(seed Seed, t Ticket) *big.Int {
	return DefaultScorer.TieBreaker(seed, t)
}
