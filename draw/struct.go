package draw

import (
	"encoding/binary"
	"math/big"

	"github.com/dedis/blocklot/utils"
)

// Ticket is the canonical decimal representation of a ticket number. Only
// NormalizeTicket produces valid values.
type Ticket string

// Int returns the numeric value of the ticket.
func (t Ticket) Int() *big.Int {
	n, ok := new(big.Int).SetString(string(t), 10)
	if !ok {
		return new(big.Int)
	}
	return n
}

func (t Ticket) String() string {
	return string(t)
}

// Entry holds the values computed for one ticket of a draw.
type Entry struct {
	Ticket     Ticket
	Score      *big.Int
	TieBreaker *big.Int
}

// Less orders entries by score, then by tie-breaker. Entries that collide on
// both keys are ordered by ticket value, which keeps the order total.
func (e *Entry) Less(o *Entry) bool {
	if c := e.Score.Cmp(o.Score); c != 0 {
		return c < 0
	}
	if c := e.TieBreaker.Cmp(o.TieBreaker); c != 0 {
		return c < 0
	}
	return e.Ticket.Int().Cmp(o.Ticket.Int()) < 0
}

// DrawResult is the outcome of ConductDraw. It is built once and must not
// be modified afterwards.
type DrawResult struct {
	BlockHashes  []string          `json:"block_hashes"`
	BlockHeights []uint64          `json:"block_heights,omitempty"`
	SeedHex      string            `json:"seed_hex"`
	Tickets      []string          `json:"tickets"`
	Winner       string            `json:"winner"`
	Scores       map[string]string `json:"scores"`
	Proof        Proof             `json:"proof"`
}

// Proof carries everything a third party needs to recompute the winner
// without the block hashes.
type Proof struct {
	SeedHex          string            `json:"seed_hex"`
	Tickets          []string          `json:"tickets"`
	Scores           map[string]string `json:"scores"`
	TieBreakers      map[string]string `json:"tie_breakers,omitempty"`
	Winner           string            `json:"winner"`
	WinnerScore      string            `json:"winner_score,omitempty"`
	WinnerTieBreaker string            `json:"winner_tie_breaker,omitempty"`
}

// Hash returns a digest binding the seed, the ordered tickets with their
// scores, and the winner.
func (p *Proof) Hash() []byte {
	var fields [][]byte
	add := func(s string) {
		l := make([]byte, 8)
		binary.LittleEndian.PutUint64(l, uint64(len(s)))
		fields = append(fields, l, []byte(s))
	}
	add(p.SeedHex)
	for _, t := range p.Tickets {
		add(t)
		add(p.Scores[t])
		add(p.TieBreakers[t])
	}
	add(p.Winner)
	return utils.Hash(fields...)
}

// Verification is the outcome of VerifyWinner.
type Verification struct {
	Valid         bool
	Winner        string
	ClaimedWinner string
	Scores        map[string]string
	Proof         *Proof
}
