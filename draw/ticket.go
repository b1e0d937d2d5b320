package draw

import (
	"math/big"
	"strconv"
	"strings"

	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

// NormalizeTicket returns the canonical decimal form of a ticket number:
// no leading zeros, no plus sign, "0" for negative zero. Surrounding
// whitespace is ignored; anything else that is not an optionally signed
// run of decimal digits is rejected.
func NormalizeTicket(raw string) (Ticket, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return "", xerrors.Errorf("ticket %q: %w", raw, ErrNonNumericTicket)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return "", xerrors.Errorf("ticket %q: %w", raw, ErrNonNumericTicket)
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return "", xerrors.Errorf("ticket %q: %w", raw, ErrNonNumericTicket)
	}
	return Ticket(n.String()), nil
}

// NormalizeTickets normalizes every ticket and drops duplicates, keeping the
// first occurrence so the input order survives.
func NormalizeTickets(raw []string) ([]Ticket, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyTicketSet
	}
	seen := make(map[Ticket]bool, len(raw))
	tickets := make([]Ticket, 0, len(raw))
	for i, r := range raw {
		t, err := NormalizeTicket(r)
		if err != nil {
			return nil, xerrors.Errorf("ticket #%d: %w", i, err)
		}
		if seen[t] {
			log.Lvlf2("Dropping duplicate ticket %s at index %d", t, i)
			continue
		}
		seen[t] = true
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// TicketsFromInts renders integer ticket numbers in the string form
// accepted by ConductDraw.
func TicketsFromInts(nums []int64) []string {
	raw := make([]string, len(nums))
	for i, n := range nums {
		raw[i] = strconv.FormatInt(n, 10)
	}
	return raw
}

func ticketStrings(tickets []Ticket) []string {
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = string(t)
	}
	return out
}
