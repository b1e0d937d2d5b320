package draw

import "golang.org/x/xerrors"

var (
	// ErrInvalidInput is returned when no entropy inputs are given.
	ErrInvalidInput = xerrors.New("invalid input: empty entropy sequence")
	// ErrEmptyTicketSet is returned when a draw has no tickets.
	ErrEmptyTicketSet = xerrors.New("empty ticket set")
	// ErrNonNumericTicket is returned when a ticket is not a decimal integer.
	ErrNonNumericTicket = xerrors.New("non-numeric ticket")
	// ErrInvalidSeed is returned for seeds that are not 64 lowercase hex
	// characters.
	ErrInvalidSeed = xerrors.New("invalid seed")
	// ErrProofMismatch is returned when a recomputation disagrees with a
	// published proof.
	ErrProofMismatch = xerrors.New("proof mismatch")
)
