package lottery

import (
	"sync"

	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"golang.org/x/xerrors"
)

type storage struct {
	Chain      *entropy.Chain
	BlockCount int
	sync.Mutex
}

// Receipt is a conode's schnorr signature over the hash of a draw proof.
type Receipt struct {
	Public    kyber.Point
	Signature []byte
}

// Verify checks the receipt against the proof it claims to sign.
func (r *Receipt) Verify(p *draw.Proof) error {
	if r.Public == nil {
		return xerrors.New("receipt has no public key")
	}
	return schnorr.Verify(cothority.Suite, r.Public, p.Hash(), r.Signature)
}

// DrawRecord is what the archive keeps per draw.
type DrawRecord struct {
	Result    draw.DrawResult
	Receipt   Receipt
	Timestamp int64
}
