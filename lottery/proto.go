package lottery

import (
	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"go.dedis.ch/onet/v3/network"
)

func init() {
	network.RegisterMessages(&storage{}, &InitUnitRequest{},
		&InitUnitReply{}, &DrawRequest{}, &DrawReply{}, &VerifyRequest{},
		&VerifyReply{}, &GetDrawRequest{}, &GetDrawReply{},
		&ListDrawsRequest{}, &ListDrawsReply{})
}

// InitUnitRequest configures the chain a node resolves block heights
// against. BlockCount is the default number of blocks per draw.
type InitUnitRequest struct {
	Chain      *entropy.Chain
	BlockCount int
}

type InitUnitReply struct {
	Tip uint64
}

// DrawRequest asks for a draw over Tickets. Explicit BlockHashes are used as
// given; otherwise BlockCount blocks are taken from the configured chain,
// starting at Height if UseHeight is set and at the tip otherwise.
type DrawRequest struct {
	Tickets     []string
	BlockHashes []string
	Height      uint64
	UseHeight   bool
	BlockCount  int
}

type DrawReply struct {
	ID      []byte
	Result  draw.DrawResult
	Receipt Receipt
}

// VerifyRequest recomputes a published draw from its seed and tickets.
type VerifyRequest struct {
	SeedHex       string
	Tickets       []string
	ClaimedWinner string
}

type VerifyReply struct {
	Valid         bool
	Winner        string
	ClaimedWinner string
	Scores        map[string]string
}

type GetDrawRequest struct {
	ID []byte
}

type GetDrawReply struct {
	Record DrawRecord
}

type ListDrawsRequest struct{}

type ListDrawsReply struct {
	IDs [][]byte
}
