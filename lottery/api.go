package lottery

import (
	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/onet/v3"
	"golang.org/x/xerrors"
)

type Client struct {
	*onet.Client
	roster *onet.Roster
}

func NewClient(r *onet.Roster) *Client {
	return &Client{Client: onet.NewClient(cothority.Suite, ServiceName), roster: r}
}

// InitUnit sends the chain to every node of the roster.
func (c *Client) InitUnit(chain *entropy.Chain, blockCount int) (*InitUnitReply, error) {
	req := &InitUnitRequest{Chain: chain, BlockCount: blockCount}
	reply := &InitUnitReply{}
	for _, dst := range c.roster.List {
		err := c.SendProtobuf(dst, req, reply)
		if err != nil {
			return nil, err
		}
	}
	return reply, nil
}

// Draw asks the first node for a draw and checks the reply before returning
// it: the result must recompute from its block hashes and the receipt must
// carry the node's signature.
func (c *Client) Draw(req *DrawRequest) (*DrawReply, error) {
	reply := &DrawReply{}
	err := c.SendProtobuf(c.roster.List[0], req, reply)
	if err != nil {
		return nil, err
	}
	if err := c.check(&reply.Result, &reply.Receipt); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) Verify(seedHex string, tickets []string, claimed string) (*VerifyReply, error) {
	req := &VerifyRequest{
		SeedHex:       seedHex,
		Tickets:       tickets,
		ClaimedWinner: claimed,
	}
	reply := &VerifyReply{}
	err := c.SendProtobuf(c.roster.List[0], req, reply)
	return reply, err
}

// GetDraw fetches an archived draw and checks it like Draw does.
func (c *Client) GetDraw(id []byte) (*GetDrawReply, error) {
	reply := &GetDrawReply{}
	err := c.SendProtobuf(c.roster.List[0], &GetDrawRequest{ID: id}, reply)
	if err != nil {
		return nil, err
	}
	if err := c.check(&reply.Record.Result, &reply.Record.Receipt); err != nil {
		return nil, err
	}
	return reply, nil
}

func (c *Client) ListDraws() (*ListDrawsReply, error) {
	reply := &ListDrawsReply{}
	err := c.SendProtobuf(c.roster.List[0], &ListDrawsRequest{}, reply)
	return reply, err
}

func (c *Client) check(res *draw.DrawResult, receipt *Receipt) error {
	if err := draw.VerifyResult(res); err != nil {
		return xerrors.Errorf("node returned an inconsistent draw: %w", err)
	}
	if receipt.Public == nil || !receipt.Public.Equal(c.roster.List[0].Public) {
		return xerrors.New("receipt is not signed by the queried node")
	}
	if err := receipt.Verify(&res.Proof); err != nil {
		return xerrors.Errorf("invalid receipt: %v", err)
	}
	return nil
}
