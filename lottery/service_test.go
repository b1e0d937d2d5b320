package lottery

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"go.dedis.ch/kyber/v3/util/key"
	"go.dedis.ch/onet/v3"
	"go.dedis.ch/onet/v3/log"
	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

var testTickets = []string{"666", "77", "123", "1", "6", "1234", "34567", "126"}

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func testChain(t *testing.T) *entropy.Chain {
	var blocks []entropy.Block
	for h := uint64(800000); h <= 800010; h++ {
		blocks = append(blocks, entropy.Block{Height: h, Hash: fmt.Sprintf("%064x", h*7919)})
	}
	chain, err := entropy.NewChain(blocks)
	require.NoError(t, err)
	return chain
}

func setup(t *testing.T) (*onet.LocalTest, *onet.Roster, *Service) {
	local := onet.NewTCPTest(cothority.Suite)
	hosts, roster, _ := local.GenTree(3, true)
	services := local.GetServices(hosts, lotteryID)
	return local, roster, services[0].(*Service)
}

func TestService_Draw(t *testing.T) {
	local, _, root := setup(t)
	defer local.CloseAll()

	_, err := root.Draw(&DrawRequest{Tickets: testTickets})
	require.Error(t, err)

	chain := testChain(t)
	initReply, err := root.InitUnit(&InitUnitRequest{Chain: chain})
	require.NoError(t, err)
	require.Equal(t, uint64(800010), initReply.Tip)

	reply, err := root.Draw(&DrawRequest{Tickets: testTickets})
	require.NoError(t, err)
	res := reply.Result
	require.Equal(t, []uint64{800010, 800009, 800008}, res.BlockHeights)
	require.Equal(t, fmt.Sprintf("%064x", uint64(800010)*7919), res.BlockHashes[0])
	require.NoError(t, draw.VerifyResult(&res))
	require.NoError(t, reply.Receipt.Verify(&res.Proof))
	require.Equal(t, res.Proof.Hash(), reply.ID)

	plain, err := draw.ConductDraw(res.BlockHashes, testTickets)
	require.NoError(t, err)
	require.Equal(t, plain.Proof, res.Proof)

	tampered := res.Proof
	tampered.Winner = "0"
	require.Error(t, reply.Receipt.Verify(&tampered))

	got, err := root.GetDraw(&GetDrawRequest{ID: reply.ID})
	require.NoError(t, err)
	require.Equal(t, res.Proof, got.Record.Result.Proof)
	require.Equal(t, res.BlockHeights, got.Record.Result.BlockHeights)
	require.NoError(t, got.Record.Receipt.Verify(&got.Record.Result.Proof))
	require.NotZero(t, got.Record.Timestamp)

	list, err := root.ListDraws(&ListDrawsRequest{})
	require.NoError(t, err)
	require.Equal(t, [][]byte{reply.ID}, list.IDs)

	_, err = root.GetDraw(&GetDrawRequest{ID: []byte("nope")})
	require.True(t, xerrors.Is(err, ErrUnknownDraw))
}

func TestService_DrawAtHeight(t *testing.T) {
	local, _, root := setup(t)
	defer local.CloseAll()

	_, err := root.InitUnit(&InitUnitRequest{Chain: testChain(t), BlockCount: 2})
	require.NoError(t, err)

	reply, err := root.Draw(&DrawRequest{Tickets: testTickets, UseHeight: true, Height: 800005})
	require.NoError(t, err)
	require.Equal(t, []uint64{800005, 800004}, reply.Result.BlockHeights)

	reply, err = root.Draw(&DrawRequest{Tickets: testTickets, UseHeight: true,
		Height: 800005, BlockCount: 4})
	require.NoError(t, err)
	require.Equal(t, []uint64{800005, 800004, 800003, 800002}, reply.Result.BlockHeights)

	_, err = root.Draw(&DrawRequest{Tickets: testTickets, UseHeight: true, Height: 800000})
	require.True(t, xerrors.Is(err, entropy.ErrUnknownBlock))

	_, err = root.InitUnit(&InitUnitRequest{})
	require.Error(t, err)
	_, err = root.InitUnit(&InitUnitRequest{Chain: testChain(t), BlockCount: -1})
	require.Error(t, err)
}

func TestService_DrawExplicit(t *testing.T) {
	local, _, root := setup(t)
	defer local.CloseAll()

	hashes := []string{fmt.Sprintf("%064x", 1), fmt.Sprintf("%064x", 2)}
	reply, err := root.Draw(&DrawRequest{Tickets: testTickets, BlockHashes: hashes})
	require.NoError(t, err)
	require.Empty(t, reply.Result.BlockHeights)
	require.Equal(t, hashes, reply.Result.BlockHashes)

	_, err = root.Draw(&DrawRequest{Tickets: testTickets, BlockHashes: []string{"xyz"}})
	require.True(t, xerrors.Is(err, entropy.ErrInvalidHash))

	_, err = root.Draw(&DrawRequest{Tickets: []string{"1", "one"}, BlockHashes: hashes})
	require.True(t, xerrors.Is(err, draw.ErrNonNumericTicket))

	_, err = root.Draw(&DrawRequest{BlockHashes: hashes})
	require.True(t, xerrors.Is(err, draw.ErrEmptyTicketSet))
}

func TestService_Verify(t *testing.T) {
	local, _, root := setup(t)
	defer local.CloseAll()

	res, err := draw.ConductDraw([]string{fmt.Sprintf("%064x", 42)}, testTickets)
	require.NoError(t, err)

	reply, err := root.Verify(&VerifyRequest{SeedHex: res.SeedHex,
		Tickets: testTickets, ClaimedWinner: res.Winner})
	require.NoError(t, err)
	require.True(t, reply.Valid)
	require.Equal(t, res.Scores, reply.Scores)

	loser := "1"
	if res.Winner == loser {
		loser = "6"
	}
	reply, err = root.Verify(&VerifyRequest{SeedHex: res.SeedHex,
		Tickets: testTickets, ClaimedWinner: loser})
	require.NoError(t, err)
	require.False(t, reply.Valid)
	require.Equal(t, res.Winner, reply.Winner)

	_, err = root.Verify(&VerifyRequest{SeedHex: "abc", Tickets: testTickets,
		ClaimedWinner: res.Winner})
	require.True(t, xerrors.Is(err, draw.ErrInvalidSeed))
}

func TestClient(t *testing.T) {
	local, roster, _ := setup(t)
	defer local.CloseAll()

	cl := NewClient(roster)
	defer cl.Close()
	_, err := cl.InitUnit(testChain(t), 3)
	require.NoError(t, err)

	reply, err := cl.Draw(&DrawRequest{Tickets: testTickets})
	require.NoError(t, err)
	require.True(t, reply.Receipt.Public.Equal(roster.List[0].Public))

	got, err := cl.GetDraw(reply.ID)
	require.NoError(t, err)
	require.Equal(t, reply.Result.Winner, got.Record.Result.Winner)

	list, err := cl.ListDraws()
	require.NoError(t, err)
	require.Len(t, list.IDs, 1)

	v, err := cl.Verify(reply.Result.SeedHex, reply.Result.Tickets, reply.Result.Winner)
	require.NoError(t, err)
	require.True(t, v.Valid)

	_, err = cl.Draw(&DrawRequest{Tickets: []string{"x"}})
	require.Error(t, err)
}

func TestArchive(t *testing.T) {
	dir, err := ioutil.TempDir("", "archive")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	db, err := bbolt.Open(filepath.Join(dir, "db"), 0600, nil)
	require.NoError(t, err)
	defer db.Close()

	a, err := newArchive(db, []byte("draws"))
	require.NoError(t, err)
	res, err := draw.ConductBlockDraw([]uint64{7}, []string{fmt.Sprintf("%064x", 7)}, testTickets)
	require.NoError(t, err)

	id := res.Proof.Hash()
	kp := key.NewKeyPair(cothority.Suite)
	sig, err := schnorr.Sign(cothority.Suite, kp.Private, id)
	require.NoError(t, err)
	receipt := Receipt{Public: kp.Public, Signature: sig}
	require.NoError(t, a.put(id, &DrawRecord{Result: *res, Receipt: receipt, Timestamp: 12}))
	rec, err := a.get(id)
	require.NoError(t, err)
	require.Equal(t, int64(12), rec.Timestamp)
	require.Equal(t, res.Proof, rec.Result.Proof)
	require.Equal(t, res.Scores, rec.Result.Scores)
	require.Equal(t, []uint64{7}, rec.Result.BlockHeights)
	require.NoError(t, draw.VerifyResult(&rec.Result))
	require.True(t, rec.Receipt.Public.Equal(kp.Public))
	require.NoError(t, rec.Receipt.Verify(&rec.Result.Proof))

	_, err = a.get([]byte("missing"))
	require.True(t, xerrors.Is(err, ErrUnknownDraw))

	ids, err := a.ids()
	require.NoError(t, err)
	require.Equal(t, [][]byte{id}, ids)
}
