package draw

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

var testHashes = []string{
	strings.Repeat("a", 64),
	strings.Repeat("b", 64),
	strings.Repeat("c", 64),
}

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func sha256Int(msg string) *big.Int {
	sum := sha256.Sum256([]byte(msg))
	return new(big.Int).SetBytes(sum[:])
}

func TestGenerateSeed(t *testing.T) {
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	sum := sha256.Sum256([]byte(strings.Join(testHashes, "")))
	require.Equal(t, hex.EncodeToString(sum[:]), seed.Hex())
	require.Len(t, seed.Hex(), 64)

	again, err := GenerateSeed(append([]string(nil), testHashes...))
	require.NoError(t, err)
	require.Equal(t, seed, again)

	reversed := []string{testHashes[2], testHashes[1], testHashes[0]}
	rseed, err := GenerateSeed(reversed)
	require.NoError(t, err)
	require.NotEqual(t, seed, rseed)

	_, err = GenerateSeed(nil)
	require.True(t, xerrors.Is(err, ErrInvalidInput))
}

func TestParseSeed(t *testing.T) {
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	parsed, err := ParseSeed(seed.Hex())
	require.NoError(t, err)
	require.Equal(t, seed, parsed)

	for _, bad := range []string{"", "abcd", strings.ToUpper(seed.Hex()),
		strings.Repeat("g", 64), seed.Hex() + "00"} {
		_, err := ParseSeed(bad)
		require.True(t, xerrors.Is(err, ErrInvalidSeed), bad)
	}
}

func TestScore(t *testing.T) {
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	require.Equal(t, sha256Int(seed.Hex()+":1"), ComputeScore(seed, "1"))
	require.Equal(t, sha256Int(seed.Hex()+":1:tb1"), ComputeTieBreaker(seed, "1"))
	require.NotEqual(t, ComputeScore(seed, "1"), ComputeTieBreaker(seed, "1"))
}

func TestConductDraw_Scenario(t *testing.T) {
	res, err := ConductDraw(testHashes, []string{"1", "2", "3"})
	require.NoError(t, err)

	seedSum := sha256.Sum256([]byte(strings.Join(testHashes, "")))
	seedHex := hex.EncodeToString(seedSum[:])
	require.Equal(t, seedHex, res.SeedHex)
	require.Equal(t, testHashes, res.BlockHashes)
	require.Equal(t, []string{"1", "2", "3"}, res.Tickets)

	var winner string
	var min *big.Int
	for _, tk := range []string{"1", "2", "3"} {
		exp := sha256Int(seedHex + ":" + tk)
		require.Equal(t, exp.String(), res.Scores[tk])
		if min == nil || exp.Cmp(min) < 0 {
			min = exp
			winner = tk
		}
	}
	require.Equal(t, winner, res.Winner)
	require.Equal(t, winner, res.Proof.Winner)
	require.Equal(t, min.String(), res.Proof.WinnerScore)
	require.Equal(t, res.Scores, res.Proof.Scores)
	require.Equal(t, res.Tickets, res.Proof.Tickets)
	require.Equal(t, seedHex, res.Proof.SeedHex)
	require.Empty(t, res.BlockHeights)
}

func TestConductDraw_Deterministic(t *testing.T) {
	tickets := TicketsFromInts([]int64{666, 77, 123, 1, 6, 1234, 34567, 126})
	r1, err := ConductDraw(testHashes, tickets)
	require.NoError(t, err)
	r2, err := ConductDraw(testHashes, tickets)
	require.NoError(t, err)
	require.Equal(t, r1, r2)
	require.Equal(t, r1.Proof.Hash(), r2.Proof.Hash())
}

func TestConductDraw_Errors(t *testing.T) {
	_, err := ConductDraw(nil, []string{"1", "2", "3"})
	require.True(t, xerrors.Is(err, ErrInvalidInput))

	_, err = ConductDraw(testHashes[:1], nil)
	require.True(t, xerrors.Is(err, ErrEmptyTicketSet))

	_, err = ConductDraw(testHashes, []string{"1", "two"})
	require.True(t, xerrors.Is(err, ErrNonNumericTicket))

	_, err = ConductBlockDraw([]uint64{10, 9}, testHashes, []string{"1"})
	require.True(t, xerrors.Is(err, ErrInvalidInput))
}

func TestConductDraw_Normalization(t *testing.T) {
	res, err := ConductDraw(testHashes, []string{"007", " 5", "7", "+5", "12"})
	require.NoError(t, err)
	require.Equal(t, []string{"7", "5", "12"}, res.Tickets)
	require.Len(t, res.Scores, 3)

	plain, err := ConductDraw(testHashes, []string{"7", "5", "12"})
	require.NoError(t, err)
	require.Equal(t, plain, res)
}

func TestConductBlockDraw(t *testing.T) {
	res, err := ConductBlockDraw([]uint64{100, 99, 98}, testHashes, []string{"1", "2"})
	require.NoError(t, err)
	require.Equal(t, []uint64{100, 99, 98}, res.BlockHeights)
	plain, err := ConductDraw(testHashes, []string{"1", "2"})
	require.NoError(t, err)
	require.Equal(t, plain.Proof, res.Proof)
}

func TestSelectWinner_OrderIndependent(t *testing.T) {
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	tickets := make([]Ticket, 500)
	for i := range tickets {
		tickets[i] = Ticket(strconv.Itoa(i * 3))
	}
	winner, scores, err := SelectWinner(seed, tickets)
	require.NoError(t, err)
	require.Len(t, scores, len(tickets))

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]Ticket(nil), tickets...)
		rnd.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		w, s, err := SelectWinner(seed, shuffled)
		require.NoError(t, err)
		require.Equal(t, winner, w)
		require.Equal(t, scores, s)
	}

	_, _, err = SelectWinner(seed, nil)
	require.True(t, xerrors.Is(err, ErrEmptyTicketSet))
}

func TestScorer_ParallelMatchesSequential(t *testing.T) {
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	tickets := make([]Ticket, 2*parallelThreshold+17)
	for i := range tickets {
		tickets[i] = Ticket(strconv.Itoa(i))
	}
	seq := (&Scorer{Workers: 1}).Entries(seed, tickets)
	par := (&Scorer{Workers: 7}).Entries(seed, tickets)
	require.Equal(t, seq, par)
	for i, e := range par {
		require.Equal(t, tickets[i], e.Ticket)
	}
}

// collidingHash gives every ticket the same score; tie-breakers keep their
// SHA-256 values.
func collidingHash(data []byte) []byte {
	if strings.HasSuffix(string(data), TieBreakerSuffix) {
		sum := sha256.Sum256(data)
		return sum[:]
	}
	return []byte{0x42}
}

func TestScorer_TieBreak(t *testing.T) {
	s := &Scorer{Hash: collidingHash}
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	tickets := []Ticket{"1", "2", "3", "4", "5"}

	var exp Ticket
	var min *big.Int
	for _, tk := range tickets {
		require.Equal(t, big.NewInt(0x42), s.Score(seed, tk))
		tb := sha256Int(seed.Hex() + ":" + string(tk) + ":tb1")
		if min == nil || tb.Cmp(min) < 0 {
			min, exp = tb, tk
		}
	}
	winner, _, err := s.Select(seed, tickets)
	require.NoError(t, err)
	require.Equal(t, exp, winner.Ticket)

	rev := []Ticket{"5", "4", "3", "2", "1"}
	winner, _, err = s.Select(seed, rev)
	require.NoError(t, err)
	require.Equal(t, exp, winner.Ticket)

	res, err := s.Conduct(testHashes, nil, []string{"5", "1", "3", "2", "4"})
	require.NoError(t, err)
	require.Equal(t, string(exp), res.Winner)
	require.Equal(t, min.String(), res.Proof.WinnerTieBreaker)
	require.NoError(t, s.VerifyProof(&res.Proof))
}

func TestScorer_FullCollision(t *testing.T) {
	s := &Scorer{Hash: func([]byte) []byte { return []byte{1} }}
	seed, err := GenerateSeed(testHashes)
	require.NoError(t, err)
	winner, _, err := s.Select(seed, []Ticket{"30", "4", "200"})
	require.NoError(t, err)
	require.Equal(t, Ticket("4"), winner.Ticket)
}

func TestEntry_Less(t *testing.T) {
	a := &Entry{Ticket: "1", Score: big.NewInt(10), TieBreaker: big.NewInt(5)}
	b := &Entry{Ticket: "2", Score: big.NewInt(9), TieBreaker: big.NewInt(50)}
	c := &Entry{Ticket: "3", Score: big.NewInt(10), TieBreaker: big.NewInt(4)}
	require.True(t, b.Less(a))
	require.False(t, a.Less(b))
	require.True(t, c.Less(a))
	require.False(t, a.Less(a))

	// "1000..." sorts before "9" as a string
	big1, _ := new(big.Int).SetString("100000000000000000000000000000", 10)
	d := &Entry{Ticket: "4", Score: big1, TieBreaker: big.NewInt(0)}
	require.True(t, b.Less(d))
}
