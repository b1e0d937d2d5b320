package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
	"gopkg.in/urfave/cli.v1"
)

// ticketFile is the layout of a ticket list file: {"tickets": [666, 77]}.
// Entries may be JSON numbers or strings.
type ticketFile struct {
	Tickets []json.RawMessage `json:"tickets"`
}

func readTicketFile(path string) ([]string, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTickets(buf)
}

func parseTickets(buf []byte) ([]string, error) {
	var tf ticketFile
	if err := json.Unmarshal(buf, &tf); err != nil {
		return nil, xerrors.Errorf("couldn't decode tickets: %v", err)
	}
	tickets := make([]string, len(tf.Tickets))
	for i, raw := range tf.Tickets {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			tickets[i] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, xerrors.Errorf("ticket #%d: %v", i, err)
		}
		tickets[i] = n.String()
	}
	return tickets, nil
}

// collectTickets merges --ticket flags and --tickets file entries, flags
// first.
func collectTickets(c *cli.Context) ([]string, error) {
	tickets := append([]string(nil), c.StringSlice("ticket")...)
	if path := c.String("tickets"); path != "" {
		fromFile, err := readTicketFile(path)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, fromFile...)
	}
	if len(tickets) == 0 {
		return nil, draw.ErrEmptyTicketSet
	}
	return tickets, nil
}

// collectBlocks returns the entropy of a local draw: either the --hash
// values as given, or blocks resolved from a --chain file.
func collectBlocks(c *cli.Context) ([]uint64, []string, error) {
	if hashes := c.StringSlice("hash"); len(hashes) > 0 {
		for i, h := range hashes {
			if err := entropy.ValidateHash(h); err != nil {
				return nil, nil, xerrors.Errorf("hash #%d: %w", i, err)
			}
		}
		return nil, hashes, nil
	}
	path := c.String("chain")
	if path == "" {
		return nil, nil, xerrors.New("need either --hash or --chain")
	}
	chain, err := entropy.LoadChain(path)
	if err != nil {
		return nil, nil, err
	}
	var ref *uint64
	if c.IsSet("height") {
		h := c.Uint64("height")
		ref = &h
	}
	blocks, err := entropy.BlockHashes(chain, ref, c.Int("count"))
	if err != nil {
		return nil, nil, err
	}
	return entropy.HeightsOf(blocks), entropy.Hashes(blocks), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(buf))
	return err
}

func output(c *cli.Context, v interface{}) error {
	path := c.String("out")
	if path == "" {
		return writeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	log.Lvl2("Writing result to", path)
	return writeJSON(f, v)
}

// verifyFile checks a JSON file holding either a full draw result or just
// its proof.
func verifyFile(path string) (*draw.Proof, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return verifyJSON(buf)
}

func verifyJSON(buf []byte) (*draw.Proof, error) {
	var res draw.DrawResult
	if err := json.Unmarshal(buf, &res); err != nil {
		return nil, xerrors.Errorf("couldn't decode draw: %v", err)
	}
	if len(res.BlockHashes) > 0 {
		return &res.Proof, draw.VerifyResult(&res)
	}
	var p draw.Proof
	if err := json.Unmarshal(buf, &p); err != nil {
		return nil, xerrors.Errorf("couldn't decode proof: %v", err)
	}
	return &p, draw.VerifyProof(&p)
}
