package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"github.com/dedis/blocklot/lottery"
	"github.com/dedis/blocklot/utils"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/kyber/v3/util/encoding"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
	"gopkg.in/urfave/cli.v1"
)

var drawFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "ticket, t",
		Usage: "ticket number, can be repeated",
	},
	cli.StringFlag{
		Name:  "tickets",
		Usage: "JSON file with a \"tickets\" list",
	},
	cli.StringSliceFlag{
		Name:  "hash",
		Usage: "block hash in draw order, can be repeated",
	},
	cli.StringFlag{
		Name:  "chain",
		Usage: "TOML file of published blocks to resolve heights from",
	},
	cli.Uint64Flag{
		Name:  "height",
		Usage: "reference block height (default: tip of the chain)",
	},
	cli.IntFlag{
		Name:  "count",
		Value: entropy.DefaultBlockCount,
		Usage: "number of blocks, counting down from the reference height",
	},
	cli.StringFlag{
		Name:  "out, o",
		Usage: "write the result to this file instead of stdout",
	},
}

var groupFlag = cli.StringFlag{
	Name:  "group, g",
	Value: "group.toml",
	Usage: "group definition of the conodes",
}

func main() {
	app := cli.NewApp()
	app.Name = "blocklot"
	app.Usage = "draw and verify block-hash lotteries"
	app.Version = "0.1"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "debug, d",
			Value: 0,
			Usage: "debug-level: 1 for terse, 5 for maximal",
		},
	}
	app.Before = func(c *cli.Context) error {
		log.SetDebugVisible(c.Int("debug"))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "draw",
			Usage:  "conduct a draw locally",
			Flags:  drawFlags,
			Action: localDraw,
		},
		{
			Name:  "verify",
			Usage: "verify a draw result or proof",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "proof, p",
					Usage: "JSON file with a draw result or a proof",
				},
				cli.StringFlag{
					Name:  "seed",
					Usage: "published seed, with --ticket and --winner",
				},
				cli.StringSliceFlag{
					Name:  "ticket, t",
					Usage: "ticket number, can be repeated",
				},
				cli.StringFlag{
					Name:  "tickets",
					Usage: "JSON file with a \"tickets\" list",
				},
				cli.StringFlag{
					Name:  "winner",
					Usage: "claimed winning ticket",
				},
			},
			Action: verify,
		},
		{
			Name:  "remote",
			Usage: "talk to the lottery service of a conode",
			Subcommands: []cli.Command{
				{
					Name:  "init",
					Usage: "send a chain file to every conode of the group",
					Flags: []cli.Flag{
						groupFlag,
						cli.StringFlag{
							Name:  "chain",
							Usage: "TOML file of published blocks",
						},
						cli.IntFlag{
							Name:  "count",
							Value: entropy.DefaultBlockCount,
							Usage: "default number of blocks per draw",
						},
					},
					Action: remoteInit,
				},
				{
					Name:   "draw",
					Usage:  "ask the first conode of the group for a signed draw",
					Flags:  append([]cli.Flag{groupFlag}, drawFlags...),
					Action: remoteDraw,
				},
				{
					Name:  "get",
					Usage: "fetch an archived draw",
					Flags: []cli.Flag{
						groupFlag,
						cli.StringFlag{
							Name:  "id",
							Usage: "hex draw ID",
						},
					},
					Action: remoteGet,
				},
				{
					Name:   "list",
					Usage:  "list archived draw IDs",
					Flags:  []cli.Flag{groupFlag},
					Action: remoteList,
				},
			},
		},
	}
	log.ErrFatal(app.Run(os.Args))
}

func localDraw(c *cli.Context) error {
	tickets, err := collectTickets(c)
	if err != nil {
		return err
	}
	heights, hashes, err := collectBlocks(c)
	if err != nil {
		return err
	}
	res, err := draw.ConductBlockDraw(heights, hashes, tickets)
	if err != nil {
		return err
	}
	return output(c, res)
}

func verify(c *cli.Context) error {
	if path := c.String("proof"); path != "" {
		p, err := verifyFile(path)
		if err != nil {
			fmt.Println("Verification: FAILED")
			return err
		}
		fmt.Println("Verification: SUCCESS, winner", p.Winner)
		return nil
	}
	tickets, err := collectTickets(c)
	if err != nil {
		return err
	}
	v, err := draw.VerifyWinner(c.String("seed"), tickets, c.String("winner"))
	if err != nil {
		return err
	}
	if !v.Valid {
		fmt.Println("Verification: FAILED, calculated winner", v.Winner)
		return xerrors.Errorf("claimed winner %s, calculated %s", v.ClaimedWinner, v.Winner)
	}
	fmt.Println("Verification: SUCCESS, winner", v.Winner)
	return nil
}

func remoteInit(c *cli.Context) error {
	roster, err := utils.ReadRoster(c.String("group"))
	if err != nil {
		return err
	}
	chain, err := entropy.LoadChain(c.String("chain"))
	if err != nil {
		return err
	}
	cl := lottery.NewClient(roster)
	defer cl.Close()
	reply, err := cl.InitUnit(chain, c.Int("count"))
	if err != nil {
		return err
	}
	fmt.Println("Initialized", len(roster.List), "conodes, tip", reply.Tip)
	return nil
}

func remoteDraw(c *cli.Context) error {
	roster, err := utils.ReadRoster(c.String("group"))
	if err != nil {
		return err
	}
	tickets, err := collectTickets(c)
	if err != nil {
		return err
	}
	req := &lottery.DrawRequest{
		Tickets:     tickets,
		BlockHashes: c.StringSlice("hash"),
		BlockCount:  c.Int("count"),
	}
	if c.IsSet("height") {
		req.UseHeight = true
		req.Height = c.Uint64("height")
	}
	cl := lottery.NewClient(roster)
	defer cl.Close()
	reply, err := cl.Draw(req)
	if err != nil {
		return err
	}
	pub, err := encoding.PointToStringHex(cothority.Suite, reply.Receipt.Public)
	if err != nil {
		return err
	}
	log.Lvl1("Draw", hex.EncodeToString(reply.ID), "signed by", pub)
	return output(c, reply.Result)
}

func remoteGet(c *cli.Context) error {
	roster, err := utils.ReadRoster(c.String("group"))
	if err != nil {
		return err
	}
	id, err := hex.DecodeString(c.String("id"))
	if err != nil {
		return xerrors.Errorf("invalid draw ID: %v", err)
	}
	cl := lottery.NewClient(roster)
	defer cl.Close()
	reply, err := cl.GetDraw(id)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, reply.Record.Result)
}

func remoteList(c *cli.Context) error {
	roster, err := utils.ReadRoster(c.String("group"))
	if err != nil {
		return err
	}
	cl := lottery.NewClient(roster)
	defer cl.Close()
	reply, err := cl.ListDraws()
	if err != nil {
		return err
	}
	for _, id := range reply.IDs {
		fmt.Println(hex.EncodeToString(id))
	}
	return nil
}
