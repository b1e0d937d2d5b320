package main

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"github.com/dedis/blocklot/lottery"
	"go.dedis.ch/onet/v3"
	"go.dedis.ch/onet/v3/log"
	"go.dedis.ch/onet/v3/simul/monitor"
	"golang.org/x/xerrors"
)

// SimulationService measures signed draws over a growing number of tickets.
type SimulationService struct {
	onet.SimulationBFTree
	NumTickets int
	ChainSize  int
	BlockCount int
	Seed       int64
}

func init() {
	onet.SimulationRegister("Draw", NewDrawSimulation)
}

func NewDrawSimulation(config string) (onet.Simulation, error) {
	ss := &SimulationService{}
	_, err := toml.Decode(config, ss)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func (s *SimulationService) Setup(dir string,
	hosts []string) (*onet.SimulationConfig, error) {
	sc := &onet.SimulationConfig{}
	s.CreateRoster(sc, hosts, 2000)
	err := s.CreateTree(sc)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *SimulationService) Node(config *onet.SimulationConfig) error {
	index, _ := config.Roster.Search(config.Server.ServerIdentity.GetID())
	if index < 0 {
		log.Fatal("Didn't find this node in roster")
	}
	log.Lvl3("Initializing node-index", index)
	return s.SimulationBFTree.Node(config)
}

// generateChain builds a reproducible synthetic chain of ChainSize blocks.
func (s *SimulationService) generateChain() (*entropy.Chain, error) {
	rnd := rand.New(rand.NewSource(s.Seed))
	blocks := make([]entropy.Block, s.ChainSize)
	for i := range blocks {
		buf := make([]byte, 32)
		rnd.Read(buf)
		blocks[i] = entropy.Block{Height: uint64(i), Hash: fmt.Sprintf("%x", buf)}
	}
	return entropy.NewChain(blocks)
}

func (s *SimulationService) generateTickets() []string {
	tickets := make([]string, s.NumTickets)
	for i := range tickets {
		tickets[i] = strconv.Itoa(i + 1)
	}
	return tickets
}

func (s *SimulationService) Run(config *onet.SimulationConfig) error {
	if s.ChainSize < s.BlockCount {
		return xerrors.Errorf("chain of %d blocks cannot serve %d-block draws",
			s.ChainSize, s.BlockCount)
	}
	chain, err := s.generateChain()
	if err != nil {
		return err
	}
	cl := lottery.NewClient(config.Roster)
	defer cl.Close()
	_, err = cl.InitUnit(chain, s.BlockCount)
	if err != nil {
		log.Errorf("initializing lottery unit: %v", err)
		return err
	}
	tickets := s.generateTickets()
	for round := 0; round < s.Rounds; round++ {
		log.Lvl1("Starting round", round)
		height := uint64(s.BlockCount - 1 + round%(s.ChainSize-s.BlockCount+1))

		localMonitor := monitor.NewTimeMeasure("local_draw")
		hashes := make([]string, s.BlockCount)
		for i := range hashes {
			hashes[i], err = chain.BlockHash(height - uint64(i))
			if err != nil {
				return err
			}
		}
		local, err := draw.ConductDraw(hashes, tickets)
		if err != nil {
			log.Errorf("local draw: %v", err)
			return err
		}
		localMonitor.Record()

		drawMonitor := monitor.NewTimeMeasure("remote_draw")
		reply, err := cl.Draw(&lottery.DrawRequest{
			Tickets:   tickets,
			Height:    height,
			UseHeight: true,
		})
		if err != nil {
			log.Errorf("remote draw: %v", err)
			return err
		}
		drawMonitor.Record()
		if reply.Result.Winner != local.Winner {
			return xerrors.Errorf("round %d: conode picked %s, local draw %s",
				round, reply.Result.Winner, local.Winner)
		}

		verifyMonitor := monitor.NewTimeMeasure("verify")
		err = draw.VerifyProof(&reply.Result.Proof)
		if err != nil {
			log.Errorf("verify: %v", err)
			return err
		}
		verifyMonitor.Record()
	}
	return nil
}
