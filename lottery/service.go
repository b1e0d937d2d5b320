package lottery

/*
The service.go defines what to do for each API-call. This part of the service
runs on the node.
*/

import (
	"fmt"
	"time"

	"github.com/dedis/blocklot/draw"
	"github.com/dedis/blocklot/entropy"
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/kyber/v3/sign/schnorr"
	"go.dedis.ch/onet/v3"
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

var lotteryID onet.ServiceID

// ServiceName is the name of the lottery service
const ServiceName = "LotteryService"

var storageKey = []byte("storage")
var archiveBucket = []byte("draws")

func init() {
	var err error
	lotteryID, err = onet.RegisterNewService(ServiceName, newService)
	if err != nil {
		panic(err)
	}
}

// Service conducts draws, signs their proofs and archives them.
type Service struct {
	*onet.ServiceProcessor
	storage *storage
	archive *archive
}

// InitUnit stores the chain used to resolve block heights.
func (s *Service) InitUnit(req *InitUnitRequest) (*InitUnitReply, error) {
	if req.Chain == nil {
		return nil, xerrors.New("missing chain")
	}
	chain, err := entropy.NewChain(req.Chain.Blocks)
	if err != nil {
		log.Errorf("Invalid chain: %v", err)
		return nil, err
	}
	count := req.BlockCount
	if count == 0 {
		count = entropy.DefaultBlockCount
	}
	if count < 0 {
		return nil, xerrors.Errorf("invalid block count %d", count)
	}
	s.storage.Lock()
	s.storage.Chain = chain
	s.storage.BlockCount = count
	s.storage.Unlock()
	if err := s.save(); err != nil {
		return nil, err
	}
	tip, err := chain.Tip()
	if err != nil {
		return nil, err
	}
	log.Lvlf2("%s: chain with %d blocks, tip %d", s.ServerIdentity(), len(chain.Blocks), tip)
	return &InitUnitReply{Tip: tip}, nil
}

// Draw conducts a draw, archives it and returns it with a signed receipt.
func (s *Service) Draw(req *DrawRequest) (*DrawReply, error) {
	heights, hashes, err := s.resolveBlocks(req)
	if err != nil {
		log.Errorf("Couldn't resolve blocks: %v", err)
		return nil, err
	}
	res, err := draw.ConductBlockDraw(heights, hashes, req.Tickets)
	if err != nil {
		log.Lvlf2("Draw rejected: %v", err)
		return nil, err
	}
	id := res.Proof.Hash()
	sig, err := schnorr.Sign(cothority.Suite, s.ServerIdentity().GetPrivate(), id)
	if err != nil {
		log.Errorf("Couldn't sign proof: %v", err)
		return nil, err
	}
	receipt := Receipt{Public: s.ServerIdentity().Public, Signature: sig}
	rec := &DrawRecord{Result: *res, Receipt: receipt, Timestamp: time.Now().Unix()}
	if err := s.archive.put(id, rec); err != nil {
		log.Errorf("Couldn't archive draw: %v", err)
		return nil, err
	}
	log.Lvlf1("Draw %x: winner %s out of %d tickets", id[:8], res.Winner, len(res.Tickets))
	return &DrawReply{ID: id, Result: *res, Receipt: receipt}, nil
}

// Verify recomputes a published draw.
func (s *Service) Verify(req *VerifyRequest) (*VerifyReply, error) {
	v, err := draw.VerifyWinner(req.SeedHex, req.Tickets, req.ClaimedWinner)
	if err != nil {
		return nil, err
	}
	return &VerifyReply{
		Valid:         v.Valid,
		Winner:        v.Winner,
		ClaimedWinner: v.ClaimedWinner,
		Scores:        v.Scores,
	}, nil
}

// GetDraw returns an archived draw.
func (s *Service) GetDraw(req *GetDrawRequest) (*GetDrawReply, error) {
	rec, err := s.archive.get(req.ID)
	if err != nil {
		return nil, err
	}
	return &GetDrawReply{Record: *rec}, nil
}

// ListDraws returns the IDs of all archived draws.
func (s *Service) ListDraws(req *ListDrawsRequest) (*ListDrawsReply, error) {
	ids, err := s.archive.ids()
	if err != nil {
		return nil, err
	}
	return &ListDrawsReply{IDs: ids}, nil
}

func (s *Service) resolveBlocks(req *DrawRequest) ([]uint64, []string, error) {
	if len(req.BlockHashes) > 0 {
		for i, h := range req.BlockHashes {
			if err := entropy.ValidateHash(h); err != nil {
				return nil, nil, xerrors.Errorf("block hash #%d: %w", i, err)
			}
		}
		return nil, req.BlockHashes, nil
	}
	s.storage.Lock()
	chain := s.storage.Chain
	count := s.storage.BlockCount
	s.storage.Unlock()
	if chain == nil {
		return nil, nil, xerrors.New("no block hashes given and no chain configured")
	}
	if req.BlockCount != 0 {
		count = req.BlockCount
	}
	var ref *uint64
	if req.UseHeight {
		height := req.Height
		ref = &height
	}
	blocks, err := entropy.BlockHashes(chain, ref, count)
	if err != nil {
		return nil, nil, err
	}
	return entropy.HeightsOf(blocks), entropy.Hashes(blocks), nil
}

func (s *Service) save() error {
	s.storage.Lock()
	defer s.storage.Unlock()
	err := s.Save(storageKey, s.storage)
	if err != nil {
		log.Errorf("Could not save data: %v", err)
		return err
	}
	return nil
}

func (s *Service) tryLoad() error {
	s.storage = &storage{}
	msg, err := s.Load(storageKey)
	if err != nil {
		log.Errorf("Load storage failed: %v", err)
		return err
	}
	if msg == nil {
		return nil
	}
	var ok bool
	s.storage, ok = msg.(*storage)
	if !ok {
		return fmt.Errorf("Store of wrong type")
	}
	return nil
}

func newService(c *onet.Context) (onet.Service, error) {
	s := &Service{
		ServiceProcessor: onet.NewServiceProcessor(c),
	}
	if err := s.RegisterHandlers(s.InitUnit, s.Draw, s.Verify, s.GetDraw,
		s.ListDraws); err != nil {
		log.Errorf("Cannot register handlers: %v", err)
		return nil, err
	}
	if err := s.tryLoad(); err != nil {
		log.Error(err)
		return nil, err
	}
	db, bucket := s.GetAdditionalBucket(archiveBucket)
	var err error
	s.archive, err = newArchive(db, bucket)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	return s, nil
}
