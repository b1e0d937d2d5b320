package entropy

import (
	"go.dedis.ch/onet/v3/log"
	"golang.org/x/xerrors"
)

var (
	// ErrUnknownBlock is returned by a Source that has no block at the
	// requested height.
	ErrUnknownBlock = xerrors.New("unknown block")
	// ErrInvalidHash is returned for hashes that are not 64 lowercase hex
	// characters.
	ErrInvalidHash = xerrors.New("invalid block hash")
)

// Source supplies block hashes by height. Implementations that talk to the
// network own their timeouts and retries; callers only see resolved hashes.
type Source interface {
	// Tip returns the height of the latest block.
	Tip() (uint64, error)
	// BlockHash returns the hash of the block at the given height.
	BlockHash(height uint64) (string, error)
}

// Heights returns count consecutive heights descending from ref.
func Heights(ref uint64, count int) ([]uint64, error) {
	if count < 1 {
		return nil, xerrors.Errorf("block count must be positive, got %d", count)
	}
	if uint64(count) > ref+1 {
		return nil, xerrors.Errorf("cannot take %d blocks below height %d", count, ref)
	}
	heights := make([]uint64, count)
	for i := range heights {
		heights[i] = ref - uint64(i)
	}
	return heights, nil
}

// BlockHashes resolves the blocks of a draw: count blocks starting at ref
// and going down. A nil ref means the current tip of the source.
func BlockHashes(src Source, ref *uint64, count int) ([]Block, error) {
	var height uint64
	if ref != nil {
		height = *ref
	} else {
		tip, err := src.Tip()
		if err != nil {
			return nil, xerrors.Errorf("couldn't get tip: %v", err)
		}
		height = tip
	}
	heights, err := Heights(height, count)
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, len(heights))
	for i, h := range heights {
		hash, err := src.BlockHash(h)
		if err != nil {
			return nil, xerrors.Errorf("couldn't get block %d: %w", h, err)
		}
		if err := ValidateHash(hash); err != nil {
			return nil, xerrors.Errorf("block %d: %w", h, err)
		}
		blocks[i] = Block{Height: h, Hash: hash}
	}
	log.Lvlf3("Resolved %d blocks from height %d", len(blocks), height)
	return blocks, nil
}

// ValidateHash checks that hash is 64 lowercase hex characters.
func ValidateHash(hash string) error {
	if len(hash) != HashLength {
		return xerrors.Errorf("%q has length %d: %w", hash, len(hash), ErrInvalidHash)
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return xerrors.Errorf("%q: %w", hash, ErrInvalidHash)
		}
	}
	return nil
}
