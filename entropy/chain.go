package entropy

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

// Chain is a static Source over a fixed list of published blocks, for
// example block headers exported from a node. The tip is the highest block.
type Chain struct {
	Blocks []Block `toml:"blocks"`
}

// NewChain builds a chain after validating every block.
func NewChain(blocks []Block) (*Chain, error) {
	c := &Chain{Blocks: append([]Block(nil), blocks...)}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadChain reads a chain from a TOML file of the form
//
//	[[blocks]]
//	height = 840000
//	hash = "0000..."
func LoadChain(path string) (*Chain, error) {
	c := &Chain{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, xerrors.Errorf("couldn't decode %s: %v", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeChain parses a chain from TOML text.
func DecodeChain(data string) (*Chain, error) {
	c := &Chain{}
	if _, err := toml.Decode(data, c); err != nil {
		return nil, xerrors.Errorf("couldn't decode chain: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate normalizes hash case, sorts the blocks by height and rejects
// empty chains and conflicting entries.
func (c *Chain) validate() error {
	if len(c.Blocks) == 0 {
		return xerrors.New("chain has no blocks")
	}
	for i := range c.Blocks {
		c.Blocks[i].Hash = strings.ToLower(strings.TrimSpace(c.Blocks[i].Hash))
		if err := ValidateHash(c.Blocks[i].Hash); err != nil {
			return xerrors.Errorf("block %d: %w", c.Blocks[i].Height, err)
		}
	}
	sort.Slice(c.Blocks, func(i, j int) bool {
		return c.Blocks[i].Height < c.Blocks[j].Height
	})
	for i := 1; i < len(c.Blocks); i++ {
		if c.Blocks[i].Height == c.Blocks[i-1].Height {
			return xerrors.Errorf("duplicate block at height %d", c.Blocks[i].Height)
		}
	}
	return nil
}

// Tip implements Source.
func (c *Chain) Tip() (uint64, error) {
	if len(c.Blocks) == 0 {
		return 0, xerrors.Errorf("empty chain: %w", ErrUnknownBlock)
	}
	return c.Blocks[len(c.Blocks)-1].Height, nil
}

// BlockHash implements Source.
func (c *Chain) BlockHash(height uint64) (string, error) {
	i := sort.Search(len(c.Blocks), func(i int) bool {
		return c.Blocks[i].Height >= height
	})
	if i == len(c.Blocks) || c.Blocks[i].Height != height {
		return "", xerrors.Errorf("height %d: %w", height, ErrUnknownBlock)
	}
	return c.Blocks[i].Hash, nil
}
