package entropy

// HashLength is the length of a block hash in hex characters.
const HashLength = 64

// DefaultBlockCount is the number of blocks a draw uses unless configured
// otherwise.
const DefaultBlockCount = 3

// Block is a block hash together with its height.
type Block struct {
	Height uint64 `toml:"height"`
	Hash   string `toml:"hash"`
}

// Hashes returns the hashes of the blocks, in order.
func Hashes(blocks []Block) []string {
	hashes := make([]string, len(blocks))
	for i, b := range blocks {
		hashes[i] = b.Hash
	}
	return hashes
}

// HeightsOf returns the heights of the blocks, in order.
func HeightsOf(blocks []Block) []uint64 {
	heights := make([]uint64, len(blocks))
	for i, b := range blocks {
		heights[i] = b.Height
	}
	return heights
}
