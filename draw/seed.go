package draw

import (
	"encoding/hex"
	"strings"

	"github.com/dedis/blocklot/utils"
	"golang.org/x/xerrors"
)

// Seed is the 32-byte value that drives the scoring of a draw.
type Seed [utils.HashSize]byte

// Hex returns the 64-character lowercase hex form of the seed. This is the
// form that enters the score messages.
func (s Seed) Hex() string {
	return hex.EncodeToString(s[:])
}

func (s Seed) String() string {
	return s.Hex()
}

// GenerateSeed hashes the in-order concatenation of the entropy inputs. The
// inputs are used verbatim, without separator.
func GenerateSeed(hashes []string) (Seed, error) {
	var seed Seed
	if len(hashes) == 0 {
		return seed, ErrInvalidInput
	}
	copy(seed[:], utils.HashString(strings.Join(hashes, "")))
	return seed, nil
}

// ParseSeed decodes a published seed. Only the canonical lowercase form is
// accepted, since a different spelling would hash to different scores.
func ParseSeed(seedHex string) (Seed, error) {
	var seed Seed
	if len(seedHex) != 2*len(seed) || strings.ToLower(seedHex) != seedHex {
		return seed, xerrors.Errorf("%q: %w", seedHex, ErrInvalidSeed)
	}
	buf, err := hex.DecodeString(seedHex)
	if err != nil {
		return seed, xerrors.Errorf("%q: %w", seedHex, ErrInvalidSeed)
	}
	copy(seed[:], buf)
	return seed, nil
}
