package druntime

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidDiceSpec indicates a dice value that cannot be rolled.
var ErrInvalidDiceSpec = errors.New("dice must have positive faces and a non-negative count")

// RollDice sums count independent uniform draws over [1, faces]. A count of
// zero rolls nothing and yields 0.
func RollDice(rng *rand.Rand, count, faces int) (int64, error) {
	if faces <= 0 || count < 0 {
		return 0, ErrInvalidDiceSpec
	}
	var total int64
	for i := 0; i < count; i++ {
		total += int64(rollDie(rng, faces))
	}
	return total, nil
}

func rollDie(rng *rand.Rand, faces int) int {
	return rng.Intn(faces) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
