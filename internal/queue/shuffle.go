package queue

import (
	"math/rand"
	"time"
)

// Shuffler randomizes the order of n elements. *rand.Rand implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRandShuffler returns a shuffler seeded from the current time
func NewRandShuffler() Shuffler {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NoShuffle keeps catalog order
type NoShuffle struct{}

func (NoShuffle) Shuffle(int, func(i, j int)) {}
