package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aliskhannn/reaction-games-bot/internal/domain/entities"
)

// Scrambler draws uniformly random orderings. It is safe for concurrent use.
type Scrambler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScrambler creates a Scrambler from src. A nil src seeds from the clock.
func NewScrambler(src rand.Source) *Scrambler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Scrambler{rng: rand.New(src)}
}

// Permutation returns a uniformly random permutation of [0, n).
func (s *Scrambler) Permutation(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)
}

// Intn returns a uniformly random int in [0, n).
func (s *Scrambler) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Shuffled returns a shuffled copy of items; items itself is left untouched.
func Shuffled[T any](s *Scrambler, items []T) []T {
	perm := s.Permutation(len(items))
	out := make([]T, len(items))
	for i, j := range perm {
		out[i] = items[j]
	}
	return out
}

// ScrambleQuestion shuffles the options of q and reports where the correct one landed.
func (s *Scrambler) ScrambleQuestion(q entities.Question) ([entities.OptionsPerQuestion]string, int) {
	var options [entities.OptionsPerQuestion]string
	correct := -1
	for i, j := range s.Permutation(entities.OptionsPerQuestion) {
		options[i] = q.Options[j]
		if j == q.CorrectIndex {
			correct = i
		}
	}
	return options, correct
}

// ScrambleAlignment shuffles the options of an alignment question.
func (s *Scrambler) ScrambleAlignment(q entities.AlignmentQuestion) [entities.OptionsPerQuestion]entities.AlignmentOption {
	var options [entities.OptionsPerQuestion]entities.AlignmentOption
	for i, j := range s.Permutation(entities.OptionsPerQuestion) {
		options[i] = q.Options[j]
	}
	return options
}
