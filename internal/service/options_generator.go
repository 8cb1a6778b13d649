package service

import (
	"math/rand"
	"sync"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

const optionsPerQuestion = 4

// OptionGenerator builds multiple choice options for word meaning questions,
// drawing distractors from the rest of the curriculum.
type OptionGenerator struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	words []entities.Word
}

// NewOptionGenerator creates a generator over words using rnd for every
// random choice.
func NewOptionGenerator(words []entities.Word, rnd *rand.Rand) *OptionGenerator {
	return &OptionGenerator{
		rnd:   rnd,
		words: words,
	}
}

// GenerateOptions returns up to four meanings including the meaning of correct,
// and the index of the correct one. Fewer options are returned when the
// curriculum has too few distinct meanings.
func (g *OptionGenerator) GenerateOptions(correct entities.Word) ([]string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	wrong := g.distractors(correct, optionsPerQuestion-1)

	options := make([]string, 0, len(wrong)+1)
	options = append(options, wrong...)

	correctIndex := g.rnd.Intn(len(wrong) + 1)
	options = append(options, "")
	copy(options[correctIndex+1:], options[correctIndex:])
	options[correctIndex] = correct.Meaning

	return options, correctIndex
}

// Shuffle reorders n elements using the generator's random source.
func (g *OptionGenerator) Shuffle(n int, swap func(i, j int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd.Shuffle(n, swap)
}

// distractors must be called with mu held.
func (g *OptionGenerator) distractors(correct entities.Word, count int) []string {
	candidates := make([]entities.Word, 0, len(g.words))
	for _, w := range g.words {
		if w.ID != correct.ID {
			candidates = append(candidates, w)
		}
	}

	g.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	used := map[string]bool{correct.Meaning: true}
	wrong := make([]string, 0, count)
	for _, c := range candidates {
		if len(wrong) >= count {
			break
		}
		if used[c.Meaning] {
			continue
		}
		used[c.Meaning] = true
		wrong = append(wrong, c.Meaning)
	}

	return wrong
}
