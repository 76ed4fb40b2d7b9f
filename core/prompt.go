package orchestration

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/alpacavoice/agent/core/conversations"
)

const defaultPromptTokenBudget = 6000

// promptBuilder serializes a transcript into the single "role: content" text
// blob sent to the replier. When a token budget is set, the oldest turns are
// dropped first; the newest turn is always kept so the replier sees at least
// the current user message.
type promptBuilder struct {
	budget int

	initOnce sync.Once
	count    func(string) int
}

func newPromptBuilder(budget int) *promptBuilder {
	return &promptBuilder{budget: budget}
}

func (b *promptBuilder) counter() func(string) int {
	b.initOnce.Do(func() {
		if b.count != nil {
			return
		}
		if encoder, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
			b.count = func(text string) int { return len(encoder.Encode(text, nil, nil)) }
		} else {
			// Rough character heuristic when the encoder is unavailable.
			b.count = func(text string) int { return len(text)/4 + 1 }
		}
	})
	return b.count
}

func (b *promptBuilder) Build(turns []conversations.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, string(turn.Role)+": "+turn.Content)
	}

	if b.budget > 0 && len(lines) > 0 {
		count := b.counter()
		total := 0
		start := len(lines)
		for i := len(lines) - 1; i >= 0; i-- {
			cost := count(lines[i])
			if total+cost > b.budget {
				break
			}
			total += cost
			start = i
		}
		if start == len(lines) {
			start = len(lines) - 1
		}
		lines = lines[start:]
	}

	return strings.Join(lines, "\n")
}
