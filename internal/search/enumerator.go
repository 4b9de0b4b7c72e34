package search

import (
	"math/big"
	"strings"

	"MnemonicFinder/pkg/config"
)

// Enumerator yields candidate phrases one at a time. Implementations
// are single-use and stateful; only the producer goroutine advances
// one.
type Enumerator interface {
	// Next returns the next phrase, or ok=false once the space is
	// exhausted.
	Next() (phrase string, ok bool)
	// Total is the number of phrases a full enumeration yields.
	Total() *big.Int
}

// NewSlotEnumerator enumerates the cartesian product of the
// per-position word lists in deterministic order, the last position
// varying fastest.
func NewSlotEnumerator(words [][]string) Enumerator {
	e := &slotEnumerator{
		words:   words,
		indices: make([]int, len(words)),
		total:   big.NewInt(1),
	}
	if len(words) == 0 {
		e.done = true
		e.total.SetInt64(0)
		return e
	}
	for _, slot := range words {
		if len(slot) == 0 {
			e.done = true
			e.total.SetInt64(0)
			return e
		}
		e.total.Mul(e.total, big.NewInt(int64(len(slot))))
	}
	return e
}

type slotEnumerator struct {
	words   [][]string
	indices []int
	total   *big.Int
	done    bool
}

func (e *slotEnumerator) Next() (string, bool) {
	if e.done {
		return "", false
	}
	parts := make([]string, len(e.words))
	for i, idx := range e.indices {
		parts[i] = e.words[i][idx]
	}
	// advance odometer style, rightmost position first
	i := len(e.indices) - 1
	for ; i >= 0; i-- {
		e.indices[i]++
		if e.indices[i] < len(e.words[i]) {
			break
		}
		e.indices[i] = 0
	}
	if i < 0 {
		e.done = true
	}
	return strings.Join(parts, " "), true
}

func (e *slotEnumerator) Total() *big.Int { return new(big.Int).Set(e.total) }

// NewFixedEnumerator yields one configured phrase and then closes. The
// phrase still goes through the regular checksum filter downstream.
func NewFixedEnumerator(phrase string) Enumerator {
	return &fixedEnumerator{phrase: phrase}
}

type fixedEnumerator struct {
	phrase string
	done   bool
}

func (e *fixedEnumerator) Next() (string, bool) {
	if e.done {
		return "", false
	}
	e.done = true
	return e.phrase, true
}

func (e *fixedEnumerator) Total() *big.Int { return big.NewInt(1) }

func enumeratorFor(cfg *config.SearchConfig) Enumerator {
	if cfg.Mnemonic.Fixed != "" {
		return NewFixedEnumerator(cfg.Mnemonic.Fixed)
	}
	return NewSlotEnumerator(cfg.Mnemonic.Words)
}
