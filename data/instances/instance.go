// Package instances holds the training-example representations used by the
// data pipeline: text-carrying instances on one side, and their indexed
// (integer) mirrors on the other.
//
// Instances are built by a line reader or by composition (background
// augmentation, question grouping), are read-only afterwards, and are
// converted into indexed instances with a finalized indexer.DataIndexer.
// Indexed instances are then padded in place to fixed lengths and
// materialized as tensors.
package instances

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/api"
	"github.com/gomlx/go-deepqa/tokenizers/wordtokenizer"
)

// TextInstance is one training example before indexing.
//
// Words is lazy and restartable: each range over the sequence re-tokenizes
// the underlying text. It is used for fitting a word vocabulary and never
// mutates the instance.
type TextInstance interface {
	Words() iter.Seq[string]
	ToIndexed(d *indexer.DataIndexer) (IndexedInstance, error)

	// Label returns the boolean label, and whether one is present.
	Label() (bool, bool)
	// Index returns the stable external identifier (e.g. a line number), and
	// whether one is present.
	Index() (int, bool)
	// Tokenizer returns the tokenizer shared by this instance, never nil.
	Tokenizer() api.Tokenizer
}

// base carries the fields common to all text instances.
type base struct {
	label     *bool
	index     *int
	tokenizer api.Tokenizer
}

func (b *base) Label() (bool, bool) {
	if b.label == nil {
		return false, false
	}
	return *b.label, true
}

func (b *base) Index() (int, bool) {
	if b.index == nil {
		return 0, false
	}
	return *b.index, true
}

func (b *base) Tokenizer() api.Tokenizer {
	if b.tokenizer == nil {
		return wordtokenizer.Default
	}
	return b.tokenizer
}

// checkIndexer enforces the fit-then-index phase ordering: instances may only
// be indexed against a finalized (read-only) DataIndexer.
func checkIndexer(d *indexer.DataIndexer) error {
	if d == nil {
		return errors.New("nil DataIndexer")
	}
	if !d.IsFinalized() {
		return errors.New("DataIndexer must be finalized before indexing instances")
	}
	return nil
}

// indexWords maps a word sequence through the indexer.
func indexWords(d *indexer.DataIndexer, words iter.Seq[string]) []int {
	var indices []int
	for word := range words {
		indices = append(indices, d.GetWordIndex(word))
	}
	return indices
}
