// Package indexer implements the DataIndexer: a bidirectional mapping between
// word tokens and small non-negative integers, fitted from word counts.
//
// Index 0 is reserved for padding and index 1 for unknown (out-of-vocabulary)
// words. The indexer has two strictly ordered phases: a fitting phase, where
// words are counted and the dictionary grows, and a finalized phase, where the
// mapping is read-only and safe for concurrent lookups.
package indexer

import (
	"iter"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Reserved indices and their tokens.
const (
	PaddingIndex = 0
	UnknownIndex = 1

	PaddingToken = "@@PADDING@@"
	UnknownToken = "@@UNKNOWN@@"
)

// DataIndexer maps words to stable integer indices.
//
// Not safe for concurrent use while fitting; safe for concurrent GetWordIndex
// calls once finalized.
type DataIndexer struct {
	wordToIndex map[string]int
	indexToWord []string

	counts map[string]int
	seen   []string // words in first-seen order, so fitting is deterministic
	frozen bool
}

// New returns a DataIndexer holding only the reserved padding and unknown
// entries, ready for fitting.
func New() *DataIndexer {
	d := &DataIndexer{
		wordToIndex: make(map[string]int),
		counts:      make(map[string]int),
	}
	d.addWord(PaddingToken)
	d.addWord(UnknownToken)
	return d
}

func (d *DataIndexer) addWord(word string) int {
	if index, ok := d.wordToIndex[word]; ok {
		return index
	}
	index := len(d.indexToWord)
	d.wordToIndex[word] = index
	d.indexToWord = append(d.indexToWord, word)
	return index
}

// CountWords accumulates occurrence counts for a sequence of words.
// It returns an error if the indexer has already been finalized.
func (d *DataIndexer) CountWords(words iter.Seq[string]) error {
	if d.frozen {
		return errors.New("DataIndexer is finalized, cannot count more words")
	}
	for word := range words {
		if d.counts[word] == 0 {
			d.seen = append(d.seen, word)
		}
		d.counts[word]++
	}
	return nil
}

// AddWord adds a single word to the dictionary, regardless of counts, and
// returns its index. It returns an error if the indexer is finalized.
func (d *DataIndexer) AddWord(word string) (int, error) {
	if d.frozen {
		return UnknownIndex, errors.New("DataIndexer is finalized, cannot add words")
	}
	return d.addWord(word), nil
}

// Fit builds the dictionary from the accumulated counts, keeping words seen at
// least minCount times, and finalizes the indexer. Words enter the dictionary
// in first-seen order.
func (d *DataIndexer) Fit(minCount int) error {
	if d.frozen {
		return errors.New("DataIndexer is already finalized")
	}
	kept := 0
	for _, word := range d.seen {
		if d.counts[word] >= minCount {
			d.addWord(word)
			kept++
		}
	}
	klog.V(1).Infof("Fitted word dictionary: %d of %d distinct words kept (min count %d)",
		kept, len(d.seen), minCount)
	d.Finalize()
	return nil
}

// Finalize freezes the dictionary. After this, lookups are read-only and safe
// to run concurrently, and no further words can be added.
func (d *DataIndexer) Finalize() {
	d.frozen = true
	d.counts = nil
	d.seen = nil
}

// IsFinalized reports whether the dictionary has been frozen.
func (d *DataIndexer) IsFinalized() bool {
	return d.frozen
}

// GetWordIndex returns the index for word, or UnknownIndex if the word is not
// in the dictionary. It never fails.
func (d *DataIndexer) GetWordIndex(word string) int {
	if index, ok := d.wordToIndex[word]; ok {
		return index
	}
	return UnknownIndex
}

// GetWordFromIndex is the reverse mapping. It returns the unknown token for
// out-of-range indices.
func (d *DataIndexer) GetWordFromIndex(index int) string {
	if index < 0 || index >= len(d.indexToWord) {
		return UnknownToken
	}
	return d.indexToWord[index]
}

// VocabularySize returns the number of entries, including the reserved ones.
func (d *DataIndexer) VocabularySize() int {
	return len(d.indexToWord)
}
