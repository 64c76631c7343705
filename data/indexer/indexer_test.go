package indexer

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wordSeq(words ...string) func(yield func(string) bool) {
	return slices.Values(words)
}

func TestNewReservesPaddingAndUnknown(t *testing.T) {
	d := New()
	assert.Equal(t, PaddingIndex, d.GetWordIndex(PaddingToken))
	assert.Equal(t, UnknownIndex, d.GetWordIndex(UnknownToken))
	assert.Equal(t, 2, d.VocabularySize())
}

func TestFitKeepsWordsInFirstSeenOrder(t *testing.T) {
	d := New()
	require.NoError(t, d.CountWords(wordSeq("b", "a", "b", "c")))
	require.NoError(t, d.Fit(1))

	assert.Equal(t, 2, d.GetWordIndex("b"))
	assert.Equal(t, 3, d.GetWordIndex("a"))
	assert.Equal(t, 4, d.GetWordIndex("c"))
	assert.Equal(t, 5, d.VocabularySize())
}

func TestFitPrunesByMinCount(t *testing.T) {
	d := New()
	require.NoError(t, d.CountWords(wordSeq("common", "common", "rare")))
	require.NoError(t, d.Fit(2))

	assert.Equal(t, 2, d.GetWordIndex("common"))
	assert.Equal(t, UnknownIndex, d.GetWordIndex("rare"))
}

func TestGetWordIndexFallsBackToUnknown(t *testing.T) {
	d := New()
	require.NoError(t, d.Fit(1))
	assert.Equal(t, UnknownIndex, d.GetWordIndex("never-seen"))
}

func TestGetWordFromIndex(t *testing.T) {
	d := New()
	require.NoError(t, d.CountWords(wordSeq("word")))
	require.NoError(t, d.Fit(1))

	assert.Equal(t, "word", d.GetWordFromIndex(2))
	assert.Equal(t, PaddingToken, d.GetWordFromIndex(PaddingIndex))
	assert.Equal(t, UnknownToken, d.GetWordFromIndex(-1))
	assert.Equal(t, UnknownToken, d.GetWordFromIndex(100))
}

func TestFinalizedIndexerRejectsGrowth(t *testing.T) {
	d := New()
	require.NoError(t, d.Fit(1))
	require.True(t, d.IsFinalized())

	assert.Error(t, d.CountWords(wordSeq("late")))
	_, err := d.AddWord("late")
	assert.Error(t, err)
	assert.Error(t, d.Fit(1))
}

func TestAddWordBeforeFinalize(t *testing.T) {
	d := New()
	index, err := d.AddWord("manual")
	require.NoError(t, err)
	assert.Equal(t, 2, index)

	// Adding again returns the same index.
	again, err := d.AddWord("manual")
	require.NoError(t, err)
	assert.Equal(t, index, again)
}
