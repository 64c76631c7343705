package instances

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundWordsFollowInstanceWords(t *testing.T) {
	wrapped := NewTextClassificationInstance("Plants need water.", boolPtr(true), intPtr(3), nil)
	instance := NewBackgroundInstance(wrapped, []string{
		"Water is a liquid.",
		"Plants, like animals, are alive.",
	})

	want := []string{
		"plants", "need", "water", ".",
		"water", "is", "a", "liquid", ".",
		"plants", ",", "like", "animals", ",", "are", "alive", ".",
	}
	assert.Equal(t, want, slices.Collect(instance.Words()))
}

func TestBackgroundInheritsLabelIndexAndTokenizer(t *testing.T) {
	wrapped := NewTextClassificationInstance("text", boolPtr(true), intPtr(9), nil)
	instance := NewBackgroundInstance(wrapped, []string{"background"})

	label, hasLabel := instance.Label()
	require.True(t, hasLabel)
	assert.True(t, label)
	index, hasIndex := instance.Index()
	require.True(t, hasIndex)
	assert.Equal(t, 9, index)
	assert.Same(t, wrapped.Tokenizer(), instance.Tokenizer())
}

func TestBackgroundToIndexedKeepsSentencesSeparate(t *testing.T) {
	wrapped := NewTextClassificationInstance("a b", boolPtr(true), nil, nil)
	instance := NewBackgroundInstance(wrapped, []string{"c d", "e"})
	d := fittedIndexer(t, instance)

	indexed, err := instance.ToIndexed(d)
	require.NoError(t, err)
	bg, ok := indexed.(*IndexedBackgroundInstance)
	require.True(t, ok)

	tc := bg.Indexed.(*IndexedTextClassificationInstance)
	assert.Equal(t, []int{d.GetWordIndex("a"), d.GetWordIndex("b")}, tc.WordIndices)
	require.Len(t, bg.BackgroundIndices, 2)
	assert.Equal(t, []int{d.GetWordIndex("c"), d.GetWordIndex("d")}, bg.BackgroundIndices[0])
	assert.Equal(t, []int{d.GetWordIndex("e")}, bg.BackgroundIndices[1])
}

func TestIndexedBackgroundPaddingLengths(t *testing.T) {
	indexed := &IndexedBackgroundInstance{
		Indexed:           NewIndexedTextClassificationInstance([]int{1, 2, 3}, boolPtr(true), nil),
		BackgroundIndices: [][]int{{4, 5}, {6, 7, 8, 9}},
	}
	want := map[string]int{
		NumSentenceWords:       3,
		NumBackgroundSentences: 2,
		NumBackgroundWords:     4,
	}
	assert.Equal(t, want, indexed.GetPaddingLengths())
}

func TestIndexedBackgroundPad(t *testing.T) {
	indexed := &IndexedBackgroundInstance{
		Indexed:           NewIndexedTextClassificationInstance([]int{1, 2, 3}, boolPtr(true), nil),
		BackgroundIndices: [][]int{{4, 5}, {6}},
	}
	indexed.Pad(map[string]int{
		NumSentenceWords:       4,
		NumBackgroundSentences: 3,
		NumBackgroundWords:     2,
	})

	tc := indexed.Indexed.(*IndexedTextClassificationInstance)
	assert.Equal(t, []int{0, 1, 2, 3}, tc.WordIndices)
	// An empty sentence is prepended, and every sentence is padded to 2 words.
	assert.Equal(t, [][]int{{0, 0}, {4, 5}, {0, 6}}, indexed.BackgroundIndices)

	// Re-padding to the same lengths is a no-op.
	indexed.Pad(map[string]int{
		NumSentenceWords:       4,
		NumBackgroundSentences: 3,
		NumBackgroundWords:     2,
	})
	assert.Equal(t, [][]int{{0, 0}, {4, 5}, {0, 6}}, indexed.BackgroundIndices)
}

func TestIndexedBackgroundPadTruncatesOldestSentences(t *testing.T) {
	indexed := &IndexedBackgroundInstance{
		Indexed:           NewIndexedTextClassificationInstance([]int{1}, boolPtr(true), nil),
		BackgroundIndices: [][]int{{4}, {5}, {6}},
	}
	indexed.Pad(map[string]int{NumBackgroundSentences: 2})
	assert.Equal(t, [][]int{{5}, {6}}, indexed.BackgroundIndices)
}

func TestIndexedBackgroundAsTrainingData(t *testing.T) {
	indexed := &IndexedBackgroundInstance{
		Indexed:           NewIndexedTextClassificationInstance([]int{1, 2}, boolPtr(true), nil),
		BackgroundIndices: [][]int{{3, 4}, {5, 6}},
	}
	data, err := indexed.AsTrainingData()
	require.NoError(t, err)
	require.Len(t, data.Inputs, 2)
	assert.Equal(t, 2, data.Inputs[0].Shape().Size())
	assert.Equal(t, 4, data.Inputs[1].Shape().Size())
	assert.Equal(t, 2, data.Label.Shape().Size())
}

func TestIndexedBackgroundAsTrainingDataRejectsRagged(t *testing.T) {
	indexed := &IndexedBackgroundInstance{
		Indexed:           NewIndexedTextClassificationInstance([]int{1}, boolPtr(true), nil),
		BackgroundIndices: [][]int{{3, 4}, {5}},
	}
	_, err := indexed.AsTrainingData()
	assert.Error(t, err)
}
