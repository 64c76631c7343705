package instances

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

// instanceToLine is the inverse of ReadFromLine, used to exercise all four
// accepted record shapes.
func instanceToLine(text string, label *bool, index *int) string {
	line := ""
	if index != nil {
		line += fmt.Sprintf("%d\t", *index)
	}
	line += text
	if label != nil {
		if *label {
			line += "\t1"
		} else {
			line += "\t0"
		}
	}
	return line
}

func TestReadFromLineHandlesOneColumn(t *testing.T) {
	instance, err := ReadFromLine("this is a sentence", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "this is a sentence", instance.Text)
	_, hasLabel := instance.Label()
	assert.False(t, hasLabel)
	_, hasIndex := instance.Index()
	assert.False(t, hasIndex)
}

func TestReadFromLineHandlesThreeColumn(t *testing.T) {
	line := instanceToLine("this is a sentence", boolPtr(true), intPtr(23))
	instance, err := ReadFromLine(line, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "this is a sentence", instance.Text)
	label, hasLabel := instance.Label()
	require.True(t, hasLabel)
	assert.True(t, label)
	index, hasIndex := instance.Index()
	require.True(t, hasIndex)
	assert.Equal(t, 23, index)
}

func TestReadFromLineHandlesTwoColumnWithLabel(t *testing.T) {
	line := instanceToLine("this is a sentence", boolPtr(false), nil)
	instance, err := ReadFromLine(line, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "this is a sentence", instance.Text)
	label, hasLabel := instance.Label()
	require.True(t, hasLabel)
	assert.False(t, label)
	_, hasIndex := instance.Index()
	assert.False(t, hasIndex)
}

func TestReadFromLineHandlesTwoColumnWithIndex(t *testing.T) {
	line := instanceToLine("this is a sentence", nil, intPtr(23))
	instance, err := ReadFromLine(line, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "this is a sentence", instance.Text)
	_, hasLabel := instance.Label()
	assert.False(t, hasLabel)
	index, hasIndex := instance.Index()
	require.True(t, hasIndex)
	assert.Equal(t, 23, index)
}

func TestReadFromLineAllDigitFieldsPreferIndex(t *testing.T) {
	// When both fields are purely decimal, field 0 is tested first and wins
	// as index; field 1 becomes the text.
	instance, err := ReadFromLine("123\t456", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "456", instance.Text)
	index, hasIndex := instance.Index()
	require.True(t, hasIndex)
	assert.Equal(t, 123, index)
}

func TestReadFromLineUsesDefaultLabel(t *testing.T) {
	instance, err := ReadFromLine("a sentence", boolPtr(true), nil)
	require.NoError(t, err)
	label, hasLabel := instance.Label()
	require.True(t, hasLabel)
	assert.True(t, label)
}

func TestReadFromLineRejectsLabelMismatch(t *testing.T) {
	line := instanceToLine("a sentence", boolPtr(true), intPtr(1))
	_, err := ReadFromLine(line, boolPtr(false), nil)
	var mismatch *LabelMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.LineLabel)
	assert.False(t, mismatch.DefaultLabel)
	assert.Equal(t, line, mismatch.Line)
}

func TestReadFromLineRejectsBadFormats(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "empty line", line: ""},
		{name: "two non-decimal fields", line: "some text\tmore text"},
		{name: "too many fields", line: "1\ttext\t1\textra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFromLine(tt.line, nil, nil)
			var format *FormatError
			require.ErrorAs(t, err, &format)
			assert.Equal(t, tt.line, format.Line)
		})
	}
}

func TestWordsTokenizesLowercased(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "This is a sentence.", want: []string{"this", "is", "a", "sentence", "."}},
		{text: "This isn't a sentence.", want: []string{"this", "is", "n't", "a", "sentence", "."}},
		{text: "And, I have commas.", want: []string{"and", ",", "i", "have", "commas", "."}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			instance := NewTextClassificationInstance(tt.text, nil, nil, nil)
			assert.Equal(t, tt.want, slices.Collect(instance.Words()))
		})
	}
}

func TestWordsIsRestartable(t *testing.T) {
	instance := NewTextClassificationInstance("repeat me", nil, nil, nil)
	first := slices.Collect(instance.Words())
	second := slices.Collect(instance.Words())
	assert.Equal(t, first, second)
}

func TestToIndexedMapsWords(t *testing.T) {
	instance := NewTextClassificationInstance("a b unseen", boolPtr(true), intPtr(7), nil)
	d := fittedIndexer(t, instance)

	indexed, err := instance.ToIndexed(d)
	require.NoError(t, err)
	tc, ok := indexed.(*IndexedTextClassificationInstance)
	require.True(t, ok)
	assert.Equal(t, []int{d.GetWordIndex("a"), d.GetWordIndex("b"), d.GetWordIndex("unseen")}, tc.WordIndices)
}

func TestToIndexedRequiresFinalizedIndexer(t *testing.T) {
	instance := NewTextClassificationInstance("words", nil, nil, nil)
	_, err := instance.ToIndexed(indexerNew())
	assert.Error(t, err)
}

func TestGetPaddingLengthsReturnsWordCount(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2, 3, 4}, boolPtr(true), nil)
	assert.Equal(t, map[string]int{NumSentenceWords: 4}, instance.GetPaddingLengths())
}

func TestPadAddsZerosOnLeft(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2, 3, 4}, boolPtr(true), nil)
	instance.Pad(map[string]int{NumSentenceWords: 5})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, instance.WordIndices)
}

func TestPadTruncatesOldestFromLeft(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2, 3, 4}, boolPtr(true), nil)
	instance.Pad(map[string]int{NumSentenceWords: 3})
	assert.Equal(t, []int{2, 3, 4}, instance.WordIndices)
}

func TestPadIsIdempotent(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2, 3, 4}, boolPtr(true), nil)
	instance.Pad(map[string]int{NumSentenceWords: 4})
	assert.Equal(t, []int{1, 2, 3, 4}, instance.WordIndices)
	instance.Pad(map[string]int{NumSentenceWords: 6})
	instance.Pad(map[string]int{NumSentenceWords: 6})
	assert.Equal(t, []int{0, 0, 1, 2, 3, 4}, instance.WordIndices)
}

func TestPadIgnoresUndeclaredDimensions(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2}, nil, nil)
	instance.Pad(map[string]int{NumBackgroundWords: 9})
	assert.Equal(t, []int{1, 2}, instance.WordIndices)
}

func TestAsTrainingDataShapes(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2, 3, 4}, boolPtr(true), nil)
	data, err := instance.AsTrainingData()
	require.NoError(t, err)
	require.Len(t, data.Inputs, 1)
	assert.Equal(t, 4, data.Inputs[0].Shape().Size())
	assert.Equal(t, 2, data.Label.Shape().Size())
}

func TestAsTrainingDataRequiresLabel(t *testing.T) {
	instance := NewIndexedTextClassificationInstance([]int{1, 2}, nil, nil)
	_, err := instance.AsTrainingData()
	assert.Error(t, err)
}
