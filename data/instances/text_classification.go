package instances

import (
	"iter"
	"strconv"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// TextClassificationInstance is a sentence with an optional boolean label,
// e.g. a statement judged true or false.
type TextClassificationInstance struct {
	base
	Text string
}

// Compile time assert that TextClassificationInstance implements TextInstance.
var _ TextInstance = &TextClassificationInstance{}

// NewTextClassificationInstance creates an instance from raw text. label and
// index may be nil for absent. A nil tokenizer means the process-wide default.
func NewTextClassificationInstance(text string, label *bool, index *int, tokenizer api.Tokenizer) *TextClassificationInstance {
	return &TextClassificationInstance{
		base: base{label: label, index: index, tokenizer: tokenizer},
		Text: text,
	}
}

// Words yields the lowercased word tokens of the text.
func (t *TextClassificationInstance) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, word := range t.Tokenizer().Tokenize(strings.ToLower(t.Text)) {
			if !yield(word) {
				return
			}
		}
	}
}

// ToIndexed maps the words through a finalized DataIndexer.
func (t *TextClassificationInstance) ToIndexed(d *indexer.DataIndexer) (IndexedInstance, error) {
	if err := checkIndexer(d); err != nil {
		return nil, err
	}
	return &IndexedTextClassificationInstance{
		WordIndices: indexWords(d, t.Words()),
		label:       t.label,
		index:       t.index,
	}, nil
}

// ReadFromLine parses a tab-separated record into a TextClassificationInstance.
// The record has one of four shapes:
//
//	[text]
//	[index]<TAB>[text]
//	[text]<TAB>[label]
//	[index]<TAB>[text]<TAB>[label]
//
// where index is a non-negative decimal integer and label is the literal "1"
// or "0". Two-field records are disambiguated by testing whether field 0 is
// purely decimal first, and only then field 1.
//
// When defaultLabel is non-nil and the line also encodes a label, the two
// must agree; a conflict is a LabelMismatchError, since mixing label sources
// across a dataset is a caller bug. Lines without a label take defaultLabel
// as-is, including when it is nil (label stays absent).
func ReadFromLine(line string, defaultLabel *bool, tokenizer api.Tokenizer) (*TextClassificationInstance, error) {
	fields := strings.Split(line, "\t")
	switch len(fields) {
	case 3:
		index, err := parseIndex(fields[0])
		if err != nil {
			return nil, &FormatError{Line: line}
		}
		label := fields[2] == "1"
		if err := checkLabel(line, &label, defaultLabel); err != nil {
			return nil, err
		}
		return NewTextClassificationInstance(fields[1], &label, &index, tokenizer), nil
	case 2:
		if isDecimal(fields[0]) {
			index, err := parseIndex(fields[0])
			if err != nil {
				return nil, &FormatError{Line: line}
			}
			if err := checkLabel(line, nil, defaultLabel); err != nil {
				return nil, err
			}
			return NewTextClassificationInstance(fields[1], defaultLabel, &index, tokenizer), nil
		}
		if isDecimal(fields[1]) {
			label := fields[1] == "1"
			if err := checkLabel(line, &label, defaultLabel); err != nil {
				return nil, err
			}
			return NewTextClassificationInstance(fields[0], &label, nil, tokenizer), nil
		}
		return nil, &FormatError{Line: line}
	case 1:
		if fields[0] == "" {
			return nil, &FormatError{Line: line}
		}
		if err := checkLabel(line, nil, defaultLabel); err != nil {
			return nil, err
		}
		return NewTextClassificationInstance(fields[0], defaultLabel, nil, tokenizer), nil
	default:
		return nil, &FormatError{Line: line}
	}
}

// checkLabel enforces agreement between a line-encoded label and a
// caller-supplied default, when both are present.
func checkLabel(line string, lineLabel, defaultLabel *bool) error {
	if lineLabel == nil || defaultLabel == nil {
		return nil
	}
	if *lineLabel != *defaultLabel {
		return &LabelMismatchError{Line: line, LineLabel: *lineLabel, DefaultLabel: *defaultLabel}
	}
	return nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseIndex(s string) (int, error) {
	if !isDecimal(s) {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

// IndexedTextClassificationInstance is the indexed mirror of a
// TextClassificationInstance: a flat sequence of word indices.
type IndexedTextClassificationInstance struct {
	WordIndices []int

	label *bool
	index *int
}

// Compile time assert on the IndexedInstance interface.
var _ IndexedInstance = &IndexedTextClassificationInstance{}

// NewIndexedTextClassificationInstance creates an indexed instance directly
// from word indices.
func NewIndexedTextClassificationInstance(wordIndices []int, label *bool, index *int) *IndexedTextClassificationInstance {
	return &IndexedTextClassificationInstance{WordIndices: wordIndices, label: label, index: index}
}

// GetPaddingLengths declares the single word-sequence dimension.
func (t *IndexedTextClassificationInstance) GetPaddingLengths() map[string]int {
	return map[string]int{NumSentenceWords: len(t.WordIndices)}
}

// Pad adjusts the word sequence to lengths[NumSentenceWords].
func (t *IndexedTextClassificationInstance) Pad(lengths map[string]int) {
	if length, ok := lengths[NumSentenceWords]; ok {
		t.WordIndices = padWordSequence(t.WordIndices, length)
	}
}

// AsInputs returns the word indices as a 1-D int32 tensor.
func (t *IndexedTextClassificationInstance) AsInputs() ([]*tensors.Tensor, error) {
	return []*tensors.Tensor{indicesTensor(t.WordIndices)}, nil
}

// AsTrainingData returns the word indices as an int32 tensor and the boolean
// label as a 2-class one-hot tensor.
func (t *IndexedTextClassificationInstance) AsTrainingData() (*TrainingData, error) {
	label, err := boolLabelTensor(t.label)
	if err != nil {
		return nil, err
	}
	inputs, err := t.AsInputs()
	if err != nil {
		return nil, err
	}
	return &TrainingData{Inputs: inputs, Label: label}, nil
}
