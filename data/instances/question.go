package instances

import (
	"iter"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/api"
	"github.com/gomlx/go-deepqa/tokenizers/wordtokenizer"
)

// QuestionInstance groups answer-option instances into one multiple-choice
// training example. Exactly one option must carry a true label; the derived
// label of the question is that option's 0-based position.
type QuestionInstance struct {
	Options []TextInstance

	answer int
}

// Compile time assert that QuestionInstance implements TextInstance.
var _ TextInstance = &QuestionInstance{}

// NewQuestionInstance groups options into a question. It returns an
// OptionCountError unless exactly one option is labeled true; anything else
// is a dataset-construction bug.
func NewQuestionInstance(options []TextInstance) (*QuestionInstance, error) {
	answer := -1
	numTrue := 0
	for i, option := range options {
		if label, ok := option.Label(); ok && label {
			answer = i
			numTrue++
		}
	}
	if numTrue != 1 {
		return nil, &OptionCountError{NumTrue: numTrue, NumOptions: len(options)}
	}
	return &QuestionInstance{Options: options, answer: answer}, nil
}

// Label reports no boolean label: the question's own label is the answer
// position, see AnswerIndex.
func (q *QuestionInstance) Label() (bool, bool) { return false, false }

// AnswerIndex returns the 0-based position of the one true-labeled option.
func (q *QuestionInstance) AnswerIndex() int { return q.answer }

// Index reports no external identifier; questions are derived groupings.
func (q *QuestionInstance) Index() (int, bool) { return 0, false }

// Tokenizer returns the first option's tokenizer, or the process default when
// there are no options.
func (q *QuestionInstance) Tokenizer() api.Tokenizer {
	if len(q.Options) > 0 {
		return q.Options[0].Tokenizer()
	}
	return wordtokenizer.Default
}

// Words yields every option's words, in option order.
func (q *QuestionInstance) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, option := range q.Options {
			for word := range option.Words() {
				if !yield(word) {
					return
				}
			}
		}
	}
}

// ToIndexed indexes each option.
func (q *QuestionInstance) ToIndexed(d *indexer.DataIndexer) (IndexedInstance, error) {
	if err := checkIndexer(d); err != nil {
		return nil, err
	}
	options := make([]IndexedInstance, len(q.Options))
	for i, option := range q.Options {
		indexed, err := option.ToIndexed(d)
		if err != nil {
			return nil, err
		}
		options[i] = indexed
	}
	return &IndexedQuestionInstance{Options: options, Label: q.answer}, nil
}

// IndexedQuestionInstance is the indexed mirror of a QuestionInstance: the
// indexed options plus the answer position as an integer class label.
type IndexedQuestionInstance struct {
	Options []IndexedInstance
	Label   int
}

// Compile time assert on the IndexedInstance interface.
var _ IndexedInstance = &IndexedQuestionInstance{}

// GetPaddingLengths declares the per-option maxima of every dimension the
// options declare, plus the option count.
func (q *IndexedQuestionInstance) GetPaddingLengths() map[string]int {
	lengths := map[string]int{NumOptions: len(q.Options)}
	for _, option := range q.Options {
		for key, length := range option.GetPaddingLengths() {
			lengths[key] = max(lengths[key], length)
		}
	}
	return lengths
}

// Pad pads every option to the given lengths, then the option list itself to
// lengths[NumOptions]. Unlike word sequences, the option list is padded and
// truncated at the END, so the answer label keeps pointing at the same
// option. Truncating away the answer leaves the instance unusable for
// training; AsTrainingData will reject it.
func (q *IndexedQuestionInstance) Pad(lengths map[string]int) {
	for _, option := range q.Options {
		option.Pad(lengths)
	}
	count, ok := lengths[NumOptions]
	if !ok || count < 0 || len(q.Options) == count {
		return
	}
	if len(q.Options) > count {
		q.Options = q.Options[:count]
		return
	}
	for len(q.Options) < count {
		empty := NewIndexedTextClassificationInstance(nil, nil, nil)
		empty.Pad(lengths)
		q.Options = append(q.Options, empty)
	}
}

// AsInputs returns each option's input tensors, in option order. The options'
// own boolean labels are subsumed by the question label and not materialized.
func (q *IndexedQuestionInstance) AsInputs() ([]*tensors.Tensor, error) {
	var inputs []*tensors.Tensor
	for _, option := range q.Options {
		optionInputs, err := option.AsInputs()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, optionInputs...)
	}
	return inputs, nil
}

// AsTrainingData returns the option inputs followed by a one-hot label tensor
// over the options. It fails if truncation removed the answer option.
func (q *IndexedQuestionInstance) AsTrainingData() (*TrainingData, error) {
	label, err := oneHotTensor(len(q.Options), q.Label)
	if err != nil {
		return nil, err
	}
	inputs, err := q.AsInputs()
	if err != nil {
		return nil, err
	}
	return &TrainingData{Inputs: inputs, Label: label}, nil
}
