package instances

import (
	"iter"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// BackgroundInstance augments a wrapped instance with background knowledge,
// expressed as an ordered list of sentences. Label, index and tokenizer come
// from the wrapped instance; the background sentences are tokenized
// independently and never merged with the wrapped instance's own tokens.
type BackgroundInstance struct {
	Instance   TextInstance
	Background []string
}

// Compile time assert that BackgroundInstance implements TextInstance.
var _ TextInstance = &BackgroundInstance{}

// NewBackgroundInstance wraps instance with background sentences. The wrapped
// instance is exclusively owned by the result.
func NewBackgroundInstance(instance TextInstance, background []string) *BackgroundInstance {
	return &BackgroundInstance{Instance: instance, Background: background}
}

func (b *BackgroundInstance) Label() (bool, bool)      { return b.Instance.Label() }
func (b *BackgroundInstance) Index() (int, bool)       { return b.Instance.Index() }
func (b *BackgroundInstance) Tokenizer() api.Tokenizer { return b.Instance.Tokenizer() }

// Words yields the wrapped instance's words, followed by each background
// sentence's lowercased tokens, in background order.
func (b *BackgroundInstance) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for word := range b.Instance.Words() {
			if !yield(word) {
				return
			}
		}
		for _, sentence := range b.Background {
			for _, word := range b.Tokenizer().Tokenize(strings.ToLower(sentence)) {
				if !yield(word) {
					return
				}
			}
		}
	}
}

// ToIndexed indexes the wrapped instance and each background sentence
// separately.
func (b *BackgroundInstance) ToIndexed(d *indexer.DataIndexer) (IndexedInstance, error) {
	if err := checkIndexer(d); err != nil {
		return nil, err
	}
	indexed, err := b.Instance.ToIndexed(d)
	if err != nil {
		return nil, err
	}
	background := make([][]int, len(b.Background))
	for i, sentence := range b.Background {
		var indices []int
		for _, word := range b.Tokenizer().Tokenize(strings.ToLower(sentence)) {
			indices = append(indices, d.GetWordIndex(word))
		}
		background[i] = indices
	}
	return &IndexedBackgroundInstance{Indexed: indexed, BackgroundIndices: background}, nil
}

// IndexedBackgroundInstance is the indexed mirror of a BackgroundInstance:
// the wrapped indexed instance plus one index sequence per background
// sentence.
type IndexedBackgroundInstance struct {
	Indexed           IndexedInstance
	BackgroundIndices [][]int
}

// Compile time assert on the IndexedInstance interface.
var _ IndexedInstance = &IndexedBackgroundInstance{}

// GetPaddingLengths declares the wrapped instance's dimensions plus the
// background sentence count and the longest background sentence length.
func (b *IndexedBackgroundInstance) GetPaddingLengths() map[string]int {
	lengths := b.Indexed.GetPaddingLengths()
	lengths[NumBackgroundSentences] = len(b.BackgroundIndices)
	maxWords := 0
	for _, sentence := range b.BackgroundIndices {
		maxWords = max(maxWords, len(sentence))
	}
	lengths[NumBackgroundWords] = maxWords
	return lengths
}

// Pad pads the wrapped instance, pads every background sentence to
// NumBackgroundWords, and pads the sentence list itself to
// NumBackgroundSentences, prepending empty sentences or dropping the oldest.
func (b *IndexedBackgroundInstance) Pad(lengths map[string]int) {
	b.Indexed.Pad(lengths)
	if count, ok := lengths[NumBackgroundSentences]; ok {
		b.BackgroundIndices = padSentenceList(b.BackgroundIndices, count)
	}
	if words, ok := lengths[NumBackgroundWords]; ok {
		for i, sentence := range b.BackgroundIndices {
			b.BackgroundIndices[i] = padWordSequence(sentence, words)
		}
	}
}

func padSentenceList(sentences [][]int, count int) [][]int {
	if count < 0 {
		count = 0
	}
	if len(sentences) == count {
		return sentences
	}
	if len(sentences) > count {
		return sentences[len(sentences)-count:]
	}
	padded := make([][]int, count)
	copy(padded[count-len(sentences):], sentences)
	for i := range count - len(sentences) {
		padded[i] = []int{}
	}
	return padded
}

// AsInputs returns the wrapped instance's inputs followed by a 2-D background
// tensor of shape [sentences, words]. It requires the background to have been
// padded to rectangular shape.
func (b *IndexedBackgroundInstance) AsInputs() ([]*tensors.Tensor, error) {
	inputs, err := b.Indexed.AsInputs()
	if err != nil {
		return nil, err
	}
	background, err := backgroundTensor(b.BackgroundIndices)
	if err != nil {
		return nil, err
	}
	return append(inputs, background), nil
}

// AsTrainingData returns the inputs plus the wrapped instance's label tensor.
func (b *IndexedBackgroundInstance) AsTrainingData() (*TrainingData, error) {
	data, err := b.Indexed.AsTrainingData()
	if err != nil {
		return nil, err
	}
	inputs, err := b.AsInputs()
	if err != nil {
		return nil, err
	}
	return &TrainingData{Inputs: inputs, Label: data.Label}, nil
}

func backgroundTensor(sentences [][]int) (*tensors.Tensor, error) {
	rows := len(sentences)
	cols := 0
	if rows > 0 {
		cols = len(sentences[0])
	}
	flat := make([]int32, 0, rows*cols)
	for _, sentence := range sentences {
		if len(sentence) != cols {
			return nil, errors.Errorf("background sentences not padded to a common length (%d vs %d words)",
				len(sentence), cols)
		}
		for _, index := range sentence {
			flat = append(flat, int32(index))
		}
	}
	return tensors.FromFlatDataAndDimensions(flat, rows, cols), nil
}
