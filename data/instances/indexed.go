package instances

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"

	"github.com/gomlx/go-deepqa/data/indexer"
)

// Padding dimension names shared across indexed instance kinds.
const (
	NumSentenceWords       = "num_sentence_words"
	NumTransitions         = "num_transitions"
	NumBackgroundSentences = "num_background_sentences"
	NumBackgroundWords     = "num_background_words"
	NumOptions             = "num_options"
)

// IndexedInstance is the post-indexing mirror of a TextInstance: word indices
// instead of strings, ready for padding and tensor materialization.
type IndexedInstance interface {
	// GetPaddingLengths returns, per named dimension, the length this
	// instance naturally requires.
	GetPaddingLengths() map[string]int
	// Pad stretches or shrinks every declared dimension to the requested
	// length: shorter sequences are left-padded with the reserved padding
	// index, longer ones lose their oldest (leftmost) entries. Dimensions
	// the instance does not declare are ignored. Pad is idempotent.
	Pad(lengths map[string]int)
	// AsInputs materializes the instance's index sequences as tensors,
	// without any label.
	AsInputs() ([]*tensors.Tensor, error)
	// AsTrainingData materializes the instance as input tensors plus a
	// one-hot label tensor. It fails if the instance carries no label.
	AsTrainingData() (*TrainingData, error)
}

// TrainingData is one instance materialized for training.
type TrainingData struct {
	Inputs []*tensors.Tensor
	Label  *tensors.Tensor
}

// padWordSequence adjusts indices to exactly length entries: left-pads with
// the reserved padding index, or drops the oldest (leftmost) entries. The
// real tokens always stay, in order, at the right end of the sequence.
func padWordSequence(indices []int, length int) []int {
	if length < 0 {
		length = 0
	}
	if len(indices) == length {
		return indices
	}
	if len(indices) > length {
		return indices[len(indices)-length:]
	}
	padded := make([]int, length)
	for i := range length - len(indices) {
		padded[i] = indexer.PaddingIndex
	}
	copy(padded[length-len(indices):], indices)
	return padded
}

// indicesTensor materializes a word-index sequence as a 1-D int32 tensor.
func indicesTensor(indices []int) *tensors.Tensor {
	data := make([]int32, len(indices))
	for i, index := range indices {
		data[i] = int32(index)
	}
	return tensors.FromFlatDataAndDimensions(data, len(data))
}

// oneHotTensor materializes a class label as a 1-D float32 one-hot tensor.
func oneHotTensor(numClasses, class int) (*tensors.Tensor, error) {
	if class < 0 || class >= numClasses {
		return nil, errors.Errorf("label %d out of range for %d classes", class, numClasses)
	}
	data := make([]float32, numClasses)
	data[class] = 1
	return tensors.FromFlatDataAndDimensions(data, numClasses), nil
}

// boolLabelTensor materializes a boolean label as a 2-class one-hot tensor,
// [1, 0] for false and [0, 1] for true.
func boolLabelTensor(label *bool) (*tensors.Tensor, error) {
	if label == nil {
		return nil, errors.New("instance has no label, cannot produce training data")
	}
	class := 0
	if *label {
		class = 1
	}
	return oneHotTensor(2, class)
}
