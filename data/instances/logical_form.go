package instances

import (
	"iter"
	"strings"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// LogicalFormInstance is a tree-structured training example: its text is a
// parenthesized predicate-argument expression such as
// "for(depend_on(human, plant), oxygen)", to be consumed by a stack-based
// tree encoder.
type LogicalFormInstance struct {
	base
	Text string
}

// Compile time assert that LogicalFormInstance implements TextInstance.
var _ TextInstance = &LogicalFormInstance{}

// NewLogicalFormInstance creates an instance from a logical-form string.
func NewLogicalFormInstance(text string, label *bool, index *int, tokenizer api.Tokenizer) *LogicalFormInstance {
	return &LogicalFormInstance{
		base: base{label: label, index: index, tokenizer: tokenizer},
		Text: text,
	}
}

// Tokens splits the logical form into atoms plus the structural tokens "(",
// ")" and ",". Whitespace only separates; it never becomes a token.
func (l *LogicalFormInstance) Tokens() []string {
	var tokens []string
	var current strings.Builder
	for _, r := range l.Text {
		switch {
		case r == '(' || r == ')' || r == ',':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Words yields the predicate and argument names, skipping parentheses and
// commas. Logical-form atoms are used as-is, without case folding.
func (l *LogicalFormInstance) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, token := range l.Tokens() {
			if token == "(" || token == ")" || token == "," {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

// ToIndexed linearizes the logical form into a flat element sequence plus a
// shift-reduce transition sequence, then maps the elements through the
// indexer.
//
// Example: "a(b(c), d(e, f))" yields elements [a b c d e f] and transitions
// [S S S R2 S S S R3 R3].
func (l *LogicalFormInstance) ToIndexed(d *indexer.DataIndexer) (IndexedInstance, error) {
	if err := checkIndexer(d); err != nil {
		return nil, err
	}
	elements, transitions, err := l.linearize()
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(elements))
	for i, element := range elements {
		indices[i] = d.GetWordIndex(element)
	}
	return &IndexedLogicalFormInstance{
		WordIndices: indices,
		Transitions: transitions,
		label:       l.label,
		index:       l.index,
	}, nil
}

// linearize runs a single left-to-right scan over the tokens, maintaining a
// stack of pending structural symbols. Only "," and "(" are ever pushed: the
// stack just has to remember whether the innermost unmatched opener was a
// bare "(" (closing it is a 2-ary reduce) or was followed by a sibling comma
// (closing it is a 3-ary reduce). A structural problem found mid-scan is
// recorded and reported after the scan, together with any unclosed openers.
func (l *LogicalFormInstance) linearize() ([]string, []Transition, error) {
	var lastSymbols []byte // pending "," and "(" only
	var elements []string
	var transitions []Transition
	malformed := false

scan:
	for _, token := range l.Tokens() {
		switch token {
		case ",", "(":
			lastSymbols = append(lastSymbols, token[0])
		case ")":
			if len(lastSymbols) == 0 {
				// A closing paren with no matching opener.
				malformed = true
				break scan
			}
			last := lastSymbols[len(lastSymbols)-1]
			lastSymbols = lastSymbols[:len(lastSymbols)-1]
			if last == '(' {
				transitions = append(transitions, Reduce2)
				continue
			}
			// Last symbol is a comma: this grouping has three children.
			// Pop the open paren before it as well.
			if len(lastSymbols) == 0 {
				malformed = true
				break scan
			}
			lastSymbols = lastSymbols[:len(lastSymbols)-1]
			transitions = append(transitions, Reduce3)
		default:
			transitions = append(transitions, Shift)
			elements = append(elements, token)
		}
	}
	if malformed || len(lastSymbols) != 0 {
		return nil, nil, &MalformedTreeError{Text: l.Text}
	}
	return elements, transitions, nil
}

// IndexedLogicalFormInstance is the indexed mirror of a LogicalFormInstance:
// element indices in left-to-right appearance order, plus the parallel
// transition sequence that rebuilds the tree.
type IndexedLogicalFormInstance struct {
	WordIndices []int
	Transitions []Transition

	label *bool
	index *int
}

// Compile time assert on the IndexedInstance interface.
var _ IndexedInstance = &IndexedLogicalFormInstance{}

// NewIndexedLogicalFormInstance creates an indexed tree instance directly.
func NewIndexedLogicalFormInstance(wordIndices []int, transitions []Transition, label *bool, index *int) *IndexedLogicalFormInstance {
	return &IndexedLogicalFormInstance{
		WordIndices: wordIndices,
		Transitions: transitions,
		label:       label,
		index:       index,
	}
}

// GetPaddingLengths declares the element and transition dimensions.
func (l *IndexedLogicalFormInstance) GetPaddingLengths() map[string]int {
	return map[string]int{
		NumSentenceWords: len(l.WordIndices),
		NumTransitions:   len(l.Transitions),
	}
}

// Pad adjusts both sequences. Transitions are zero-padded on the left like
// word indices; a padded Shift is never executed because the matching padded
// element is the padding index.
func (l *IndexedLogicalFormInstance) Pad(lengths map[string]int) {
	if length, ok := lengths[NumSentenceWords]; ok {
		l.WordIndices = padWordSequence(l.WordIndices, length)
	}
	if length, ok := lengths[NumTransitions]; ok {
		l.Transitions = padTransitions(l.Transitions, length)
	}
}

func padTransitions(transitions []Transition, length int) []Transition {
	if length < 0 {
		length = 0
	}
	if len(transitions) == length {
		return transitions
	}
	if len(transitions) > length {
		return transitions[len(transitions)-length:]
	}
	padded := make([]Transition, length)
	copy(padded[length-len(transitions):], transitions)
	return padded
}

// AsInputs returns the element indices and the transition sequence as 1-D
// int32 tensors.
func (l *IndexedLogicalFormInstance) AsInputs() ([]*tensors.Tensor, error) {
	transitions := make([]int, len(l.Transitions))
	for i, transition := range l.Transitions {
		transitions[i] = int(transition)
	}
	return []*tensors.Tensor{indicesTensor(l.WordIndices), indicesTensor(transitions)}, nil
}

// AsTrainingData returns the element indices and transitions as int32 tensors
// plus the 2-class one-hot label tensor.
func (l *IndexedLogicalFormInstance) AsTrainingData() (*TrainingData, error) {
	label, err := boolLabelTensor(l.label)
	if err != nil {
		return nil, err
	}
	inputs, err := l.AsInputs()
	if err != nil {
		return nil, err
	}
	return &TrainingData{Inputs: inputs, Label: label}, nil
}
