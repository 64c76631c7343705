// Package sentencepiece adapts the SentencePiece tokenizer by Google to the
// word-level api.Tokenizer interface: each SentencePiece piece becomes one
// token, with the metaspace marker stripped.
package sentencepiece

import (
	"strings"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/pkg/errors"

	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// The marker SentencePiece uses in place of a leading space (U+2581).
const metaspace = "▁"

// Tokenizer implements api.Tokenizer on top of a SentencePiece model.
type Tokenizer struct {
	Processor *esentencepiece.Processor
}

// Compile time assert that sentencepiece.Tokenizer implements api.Tokenizer.
var _ api.Tokenizer = &Tokenizer{}

// New creates a Tokenizer from a SentencePiece model file (a Model proto,
// typically named "tokenizer.model").
func New(modelPath string) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessorFromPath(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from %q", modelPath)
	}
	return &Tokenizer{Processor: proc}, nil
}

// Tokenize returns the SentencePiece pieces of text as word tokens.
// Pieces that are only the metaspace marker are dropped, since they carry no
// vocabulary content.
func (p *Tokenizer) Tokenize(text string) []string {
	pieces := p.Processor.Encode(text)
	tokens := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		token := strings.TrimPrefix(piece.Text, metaspace)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
