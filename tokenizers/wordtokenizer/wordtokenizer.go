// Package wordtokenizer implements the default word-level tokenizer.
//
// It splits on whitespace, separates punctuation into standalone tokens, and
// splits English contractions the way treebank-style tokenizers do
// ("isn't" -> "is", "n't"). Text is NFC-normalized before splitting so that
// composed and decomposed accented forms tokenize identically.
package wordtokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// Tokenizer is the default whitespace+punctuation word tokenizer.
// The zero value is ready to use; Default is the shared process-wide value.
type Tokenizer struct{}

// Compile time assert that wordtokenizer.Tokenizer implements api.Tokenizer.
var _ api.Tokenizer = &Tokenizer{}

// Default is the process-wide default tokenizer, shared by all instances that
// are not given an explicit one.
var Default = New()

// New returns a new Tokenizer.
func New() *Tokenizer {
	return &Tokenizer{}
}

// Contraction suffixes split off as their own tokens, checked longest-first.
var contractionSuffixes = []string{"n't", "'re", "'ve", "'ll", "'s", "'d", "'m"}

// Tokenize splits text into word tokens.
// It does not case-fold; callers that want lowercased tokens lower the text
// before tokenizing.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(norm.NFC.String(text)) {
		tokens = appendWordTokens(tokens, field)
	}
	return tokens
}

// appendWordTokens splits a single whitespace-free word into tokens and
// appends them to out.
func appendWordTokens(out []string, word string) []string {
	if word == "" {
		return out
	}
	// Peel leading and trailing punctuation first, so that contractions are
	// still recognized in words like "isn't.".
	runes := []rune(word)
	if isPunctuation(runes[0]) {
		out = append(out, string(runes[0]))
		return appendWordTokens(out, string(runes[1:]))
	}
	if last := runes[len(runes)-1]; isPunctuation(last) && last != '\'' {
		out = appendWordTokens(out, string(runes[:len(runes)-1]))
		return append(out, string(last))
	}
	lower := strings.ToLower(word)
	for _, suffix := range contractionSuffixes {
		if len(word) > len(suffix) && strings.HasSuffix(lower, suffix) {
			out = appendWordTokens(out, word[:len(word)-len(suffix)])
			return append(out, word[len(word)-len(suffix):])
		}
	}

	var current strings.Builder
	for _, r := range word {
		if isPunctuation(r) {
			if current.Len() > 0 {
				out = append(out, current.String())
				current.Reset()
			}
			out = append(out, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

func isPunctuation(r rune) bool {
	// ASCII punctuation first, it covers the common case cheaply.
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
