// Package api defines the Tokenizer API.
// It's an interface-only package, so that instance and dataset code can depend
// on the tokenizer contract without importing any concrete implementation.
package api

// Tokenizer splits a raw text string into an ordered sequence of word tokens.
//
// Implementations must be stateless with respect to Tokenize: the same input
// always yields the same tokens, and a single Tokenizer value may be shared by
// any number of instances concurrently.
type Tokenizer interface {
	Tokenize(text string) []string
}
