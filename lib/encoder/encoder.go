// Package encoder converts text documents to multi-hot feature vectors with the hashing trick.
// Documents are tokenized, every token is mapped to [1, n-1] by a stable 128-bit digest and
// indices are collected into a dense matrix with one row per document. There is no vocabulary
// table, unrelated tokens may collide and this is accepted.
//
// All functions are pure and safe for concurrent use.
package encoder

import "fmt"

// Encoder encodes documents with configured tokenizer options and digest.
type Encoder struct {
	tokenize TokenizeOptions
	digest   Digest
}

// Option func type
type Option func(e *Encoder)

// WithTokenizeOptions sets tokenizer options, default is DefaultTokenizeOptions.
func WithTokenizeOptions(opts TokenizeOptions) Option {
	return func(e *Encoder) { e.tokenize = opts }
}

// WithDigest sets digest used for token hashing, default is DigestMD5.
func WithDigest(d Digest) Option {
	return func(e *Encoder) { e.digest = d }
}

// New makes Encoder with options.
func New(opts ...Option) *Encoder {
	res := &Encoder{tokenize: DefaultTokenizeOptions(), digest: DigestMD5}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Encode documents to a matrix of len(documents) x vocabularyLength with default options.
func Encode(documents []string, vocabularyLength int) (*Matrix, error) {
	return New().Encode(documents, vocabularyLength)
}

// Encode documents to a matrix of len(documents) x vocabularyLength.
// Errors of tokenizer, indexer and vectorizer are returned as is.
func (e *Encoder) Encode(documents []string, vocabularyLength int) (*Matrix, error) {
	if vocabularyLength < 2 {
		return nil, fmt.Errorf("%w: vocabulary length %d, should be at least 2", ErrInvalidArgument, vocabularyLength)
	}
	sequences := make([][]int, 0, len(documents))
	for _, doc := range documents {
		seq, err := e.Indices(doc, vocabularyLength)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
	return Vectorize(sequences, vocabularyLength)
}

// Indices returns index sequence of a single document.
func (e *Encoder) Indices(doc string, vocabularyLength int) ([]int, error) {
	tokens, err := Tokenize(doc, e.tokenize)
	if err != nil {
		return nil, err
	}
	return e.digest.indexTokens(tokens, vocabularyLength)
}
