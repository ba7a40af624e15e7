// Package lib provides text encoding for a hosted spam classifier. The primary function in this
// package is Encode, which converts a batch of plain-text documents to a dense feature matrix
// ready to be submitted to the classifier.
//
// Encoding uses the hashing trick:
//
//   - Text is lowercased and split to tokens. Punctuation, tab and newline characters act as
//     separators and empty tokens are dropped.
//
//   - Every token is hashed with md5 and mapped to an index in [1, n-1], where n is a vocabulary
//     size. The mapping is stable across processes and platforms, so identical text always produces
//     identical features. Index 0 is never used.
//
//   - Each document becomes a row of length n with 1.0 at every index present in the document and
//     0.0 elsewhere. Repeated tokens don't add up.
//
// The vocabulary size must match the model, DefaultVocabularySize is the one used by the reference
// spam/ham model. The matrix serializes to JSON as nested arrays, one array per document.
//
// Encode is pure and safe for concurrent use. For custom tokenization or digest use encoder.New.
package lib

import "github.com/umputun/spamham/lib/encoder"

// DefaultVocabularySize is a size of the hashed vocabulary space of the reference model.
const DefaultVocabularySize = 9013

// Matrix is a dense row-major feature matrix, one row per document.
type Matrix = encoder.Matrix

// Encode converts documents to a feature matrix of len(documents) x vocabularySize.
func Encode(documents []string, vocabularySize int) (*Matrix, error) {
	return encoder.Encode(documents, vocabularySize)
}
