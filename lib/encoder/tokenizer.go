package encoder

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// DefaultFilters is a set of characters removed from the text before splitting it to tokens.
const DefaultFilters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

// TokenizeOptions defines how text is normalized and split to tokens.
type TokenizeOptions struct {
	Filters string // every character of Filters is treated as a separator
	Lower   bool   // lowercase text before splitting
	Split   rune   // separator, space if not set
}

// DefaultTokenizeOptions returns options with default filters, lowercasing and space separator.
func DefaultTokenizeOptions() TokenizeOptions {
	return TokenizeOptions{Filters: DefaultFilters, Lower: true, Split: ' '}
}

// Tokenize splits text to a lazy sequence of tokens. Filter characters are replaced by the separator,
// so runs of filtered characters and separators never produce empty tokens.
// Returns ErrInvalidInput if text is not a valid utf-8 string.
func Tokenize(text string, opts TokenizeOptions) (iter.Seq[string], error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidInput
	}
	if opts.Lower {
		text = strings.ToLower(text)
	}
	split := opts.Split
	if split == 0 {
		split = ' '
	}

	filters := make(map[rune]struct{}, len(opts.Filters))
	for _, r := range opts.Filters {
		filters[r] = struct{}{}
	}
	isSeparator := func(r rune) bool {
		if r == split {
			return true
		}
		_, ok := filters[r]
		return ok
	}
	return strings.FieldsFuncSeq(text, isSeparator), nil
}
