package encoder

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when text to tokenize is not a valid utf-8 string.
var ErrInvalidInput = errors.New("invalid input text")

// ErrInvalidArgument is returned for vocabulary length out of the allowed range.
var ErrInvalidArgument = errors.New("invalid argument")

// IndexOutOfRangeError is returned by Vectorize for an index outside of [0, Length-1].
type IndexOutOfRangeError struct {
	Row    int // row (document) the index belongs to
	Index  int // offending index
	Length int // vocabulary length
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d) in row %d", e.Index, e.Length, e.Row)
}
