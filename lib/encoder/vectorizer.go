package encoder

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Matrix is a dense row-major matrix of float64 values.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix makes a zero matrix of rows x cols.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// Shape returns number of rows and columns.
func (m *Matrix) Shape() (rows, cols int) { return m.Rows, m.Cols }

// Row returns i-th row, the slice shares memory with the matrix.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// At returns value at row i and column j.
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// MarshalJSON encodes matrix as nested arrays, one array per row.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	buf.Grow(m.Rows * (m.Cols*4 + 2))
	buf.WriteByte('[')
	for i := 0; i < m.Rows; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, v := range m.Row(i) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("unsupported value %v at [%d, %d]", v, i, j)
			}
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(appendFloat(buf.AvailableBuffer(), v))
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// appendFloat formats v in the shortest form, keeping a fractional part for whole numbers (1.0, not 1)
func appendFloat(dst []byte, v float64) []byte {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.AppendFloat(dst, v, 'f', 1, 64)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, 64)
}

// Vectorize converts index sequences to a multi-hot matrix of len(sequences) x vocabularyLength.
// Position idx of row i is 1.0 if idx is present in sequences[i], repeated indices don't add up.
// Returns *IndexOutOfRangeError for an index outside [0, vocabularyLength-1].
func Vectorize(sequences [][]int, vocabularyLength int) (*Matrix, error) {
	if vocabularyLength < 0 {
		return nil, fmt.Errorf("%w: negative vocabulary length %d", ErrInvalidArgument, vocabularyLength)
	}
	res := NewMatrix(len(sequences), vocabularyLength)
	for i, seq := range sequences {
		row := res.Row(i)
		for _, idx := range seq {
			if idx < 0 || idx >= vocabularyLength {
				return nil, &IndexOutOfRangeError{Row: i, Index: idx, Length: vocabularyLength}
			}
			row[idx] = 1.0
		}
	}
	return res, nil
}
