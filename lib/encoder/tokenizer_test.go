package encoder

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		opts TokenizeOptions
		want []string
	}{
		{"default filters", "Hello, World!", DefaultTokenizeOptions(), []string{"hello", "world"}},
		{"runs merged", "a..b", TokenizeOptions{Filters: ".", Split: ' '}, []string{"a", "b"}},
		{"no lowercase", "Hello World", TokenizeOptions{Split: ' '}, []string{"Hello", "World"}},
		{"empty", "", DefaultTokenizeOptions(), []string{}},
		{"only filters", "!!! ... ???", DefaultTokenizeOptions(), []string{}},
		{"tabs and newlines", "line1\nline2\tline3", DefaultTokenizeOptions(), []string{"line1", "line2", "line3"}},
		{"carriage return kept", "a\r\nb", DefaultTokenizeOptions(), []string{"a\r", "b"}},
		{"apostrophe kept", "don't stop", DefaultTokenizeOptions(), []string{"don't", "stop"}},
		{"custom separator", "a;b;;c d", TokenizeOptions{Split: ';'}, []string{"a", "b", "c d"}},
		{"zero separator means space", "a  b", TokenizeOptions{}, []string{"a", "b"}},
		{"unicode lowercase", "ПРИВЕТ, Мир", DefaultTokenizeOptions(), []string{"привет", "мир"}},
		{"email address", "Contact: john.doe@example.com", DefaultTokenizeOptions(),
			[]string{"contact", "john", "doe", "example", "com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Tokenize(tt.text, tt.opts)
			require.NoError(t, err)
			res := slices.Collect(seq)
			if res == nil {
				res = []string{}
			}
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestTokenize_InvalidInput(t *testing.T) {
	_, err := Tokenize("bad \xff\xfe text", DefaultTokenizeOptions())
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTokenize_Lazy(t *testing.T) {
	seq, err := Tokenize("one two three four", DefaultTokenizeOptions())
	require.NoError(t, err)
	res := []string{}
	for token := range seq {
		res = append(res, token)
		if len(res) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"one", "two"}, res)
	assert.Equal(t, []string{"one", "two", "three", "four"}, slices.Collect(seq), "sequence can be consumed again")
}
