package encoder

import (
	"crypto/md5" //nolint:gosec // md5 is a stable token hash here, not a security primitive
	"encoding/binary"
	"fmt"
	"iter"
	"math/bits"

	"lukechampine.com/blake3"
)

// Digest is a stable 128-bit hash used to map tokens to indices.
type Digest string

// enum of supported digests
const (
	DigestMD5    Digest = "md5"    // compatible with models trained on md5 hashing trick
	DigestBLAKE3 Digest = "blake3" // blake3 truncated to 128 bits
)

// ParseDigest converts digest name to Digest, empty name means md5.
func ParseDigest(name string) (Digest, error) {
	switch Digest(name) {
	case "", DigestMD5:
		return DigestMD5, nil
	case DigestBLAKE3:
		return DigestBLAKE3, nil
	}
	return "", fmt.Errorf("%w: unknown digest %q", ErrInvalidArgument, name)
}

// sum returns 128-bit digest of the token as a pair of big-endian halves
func (d Digest) sum(token string) (hi, lo uint64) {
	var sum [16]byte
	switch d {
	case DigestBLAKE3:
		full := blake3.Sum256([]byte(token))
		copy(sum[:], full[:16])
	default:
		sum = md5.Sum([]byte(token)) //nolint:gosec // see import
	}
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:])
}

// HashIndex maps token to [1, n-1] with md5 digest. Returns ErrInvalidArgument if n < 2.
func HashIndex(token string, n int) (int, error) {
	return DigestMD5.index(token, n)
}

// IndexTokens maps every token to [1, n-1] with md5 digest, order and duplicates preserved.
func IndexTokens(tokens iter.Seq[string], n int) ([]int, error) {
	return DigestMD5.indexTokens(tokens, n)
}

func (d Digest) index(token string, n int) (int, error) {
	if n < 2 {
		return 0, fmt.Errorf("%w: vocabulary length %d, should be at least 2", ErrInvalidArgument, n)
	}
	hi, lo := d.sum(token)
	// digest is a 128-bit unsigned integer, index is (digest mod (n-1)) + 1
	return int(bits.Rem64(hi, lo, uint64(n-1))) + 1, nil
}

func (d Digest) indexTokens(tokens iter.Seq[string], n int) ([]int, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: vocabulary length %d, should be at least 2", ErrInvalidArgument, n)
	}
	res := []int{}
	for token := range tokens {
		idx, err := d.index(token, n)
		if err != nil {
			return nil, err
		}
		res = append(res, idx)
	}
	return res, nil
}
