/*
Package fingerprint content-addresses a font file and a character set's
membership with BLAKE3, so a caller can decide whether a stored substitution
matrix is stale without re-rendering every character. It is this
implementation's answer to the Matrix Store's rebuild-avoidance Open
Question (spec.md §9).
*/
package fingerprint

import (
	"encoding/hex"
	"os"
	"sort"

	"lukechampine.com/blake3"
)

// Bytes returns the hex-encoded BLAKE3-256 digest of data.
func Bytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// File returns the hex-encoded BLAKE3-256 digest of the file at path.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Bytes(data), nil
}

// CharSet returns a digest of a character set's membership: the sorted,
// comma-joined code points that must be covered by the matrix. Two calls
// with the same rune set (regardless of input order or duplicates)
// produce the same digest.
func CharSet(runes map[rune]bool) string {
	sorted := make([]rune, 0, len(runes))
	for r := range runes {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]byte, 0, len(sorted)*5)
	for i, r := range sorted {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, []byte(string(r))...)
	}
	return Bytes(buf)
}

// Key is a matrix build's cache key: the font file's digest plus the
// covered character set's digest. A stored matrix is stale exactly when
// its recorded Key differs from the Key computed for the current font and
// character set.
type Key struct {
	Font    string
	Charset string
}

// NewKey builds a Key from a font file's digest and the covered runes.
func NewKey(fontDigest string, runes map[rune]bool) Key {
	return Key{Font: fontDigest, Charset: CharSet(runes)}
}

// Stale reports whether want (the current font+charset Key) differs from
// have (the Key recorded alongside a stored matrix).
func Stale(have, want Key) bool {
	return have != want
}
