package postprocess

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Dictionary is the spelling backend Run delegates to. It isolates the
// post-processing pipeline from any particular dictionary/corrector
// implementation; callers may supply their own behind this interface
// instead of FrequencyDictionary.
type Dictionary interface {
	// IsWord reports whether token is a known dictionary word
	// (case-insensitive).
	IsWord(token string) bool
	// Freq returns token's corpus frequency, 0 if unknown.
	Freq(token string) int
	// Correct returns the dictionary's best guess for a misspelled
	// token, or token itself if it is already a word or no correction
	// is found.
	Correct(token string) string
	// Tokenize splits a line into letter runs, whitespace runs, and
	// runs of everything else, such that joining the result
	// reproduces the input exactly.
	Tokenize(line string) []string
}

var tokenPattern = regexp.MustCompile(`[\p{L}]+|[\s]+|[^\p{L}\s]+`)

// Tokenize splits line into maximal runs of letters, whitespace, or
// other characters. Concatenating the result always reproduces line.
func Tokenize(line string) []string {
	return tokenPattern.FindAllString(line, -1)
}

// IsLetters reports whether token consists entirely of Unicode letters
// and is non-empty.
func IsLetters(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// FrequencyDictionary is a Dictionary backed by a fixed word-frequency
// table and a Norvig-style edit-distance corrector: it ranks candidate
// corrections within one or two edits of a token by corpus frequency.
type FrequencyDictionary struct {
	freq map[string]int
}

// NewFrequencyDictionary builds a FrequencyDictionary from a word to
// frequency-count mapping. Lookups are case-insensitive; counts for a
// word that differs only by case are summed.
func NewFrequencyDictionary(counts map[string]int) *FrequencyDictionary {
	d := &FrequencyDictionary{freq: make(map[string]int, len(counts))}
	for word, count := range counts {
		d.freq[strings.ToLower(word)] += count
	}
	return d
}

// NewDefaultFrequencyDictionary returns the built-in small English word
// list (see words.go), for callers that do not supply their own corpus.
func NewDefaultFrequencyDictionary() *FrequencyDictionary {
	return NewFrequencyDictionary(defaultWordFrequencies)
}

func (d *FrequencyDictionary) IsWord(token string) bool {
	_, ok := d.freq[strings.ToLower(token)]
	return ok
}

func (d *FrequencyDictionary) Freq(token string) int {
	return d.freq[strings.ToLower(token)]
}

func (d *FrequencyDictionary) Tokenize(line string) []string {
	return Tokenize(line)
}

// Correct returns token unchanged if it is already known. Otherwise it
// searches edits at distance one, then distance two, for the
// highest-frequency known word, following Norvig's spelling corrector
// shape. If nothing is found, token is returned unchanged.
func (d *FrequencyDictionary) Correct(token string) string {
	lower := strings.ToLower(token)
	if d.IsWord(lower) {
		return token
	}

	if best, ok := d.bestKnown(edits1(lower)); ok {
		return restoreCase(token, best)
	}
	if best, ok := d.bestKnown(edits2(lower)); ok {
		return restoreCase(token, best)
	}
	return token
}

func (d *FrequencyDictionary) bestKnown(candidates map[string]bool) (string, bool) {
	best := ""
	bestFreq := -1
	keys := make([]string, 0, len(candidates))
	for c := range candidates {
		keys = append(keys, c)
	}
	sort.Strings(keys) // deterministic tiebreak among equal frequencies
	for _, c := range keys {
		f, ok := d.freq[c]
		if !ok {
			continue
		}
		if f > bestFreq {
			best, bestFreq = c, f
		}
	}
	return best, bestFreq >= 0
}

// restoreCase applies original's capitalization pattern (all-upper,
// title case, or as-is) to replacement.
func restoreCase(original, replacement string) string {
	switch {
	case original == strings.ToUpper(original):
		return strings.ToUpper(replacement)
	case original == strings.Title(strings.ToLower(original)):
		runes := []rune(replacement)
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		return string(runes)
	default:
		return replacement
	}
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// edits1 returns every string reachable from word by a single
// deletion, transposition, substitution, or insertion of one letter.
func edits1(word string) map[string]bool {
	out := make(map[string]bool)
	runes := []rune(word)
	n := len(runes)

	for i := 0; i < n; i++ {
		// deletion
		out[string(append(append([]rune{}, runes[:i]...), runes[i+1:]...))] = true
	}
	for i := 0; i < n-1; i++ {
		t := append([]rune{}, runes...)
		t[i], t[i+1] = t[i+1], t[i]
		out[string(t)] = true
	}
	for i := 0; i < n; i++ {
		for _, c := range alphabet {
			t := append([]rune{}, runes...)
			t[i] = c
			out[string(t)] = true
		}
	}
	for i := 0; i <= n; i++ {
		for _, c := range alphabet {
			t := make([]rune, 0, n+1)
			t = append(t, runes[:i]...)
			t = append(t, c)
			t = append(t, runes[i:]...)
			out[string(t)] = true
		}
	}
	return out
}

// edits2 returns every string reachable from word by two edits, by
// applying edits1 twice.
func edits2(word string) map[string]bool {
	out := make(map[string]bool)
	for e1 := range edits1(word) {
		for e2 := range edits1(e1) {
			out[e2] = true
		}
	}
	return out
}
