package postprocess

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rafelafrance/ocrensemble/align"
)

// rewrite is one ordered rewrite step in Substitute.
type rewrite func(string) string

func regexRewrite(pattern, repl string) rewrite {
	re := regexp.MustCompile(pattern)
	return func(s string) string { return re.ReplaceAllString(s, repl) }
}

// rewrites is the ordered rewrite list from spec.md §4.H step 1. Order
// and semantics are a literal contract: later rules may depend on
// earlier ones having already run (e.g. the dot-collapsing rule assumes
// whitespace around punctuation has already been trimmed). The
// `(?<=\d)@(?=\d)` → `0` rule has no RE2 equivalent (Go's regexp has no
// lookaround), so it runs as digitAtSign, an explicit digit-neighbor
// scan, in the position the lookaround rule occupies in the reference.
var rewrites = []rewrite{
	func(s string) string { return strings.ReplaceAll(s, string(align.Gap), "") },
	regexRewrite("_", " "),
	regexRewrite("™", `"`),
	regexRewrite(`(\S)\s+([;:.,°\)\]\}])`, `$1$2`),
	regexRewrite(`\s\s+`, " "),
	regexRewrite(`(\p{L}\s\p{Lu})\p{Po}`, `$1.`),
	regexRewrite(`(\w)&`, `$1 &`),
	regexRewrite(`&(\w)`, `& $1`),
	regexRewrite(`\.\.+`, `.`),
	regexRewrite(`::`, `.:`),
	regexRewrite("['`]['`]", `"`),
	digitAtSign,
	regexRewrite(`0ct`, `Oct`),
}

// Substitute applies the ordered rewrite pipeline to a consensus string.
func Substitute(line string) string {
	for _, r := range rewrites {
		line = r(line)
	}
	return line
}

// digitAtSign replaces '@' with '0' wherever it sits between two decimal
// digits (any rune unicode.IsDigit accepts, not only ASCII), matching every such position in the original string (not just
// non-overlapping regex matches), the way the reference's lookaround
// rule does.
func digitAtSign(line string) string {
	runes := []rune(line)
	out := make([]rune, len(runes))
	for i, r := range runes {
		if r == '@' && i > 0 && i < len(runes)-1 &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			out[i] = '0'
			continue
		}
		out[i] = r
	}
	return string(out)
}
