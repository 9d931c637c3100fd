package sanitize

import (
	"regexp"
	"strings"
)

// Known LaTeX command names the normalizer recognizes. Models frequently emit
// these without the leading backslash ("alpha^2", "frac{a}{b}").
var latexCommands = map[string]struct{}{
	// Greek letters
	"alpha": {}, "beta": {}, "gamma": {}, "delta": {}, "epsilon": {},
	"zeta": {}, "eta": {}, "theta": {}, "iota": {}, "kappa": {},
	"lambda": {}, "mu": {}, "nu": {}, "xi": {}, "omicron": {}, "pi": {},
	"rho": {}, "sigma": {}, "tau": {}, "upsilon": {}, "phi": {}, "chi": {},
	"psi": {}, "omega": {},
	// Operators and functions
	"frac": {}, "sqrt": {}, "sum": {}, "prod": {}, "int": {}, "lim": {},
	"log": {}, "ln": {}, "exp": {}, "sin": {}, "cos": {}, "tan": {},
	"cot": {}, "sec": {}, "csc": {}, "infty": {}, "cdot": {}, "times": {},
	"div": {}, "pm": {}, "mp": {}, "leq": {}, "geq": {}, "neq": {},
	"approx": {}, "equiv": {}, "partial": {}, "nabla": {}, "to": {},
	"rightarrow": {}, "leftarrow": {},
}

// greekLetters is the subset matched as a whole word, case-insensitively.
var greekLetters = map[string]struct{}{
	"alpha": {}, "beta": {}, "gamma": {}, "delta": {}, "epsilon": {},
	"zeta": {}, "eta": {}, "theta": {}, "iota": {}, "kappa": {},
	"lambda": {}, "mu": {}, "nu": {}, "xi": {}, "omicron": {}, "pi": {},
	"rho": {}, "sigma": {}, "tau": {}, "upsilon": {}, "phi": {}, "chi": {},
	"psi": {}, "omega": {},
}

var (
	// alphanumeric, then ^ or _, then alphanumeric: x^2, a_1, e^{i}.
	supSubRe = regexp.MustCompile(`^[A-Za-z0-9\\]+[\^_][A-Za-z0-9{}\\^_]+$`)
	// an operator directly between two alphanumeric-or-backslash tokens:
	// x=y, a+b, n<=m. A bare hyphen is deliberately excluded — hyphenated
	// prose ("well-known") is far more common than inline subtraction.
	operatorRe = regexp.MustCompile(`^[A-Za-z0-9\\^_{}]+(?:[=+*/<>]=?|!=)[A-Za-z0-9\\^_{}]+$`)
)

// looksLikeMath reports whether a whitespace-delimited token from plain-text
// context looks like mathematics worth wrapping in inline math delimiters.
// Intentionally permissive: over-wrapping is cosmetic, never corrupting.
// Must not be called for content already inside a code or math span.
func looksLikeMath(phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return false
	}
	bare := strings.TrimPrefix(phrase, `\`)
	if _, ok := latexCommands[bare]; ok {
		return true
	}
	if _, ok := greekLetters[strings.ToLower(bare)]; ok {
		return true
	}
	return supSubRe.MatchString(phrase) || operatorRe.MatchString(phrase)
}

// normalizeWord prepends a backslash to a known LaTeX command name unless it
// already carries one in its original context. Idempotent: unknown words and
// already-escaped commands come back unchanged.
func normalizeWord(word string, escaped bool) string {
	if escaped {
		return word
	}
	if _, ok := latexCommands[word]; ok {
		return `\` + word
	}
	return word
}

// normalizePhrase applies normalizeWord to every alphabetic word in phrase,
// leaving all other characters in place.
func normalizePhrase(phrase string) string {
	var out strings.Builder
	out.Grow(len(phrase) + 2)
	i := 0
	for i < len(phrase) {
		if !isLetter(phrase[i]) {
			out.WriteByte(phrase[i])
			i++
			continue
		}
		j := i
		for j < len(phrase) && isLetter(phrase[j]) {
			j++
		}
		escaped := i > 0 && phrase[i-1] == '\\'
		out.WriteString(normalizeWord(phrase[i:j], escaped))
		i = j
	}
	return out.String()
}
