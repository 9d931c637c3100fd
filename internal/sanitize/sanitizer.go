// Package sanitize cleans model-generated text as it streams in from the LLM
// gateway, before it reaches a renderer. It repairs common model output
// artifacts (bare LaTeX commands, un-delimited math, stray bold markers,
// leaked reasoning tags) while passing code and math spans through untouched.
//
// A Sanitizer is owned by exactly one in-flight assistant reply. Lexical
// context (code fence, inline code, math span) is carried across ProcessChunk
// calls, so chunk boundaries may fall anywhere — including inside a delimiter.
package sanitize

import "strings"

// Sanitizer holds the lexical context of one streamed message. Not safe for
// concurrent use; construct one per reply via New and discard it at stream end.
type Sanitizer struct {
	inCodeBlock  bool
	inInlineCode bool
	inInlineMath bool
	inBlockMath  bool
	atLineStart  bool

	reasoning reasoningFilter

	// pending holds a line-start "**" (plus trailing spaces) whose stray /
	// non-stray classification needs characters from a later chunk.
	pending string

	// prevByte is the last scanned byte of the previous chunk, so a word
	// split right after its backslash is still seen as escaped.
	prevByte byte
}

// New returns a Sanitizer using the default <reasoning> tag pair.
func New() *Sanitizer {
	return NewWithTags(DefaultOpenTag, DefaultCloseTag)
}

// NewWithTags returns a Sanitizer that suppresses content between the given
// tag pair in addition to the standard cleanup passes.
func NewWithTags(openTag, closeTag string) *Sanitizer {
	return &Sanitizer{
		atLineStart: true,
		reasoning:   reasoningFilter{openTag: openTag, closeTag: closeTag},
	}
}

// ProcessChunk cleans one chunk of streamed text and returns the portion safe
// to append to the rendered output. Characters inside an open code span are
// returned byte-for-byte; math spans are only ever word-normalized. Unbalanced
// delimiters are not an error — the open context simply persists into the
// next call.
func (s *Sanitizer) ProcessChunk(chunk string) string {
	return s.scan(s.reasoning.write(chunk))
}

// Flush returns any text still held back for cross-chunk decisions. Call once
// when the stream ends; a pending marker that never resolved is emitted
// unchanged, and reasoning-block content is discarded.
func (s *Sanitizer) Flush() string {
	out := s.scan(s.reasoning.flush())
	if s.pending != "" {
		out += s.pending
		s.pending = ""
	}
	return out
}

// scan runs the single-pass scanner over text, prepending any held-back
// marker from the previous call. Context flags persist on s.
func (s *Sanitizer) scan(text string) string {
	if s.pending != "" {
		text = s.pending + text
		s.pending = ""
	}
	if text == "" {
		return ""
	}

	out := make([]byte, 0, len(text)+8)
	i := 0
	for i < len(text) {
		// Code delimiters take effect everywhere except inside math.
		// Fence matching is chunk-local: a "```" split across chunks is
		// seen as separate backticks, which can leave the code flags
		// inverted until the next fence. The content itself still passes
		// through byte-for-byte either way; the cost is prose after a
		// mis-closed block going unsanitized.
		if !s.inInlineMath && !s.inBlockMath {
			if strings.HasPrefix(text[i:], "```") {
				s.inCodeBlock = !s.inCodeBlock
				s.inInlineCode = false
				out = append(out, "```"...)
				i += 3
				s.atLineStart = false
				continue
			}
			if text[i] == '`' && !s.inCodeBlock {
				s.inInlineCode = !s.inInlineCode
				out = append(out, '`')
				i++
				s.atLineStart = false
				continue
			}
		}

		// Inside code nothing is rewritten.
		if s.inCodeBlock || s.inInlineCode {
			out = append(out, text[i])
			s.atLineStart = text[i] == '\n'
			i++
			continue
		}

		// Math delimiters: "$$" toggles block math, "$" inline math.
		if text[i] == '$' {
			switch {
			case s.inBlockMath:
				if strings.HasPrefix(text[i:], "$$") {
					s.inBlockMath = false
					out = append(out, "$$"...)
					i += 2
				} else {
					out = append(out, '$')
					i++
				}
			case s.inInlineMath:
				s.inInlineMath = false
				out = append(out, '$')
				i++
			case strings.HasPrefix(text[i:], "$$"):
				s.inBlockMath = true
				out = append(out, "$$"...)
				i += 2
			default:
				s.inInlineMath = true
				out = append(out, '$')
				i++
			}
			s.atLineStart = false
			continue
		}

		// Inside math, normalize bare command words and pass the rest through.
		if s.inInlineMath || s.inBlockMath {
			if isLetter(text[i]) {
				j := i
				for j < len(text) && isLetter(text[j]) {
					j++
				}
				escaped := (i > 0 && text[i-1] == '\\') || (i == 0 && s.prevByte == '\\')
				out = append(out, normalizeWord(text[i:j], escaped)...)
				i = j
				s.atLineStart = false
				continue
			}
			out = append(out, text[i])
			s.atLineStart = text[i] == '\n'
			i++
			continue
		}

		// A bold pair opening a line is stray when only whitespace follows
		// before the newline. If the chunk ends first, hold the marker back
		// and decide when the next chunk arrives.
		if s.atLineStart && strings.HasPrefix(text[i:], "**") {
			j := i + 2
			for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			if j >= len(text) {
				s.pending = text[i:]
				break
			}
			if text[j] == '\n' {
				i = j // drop the stray pair and its trailing spaces
				continue
			}
			out = append(out, "**"...)
			i += 2
			s.atLineStart = false
			continue
		}

		// The chunk may end halfway through the pair itself. Hold the lone
		// asterisk back so the next chunk completes the classification.
		if s.atLineStart && text[i] == '*' && i+1 == len(text) {
			s.pending = "*"
			break
		}

		c := text[i]
		if c == '\n' {
			// A pair that is the entire line is stray even when it slipped
			// past the line-start check (e.g. emitted before the newline
			// arrived in this chunk).
			if len(out) >= 2 && out[len(out)-1] == '*' && out[len(out)-2] == '*' &&
				(len(out) == 2 || out[len(out)-3] == '\n') {
				out = out[:len(out)-2]
			}
			out = append(out, '\n')
			s.atLineStart = true
			i++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			out = append(out, c)
			s.atLineStart = false
			i++
			continue
		}

		// Plain text: try the math phrase heuristic on the whitespace- and
		// punctuation-delimited token starting here.
		j := i
		for j < len(text) && !isPhraseBoundary(text[j]) {
			j++
		}
		if phrase := text[i:j]; looksLikeMath(phrase) {
			out = append(out, '$')
			out = append(out, normalizePhrase(phrase)...)
			out = append(out, '$')
			i = j
			s.atLineStart = false
			continue
		}
		out = append(out, c)
		s.atLineStart = false
		i++
	}

	if i > 0 {
		s.prevByte = text[i-1]
	}
	return string(out)
}

// isPhraseBoundary reports whether b ends a math phrase candidate: whitespace,
// sentence punctuation, or a delimiter the scanner must see on its own.
func isPhraseBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '.', ',', ';', ':', '!', '?', '$', '`', '*', '(', ')':
		return true
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
