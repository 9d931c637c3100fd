package sanitize

import "strings"

// Default delimiter pair for hidden chain-of-thought regions.
const (
	DefaultOpenTag  = "<reasoning>"
	DefaultCloseTag = "</reasoning>"
)

// reasoningFilter strips tag-delimited reasoning regions from a chunk stream.
// The suppressed flag persists across calls, so a region split over any number
// of chunks is still removed in full. A tag split mid-chunk is handled by
// holding back the longest tail that could be a tag prefix until the next
// chunk decides.
type reasoningFilter struct {
	openTag     string
	closeTag    string
	holdback    strings.Builder
	suppressing bool
}

// write filters one chunk and returns the text safe to emit.
func (f *reasoningFilter) write(chunk string) string {
	if f.holdback.Len() > 0 {
		prev := f.holdback.String()
		f.holdback.Reset()
		chunk = prev + chunk
	}

	var out strings.Builder
	for chunk != "" {
		if f.suppressing {
			chunk = f.suppressed(chunk)
		} else {
			chunk = f.visible(chunk, &out)
		}
	}
	return out.String()
}

// flush returns the remaining holdback (call at stream end). Text held back
// inside a suppressed region is discarded.
func (f *reasoningFilter) flush() string {
	if f.suppressing {
		f.holdback.Reset()
		return ""
	}
	s := f.holdback.String()
	f.holdback.Reset()
	return s
}

// visible handles data outside a reasoning region. A close tag with no
// matching open (its pair fell in an earlier chunk, or the model emitted it
// bare) is dropped rather than leaked. Returns the unprocessed remainder.
func (f *reasoningFilter) visible(data string, out *strings.Builder) string {
	openIdx := strings.Index(data, f.openTag)
	closeIdx := strings.Index(data, f.closeTag)

	if closeIdx >= 0 && (openIdx < 0 || closeIdx < openIdx) {
		out.WriteString(data[:closeIdx])
		return data[closeIdx+len(f.closeTag):]
	}
	if openIdx >= 0 {
		out.WriteString(data[:openIdx])
		f.suppressing = true
		return data[openIdx+len(f.openTag):]
	}

	// No full tag. Hold back the longest tail that is a prefix of either tag.
	safe := len(data) - f.partialTagLen(data)
	out.WriteString(data[:safe])
	if safe < len(data) {
		f.holdback.WriteString(data[safe:])
	}
	return ""
}

// suppressed drops data inside a reasoning region until the close tag.
func (f *reasoningFilter) suppressed(data string) string {
	if idx := strings.Index(data, f.closeTag); idx >= 0 {
		f.suppressing = false
		return data[idx+len(f.closeTag):]
	}
	if n := f.partialCloseLen(data); n > 0 {
		f.holdback.WriteString(data[len(data)-n:])
	}
	return ""
}

// partialTagLen returns the length of the longest suffix of data that is a
// proper prefix of the open or close tag.
func (f *reasoningFilter) partialTagLen(data string) int {
	max := len(f.closeTag) - 1
	if n := len(f.openTag) - 1; n > max {
		max = n
	}
	if max > len(data) {
		max = len(data)
	}
	for n := max; n >= 1; n-- {
		suffix := data[len(data)-n:]
		if strings.HasPrefix(f.openTag, suffix) || strings.HasPrefix(f.closeTag, suffix) {
			return n
		}
	}
	return 0
}

// partialCloseLen is partialTagLen restricted to the close tag.
func (f *reasoningFilter) partialCloseLen(data string) int {
	max := len(f.closeTag) - 1
	if max > len(data) {
		max = len(data)
	}
	for n := max; n >= 1; n-- {
		if strings.HasPrefix(f.closeTag, data[len(data)-n:]) {
			return n
		}
	}
	return 0
}
