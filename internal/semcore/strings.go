package semcore

import "strings"

// String access semantics: Unicode scalar indexing (never bytes, never
// grapheme clusters), Python-style negative indices, slice clamping.

// StringAccessError is a string indexing or slicing failure with its
// canonical message. The same values drive compile-time diagnostics for
// constant expressions and the panic messages of emitted programs.
type StringAccessError uint8

const (
	IndexOutOfRange StringAccessError = iota
	SliceStepZero
)

// Error implements the error interface with the canonical message.
func (e StringAccessError) Error() string {
	return e.Message()
}

// Message returns the shared canonical message text.
func (e StringAccessError) Message() string {
	if e == SliceStepZero {
		return MsgSliceStepZero
	}
	return MsgStringIndexOutOfRange
}

// StrLen returns the length of s in Unicode scalars.
func StrLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// normalizeIndex resolves a possibly-negative index against len.
// ok is false when the resolved index is out of range.
func normalizeIndex(length int, idx int64) (int, bool) {
	if length == 0 {
		return 0, false
	}
	i := idx
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, false
	}
	return int(i), true
}

// StrCharAt indexes s by Unicode scalar position and returns the
// one-scalar string, or IndexOutOfRange.
func StrCharAt(s string, idx int64) (string, error) {
	runes := []rune(s)
	pos, ok := normalizeIndex(len(runes), idx)
	if !ok {
		return "", IndexOutOfRange
	}
	return string(runes[pos]), nil
}

// StrSlice slices s over Unicode scalars with Python semantics: optional
// start/end/step (nil means default), negative indices, bounds clamping.
// The only failure is a zero step.
func StrSlice(s string, start, end, step *int64) (string, error) {
	st := int64(1)
	if step != nil {
		st = *step
	}
	if st == 0 {
		return "", SliceStepZero
	}

	runes := []rune(s)
	length := int64(len(runes))

	defaultStart, defaultEnd := int64(0), length
	if st < 0 {
		defaultStart, defaultEnd = length-1, -1
	}
	startIdx, endIdx := defaultStart, defaultEnd
	if start != nil {
		startIdx = *start
		if startIdx < 0 {
			startIdx += length
		}
	}
	if end != nil {
		endIdx = *end
		if endIdx < 0 {
			endIdx += length
		}
	}

	if st > 0 {
		startIdx = clamp(startIdx, 0, length)
		endIdx = clamp(endIdx, 0, length)
	} else {
		startIdx = clamp(startIdx, -1, length-1)
		endIdx = clamp(endIdx, -1, length-1)
	}

	out := make([]rune, 0, len(runes))
	if st > 0 {
		for i := startIdx; i < endIdx; i += st {
			out = append(out, runes[i])
		}
	} else {
		for i := startIdx; i > endIdx; i += st {
			out = append(out, runes[i])
		}
	}
	return string(out), nil
}

// StrContains is Python's `needle in haystack` over substrings.
func StrContains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
