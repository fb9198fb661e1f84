package spore

import (
	"fmt"
	"strings"
)

// Span describes the half-open byte range [Start, End) of a substring
// within some source text.
type Span struct {
	Start int
	End   int
}

// NewSpan creates a new span.
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// ExtendEnd returns a span with the same start whose end is the
// larger of `end` and the current end.
func (s Span) ExtendEnd(end int) Span {
	if end > s.End {
		return Span{Start: s.Start, End: end}
	}
	return s
}

// NextWindow returns the span of length `length` immediately
// following `s`.
func (s Span) NextWindow(length int) Span {
	return Span{Start: s.End, End: s.End + length}
}

// Overlap returns the span shared by `s` and `other`, and whether any
// overlap exists at all.
func (s Span) Overlap(other Span) (Span, bool) {
	start := s.Start
	if other.Start > start {
		start = other.Start
	}
	end := s.End
	if other.End < end {
		end = other.End
	}
	if start > end {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

// WithSource pairs the span with the full source text it indexes
// into.
func (s Span) WithSource(src string) SourceSpan {
	return SourceSpan{Span: s, Src: src}
}

// SourceSpan is a span plus the source text it refers to.
type SourceSpan struct {
	Span Span
	Src  string
}

// AsString returns the substring of Src identified by Span.
func (s SourceSpan) AsString() string {
	end := s.Span.End
	if end > len(s.Src) {
		end = len(s.Src)
	}
	start := s.Span.Start
	if start > end {
		start = end
	}
	return s.Src[start:end]
}

func (s SourceSpan) String() string {
	return s.AsString()
}

// ContextualString renders the span as a "Source:" block with the
// overlapping source lines, 1-indexed and right-aligned in a 3-column
// field, matching the interpreter's error-with-source-context output.
func (s SourceSpan) ContextualString() string {
	var b strings.Builder
	b.WriteString("Source:\n")

	current := Span{}
	lines := strings.Split(s.Src, "\n")
	for idx, line := range lines {
		current = current.NextWindow(1 + len(line))
		if _, ok := current.Overlap(s.Span); ok {
			lineSrc := current.WithSource(s.Src)
			fmt.Fprintf(&b, "%3d: %s", idx+1, lineSrc.AsString())
		}
	}
	return b.String()
}
