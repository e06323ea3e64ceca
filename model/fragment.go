package model

import (
	"errors"
	"strings"
)

// ErrPageOutOfRange is returned by fragment suppliers when the requested page
// index is not within the document's page range. Callers can test for it with
// errors.Is after any wrapping the supplier adds.
var ErrPageOutOfRange = errors.New("page index out of range")

// Fragment is one span of text with a bounding box on a page, as produced by
// a layout extractor. Fragments are created once by a supplier and treated as
// read-only by everything downstream.
type Fragment struct {
	// Rect is the fragment's bounding box in page coordinates (Y down).
	Rect Rect

	// Text is the raw text content. It may contain leading/trailing
	// whitespace and embedded newlines; consumers trim as needed.
	Text string

	// SourceIndex is an opaque order hint from the supplier (e.g. a block
	// number or stream position). It is never used for spatial ordering.
	SourceIndex int
}

// TrimmedText returns the text content with surrounding whitespace removed.
func (f Fragment) TrimmedText() string {
	return strings.TrimSpace(f.Text)
}

// String returns a compact representation used in group listings.
func (f Fragment) String() string {
	return f.Rect.String() + " " + f.TrimmedText()
}
