// Package pagesect provides a fluent API for segmenting a page of positioned
// text fragments into labeled logical sections, driven by heading keywords.
//
// Basic usage:
//
//	groups, err := pagesect.Open("report.pdf").Groups()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(groups)
//
// With options:
//
//	groups, err := pagesect.Open("report.pdf").
//	    Page(2).
//	    WithVocabularyFile("vocabulary.yaml").
//	    Groups()
//
// For advanced use cases, the lower-level layout and segment packages are
// also available.
package pagesect

import (
	"github.com/tsawler/pagesect/model"
)

// Supplier is the fragment source consumed by the facade: anything that can
// report a page count and produce the (unordered) fragments of one page.
// Fragments must return model.ErrPageOutOfRange for an index outside the
// document.
type Supplier interface {
	PageCount() (int, error)
	Fragments(pageIndex int) ([]model.Fragment, error)
	Close() error
}

// Open opens an input file and returns a Grouper for fluent configuration.
// The format is sniffed from content (PDF, hOCR, or a page image for the OCR
// build). The returned Grouper must be closed when done, either explicitly
// via Close() or implicitly when calling a terminal operation like Groups().
//
// Example:
//
//	groups, err := pagesect.Open("report.pdf").Groups()
func Open(filename string) *Grouper {
	return &Grouper{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSupplier creates a Grouper from an already-opened fragment supplier.
// This is useful when you need more control over the supplier lifecycle.
// Note: The caller is responsible for closing the supplier.
//
// Example:
//
//	r, err := pdfdoc.Open("report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	groups, err := pagesect.FromSupplier(r).Groups()
func FromSupplier(s Supplier) *Grouper {
	return &Grouper{
		supplier:       s,
		ownsSupplier:   false,
		supplierOpened: true,
		options:        defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	groups := pagesect.Must(pagesect.Open("report.pdf").Groups())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
