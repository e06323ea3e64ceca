// Package pdfdoc supplies positioned text fragments from PDF pages.
//
// The package wraps pdfcpu for document parsing and walks each page's
// content stream tracking the text matrix, so every show-text operation
// yields a fragment with an approximate bounding box. Fragments are
// converted from PDF user space (Y up) to the library's top-down
// coordinate system using the page height.
package pdfdoc

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/pagesect/model"
)

// Reader supplies fragments from the pages of a PDF document.
type Reader struct {
	ctx  *pdfmodel.Context
	dims []types.Dim
}

// Open reads and validates a PDF file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return New(f)
}

// New reads and validates a PDF from a seekable reader. The reader is fully
// consumed; it is not used after New returns.
func New(rs io.ReadSeeker) (*Reader, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	return &Reader{ctx: ctx, dims: dims}, nil
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() (int, error) {
	return r.ctx.PageCount, nil
}

// Fragments extracts the positioned text fragments of the given page
// (0-based) in content-stream order. Returns model.ErrPageOutOfRange when
// the index is not within the document.
func (r *Reader) Fragments(pageIndex int) ([]model.Fragment, error) {
	if pageIndex < 0 || pageIndex >= r.ctx.PageCount {
		return nil, fmt.Errorf("page %d of %d: %w", pageIndex, r.ctx.PageCount, model.ErrPageOutOfRange)
	}

	// pdfcpu pages are 1-based.
	rd, err := pdfcpu.ExtractPageContent(r.ctx, pageIndex+1)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page %d content: %w", pageIndex, err)
	}
	if rd == nil {
		return nil, nil
	}

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d content: %w", pageIndex, err)
	}

	return extractFragments(data, r.pageHeight(pageIndex)), nil
}

// Close releases the reader. The document is held in memory, so this is a
// no-op kept for supplier interface symmetry.
func (r *Reader) Close() error {
	return nil
}

// pageHeight returns the media box height for a page, with a US Letter
// fallback when dimensions are unavailable.
func (r *Reader) pageHeight(pageIndex int) float64 {
	if pageIndex < len(r.dims) && r.dims[pageIndex].Height > 0 {
		return r.dims[pageIndex].Height
	}
	return 792
}
