package pagesect

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tsawler/pagesect/format"
	"github.com/tsawler/pagesect/hocrdoc"
	"github.com/tsawler/pagesect/layout"
	"github.com/tsawler/pagesect/model"
	"github.com/tsawler/pagesect/ocr"
	"github.com/tsawler/pagesect/pdfdoc"
	"github.com/tsawler/pagesect/segment"
)

// Grouper provides a fluent interface for turning one page of an input
// document into labeled fragment groups. Each configuration method returns a
// new Grouper instance, making it safe for concurrent use and allowing
// method chaining.
type Grouper struct {
	// Source
	filename string

	// Supplier produced from the source (or injected via FromSupplier)
	supplier       Supplier
	ownsSupplier   bool // true if we opened the supplier and should close it
	supplierOpened bool // true if supplier has been opened

	// Configuration
	options groupOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Grouper with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (g *Grouper) clone() *Grouper {
	return &Grouper{
		filename:       g.filename,
		supplier:       g.supplier,
		ownsSupplier:   g.ownsSupplier,
		supplierOpened: g.supplierOpened,
		options:        g.options.clone(),
		err:            g.err,
	}
}

// Page selects the 0-based page index to process. Default is 0.
func (g *Grouper) Page(index int) *Grouper {
	newG := g.clone()
	newG.options.page = index
	return newG
}

// WithVocabulary replaces the default heading vocabulary.
func (g *Grouper) WithVocabulary(config segment.Config) *Grouper {
	newG := g.clone()
	newG.options.vocabulary = &config
	return newG
}

// WithVocabularyFile loads the heading vocabulary from a YAML file.
func (g *Grouper) WithVocabularyFile(path string) *Grouper {
	newG := g.clone()
	if newG.err != nil {
		return newG
	}

	config, err := segment.LoadConfig(path)
	if err != nil {
		newG.err = err
		return newG
	}
	newG.options.vocabulary = &config
	return newG
}

// WithRowTolerance sets the sequencer's row tolerance: fragments whose Top
// coordinates differ by at most this amount are ordered left to right as one
// row. Default is 0 (exact comparison).
func (g *Grouper) WithRowTolerance(tolerance float64) *Grouper {
	newG := g.clone()
	newG.options.rowTolerance = tolerance
	return newG
}

// WithLogger sets the logger used for debug traces. Default is slog.Default().
func (g *Grouper) WithLogger(logger *slog.Logger) *Grouper {
	newG := g.clone()
	newG.options.logger = logger
	return newG
}

// PageCount returns the number of pages in the input.
func (g *Grouper) PageCount() (int, error) {
	if g.err != nil {
		return 0, g.err
	}
	if err := g.ensureSupplier(); err != nil {
		return 0, err
	}
	return g.supplier.PageCount()
}

// Fragments is a terminal operation returning the selected page's fragments
// in reading order. If the Grouper opened its own supplier, it is closed
// before returning.
func (g *Grouper) Fragments() ([]model.Fragment, error) {
	if g.err != nil {
		return nil, g.err
	}
	if err := g.ensureSupplier(); err != nil {
		return nil, err
	}
	if g.ownsSupplier {
		defer g.Close()
	}

	raw, err := g.supplier.Fragments(g.options.page)
	if err != nil {
		return nil, err
	}

	sequencer := layout.NewSequencerWithConfig(layout.SequencerConfig{
		RowTolerance: g.options.rowTolerance,
	})
	return sequencer.Sequence(raw), nil
}

// Groups is a terminal operation running the full pipeline on the selected
// page: supplier, sequencer, segmenter. If the Grouper opened its own
// supplier, it is closed before returning.
func (g *Grouper) Groups() (*segment.Segmentation, error) {
	ordered, err := g.Fragments()
	if err != nil {
		return nil, err
	}

	config := segment.DefaultConfig()
	if g.options.vocabulary != nil {
		config = *g.options.vocabulary
	}

	seg := segment.NewSegmenterWithConfig(config).Segment(ordered)

	g.logger().Debug("segmented page",
		"page", g.options.page,
		"fragments", seg.Input,
		"grouped", seg.FragmentCount(),
		"dropped", seg.DroppedCount())

	return seg, nil
}

// Close releases resources associated with the Grouper.
// It is safe to call Close multiple times.
func (g *Grouper) Close() error {
	if g.ownsSupplier && g.supplier != nil {
		err := g.supplier.Close()
		g.supplier = nil
		g.ownsSupplier = false
		g.supplierOpened = false
		return err
	}
	return nil
}

// ensureSupplier opens the fragment supplier if not already open, sniffing
// the input format from content with an extension fallback.
func (g *Grouper) ensureSupplier() error {
	if g.supplierOpened {
		return nil
	}
	if g.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	f := g.detectFormat()
	g.logger().Debug("opening input", "file", g.filename, "format", f)

	var (
		supplier Supplier
		err      error
	)
	switch f {
	case format.PDF:
		supplier, err = pdfdoc.Open(g.filename)
	case format.HOCR:
		supplier, err = hocrdoc.Open(g.filename)
	case format.Image:
		supplier, err = ocr.OpenImage(g.filename)
	default:
		return fmt.Errorf("unsupported input format for %q", g.filename)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s input: %w", f, err)
	}

	g.supplier = supplier
	g.ownsSupplier = true
	g.supplierOpened = true
	return nil
}

// detectFormat sniffs the file header, falling back to the extension when
// the content is inconclusive.
func (g *Grouper) detectFormat() format.Format {
	if fh, err := os.Open(g.filename); err == nil {
		head := make([]byte, 4096)
		n, _ := fh.Read(head)
		fh.Close()
		if f := format.DetectFromMagic(head[:n]); f != format.Unknown {
			return f
		}
	}
	return format.Detect(g.filename)
}

func (g *Grouper) logger() *slog.Logger {
	if g.options.logger != nil {
		return g.options.logger
	}
	return slog.Default()
}
