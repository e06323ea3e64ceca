// Package hocrdoc supplies positioned text fragments from hOCR documents,
// the HTML-based output format of OCR engines such as Tesseract.
//
// Coordinates in hOCR are already top-down pixel coordinates, so bounding
// boxes pass through unchanged. One fragment is produced per ocr_line
// element; pages without line elements fall back to ocrx_word granularity.
package hocrdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/pagesect/model"
)

// page holds the fragments of one ocr_page element.
type page struct {
	bounds model.Rect
	lines  []model.Fragment
}

// Reader provides access to the pages of an hOCR document.
type Reader struct {
	pages []page
}

// Open opens and parses an hOCR file.
func Open(filename string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open hOCR: %w", err)
	}
	return Parse(data)
}

// OpenReader parses hOCR from an io.Reader.
func OpenReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read hOCR: %w", err)
	}
	return Parse(data)
}

// Parse parses raw hOCR data. Documents without a single ocr_page element
// are rejected.
func Parse(data []byte) (*Reader, error) {
	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR markup: %w", err)
	}

	reader := &Reader{}
	walkPages(doc, reader)

	if len(reader.pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return reader, nil
}

// PageCount returns the number of ocr_page elements.
func (r *Reader) PageCount() (int, error) {
	return len(r.pages), nil
}

// Fragments returns the fragments of the given page (0-based) in document
// order. Returns model.ErrPageOutOfRange when the index is not within the
// document.
func (r *Reader) Fragments(pageIndex int) ([]model.Fragment, error) {
	if pageIndex < 0 || pageIndex >= len(r.pages) {
		return nil, fmt.Errorf("page %d of %d: %w", pageIndex, len(r.pages), model.ErrPageOutOfRange)
	}

	// Copy so callers cannot disturb the parsed document.
	frags := make([]model.Fragment, len(r.pages[pageIndex].lines))
	copy(frags, r.pages[pageIndex].lines)
	return frags, nil
}

// PageBounds returns the bounding box of the given page (0-based).
func (r *Reader) PageBounds(pageIndex int) (model.Rect, error) {
	if pageIndex < 0 || pageIndex >= len(r.pages) {
		return model.Rect{}, fmt.Errorf("page %d of %d: %w", pageIndex, len(r.pages), model.ErrPageOutOfRange)
	}
	return r.pages[pageIndex].bounds, nil
}

// Close releases resources associated with the Reader. The parsed document
// is held in memory, so this is a no-op kept for supplier interface symmetry.
func (r *Reader) Close() error {
	return nil
}

// decodeCharset converts non-UTF-8 hOCR to UTF-8 based on the charset
// declared in the document head. Legacy Tesseract output occasionally
// declares Latin-1.
func decodeCharset(data []byte) ([]byte, error) {
	content := strings.ToLower(string(data[:min(len(data), 2048)]))
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return data, nil
	}

	fields := strings.FieldsFunc(content[idx+len("charset="):], func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
	})
	if len(fields) == 0 {
		return data, nil
	}

	switch enc := fields[0]; enc {
	case "", "utf-8", "utf8":
		return data, nil
	case "iso-8859-1", "latin1", "latin-1", "windows-1252":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		return decoded, nil
	default:
		// Unknown charset; parse as-is and let keyword matching cope.
		return data, nil
	}
}

// walkPages finds every ocr_page element and parses its lines.
func walkPages(n *html.Node, reader *Reader) {
	if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
		pg := page{bounds: boundsFromTitle(attr(n, "title"))}
		collectLines(n, &pg)
		if len(pg.lines) == 0 {
			collectWords(n, &pg)
		}
		reader.pages = append(reader.pages, pg)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkPages(c, reader)
	}
}

// collectLines gathers ocr_line (and ocr_caption/ocr_header variants)
// fragments under a page node.
func collectLines(n *html.Node, pg *page) {
	if n.Type == html.ElementNode &&
		(hasClass(n, "ocr_line") || hasClass(n, "ocr_caption") || hasClass(n, "ocr_header")) {
		appendFragment(pg, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLines(c, pg)
	}
}

// collectWords gathers ocrx_word fragments, the fallback granularity for
// documents produced without line grouping.
func collectWords(n *html.Node, pg *page) {
	if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
		appendFragment(pg, n)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c, pg)
	}
}

func appendFragment(pg *page, n *html.Node) {
	text := textContent(n)
	if strings.TrimSpace(text) == "" {
		return
	}
	pg.lines = append(pg.lines, model.Fragment{
		Rect:        boundsFromTitle(attr(n, "title")),
		Text:        text,
		SourceIndex: len(pg.lines),
	})
}

// boundsFromTitle extracts the bbox property from an hOCR title attribute,
// e.g. "bbox 100 200 300 400; x_wconf 95".
func boundsFromTitle(title string) model.Rect {
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 5 || fields[0] != "bbox" {
			continue
		}
		left, err1 := strconv.ParseFloat(fields[1], 64)
		top, err2 := strconv.ParseFloat(fields[2], 64)
		right, err3 := strconv.ParseFloat(fields[3], 64)
		bottom, err4 := strconv.ParseFloat(fields[4], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		return model.NewRect(left, top, right, bottom)
	}
	return model.Rect{}
}

// textContent returns the concatenated text nodes under n, with word
// boundaries collapsed to single spaces.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
