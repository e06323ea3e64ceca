//go:build ocr

// Package ocr supplies positioned text fragments from scanned page images.
//
// This package wraps the Tesseract OCR engine via gosseract and maps its
// text-line bounding boxes into fragments. It requires Tesseract to be
// installed on the system and the "ocr" build tag:
//
//	go build -tags ocr
//
// On macOS, install Tesseract via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/tiff"

	"github.com/tsawler/pagesect/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	data, err := normalizeImage(imageData)
	if err != nil {
		return "", err
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Fragments performs OCR on image data and returns one positioned fragment
// per recognized text line. Image pixel coordinates are already top-down, so
// bounding boxes pass through unchanged.
func (c *Client) Fragments(imageData []byte) ([]model.Fragment, error) {
	data, err := normalizeImage(imageData)
	if err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	var fragments []model.Fragment
	for i, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		fragments = append(fragments, model.Fragment{
			Rect: model.NewRect(
				float64(box.Box.Min.X),
				float64(box.Box.Min.Y),
				float64(box.Box.Max.X),
				float64(box.Box.Max.Y),
			),
			Text:        box.Word,
			SourceIndex: i,
		})
	}
	return fragments, nil
}

// normalizeImage converts TIFF input to PNG; Tesseract's byte interface does
// not accept every TIFF variant, and scanners commonly produce TIFF.
func normalizeImage(data []byte) ([]byte, error) {
	if !isTIFF(data) {
		return data, nil
	}

	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode TIFF: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to re-encode TIFF: %w", err)
	}
	return buf.Bytes(), nil
}

func isTIFF(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A && data[3] == 0) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0 && data[3] == 0x2A)
}

// Supplier adapts a single page image to the fragment supplier interface
// used by the rest of the library. An image is always a one-page document.
type Supplier struct {
	client *Client
	data   []byte
}

// OpenImage opens an image file as a one-page fragment supplier.
func OpenImage(path string) (*Supplier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	client, err := New()
	if err != nil {
		return nil, err
	}
	return &Supplier{client: client, data: data}, nil
}

// PageCount returns 1; an image is a single page.
func (s *Supplier) PageCount() (int, error) {
	return 1, nil
}

// Fragments runs OCR and returns the page's fragments. Only page 0 exists;
// any other index returns model.ErrPageOutOfRange.
func (s *Supplier) Fragments(pageIndex int) ([]model.Fragment, error) {
	if pageIndex != 0 {
		return nil, fmt.Errorf("page %d of 1: %w", pageIndex, model.ErrPageOutOfRange)
	}
	return s.client.Fragments(s.data)
}

// Close releases the underlying OCR client.
func (s *Supplier) Close() error {
	return s.client.Close()
}
