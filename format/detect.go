// Package format provides input format detection for the pagesect library.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// HOCR indicates an hOCR (HTML-based OCR output) document.
	HOCR
	// Image indicates a page image (PNG, JPEG, or TIFF) for the OCR path.
	Image
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case HOCR:
		return "hOCR"
	case Image:
		return "Image"
	default:
		return "Unknown"
	}
}

// Detect determines the input format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".hocr", ".html", ".htm":
		return HOCR
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return Image
	default:
		return Unknown
	}
}

// DetectFromMagic checks content bytes to determine the format.
// This provides more reliable detection than extension-based detection.
// Returns Unknown if the format cannot be determined from the data alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// PNG magic
	if bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		return Image
	}

	// JPEG magic
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return Image
	}

	// TIFF magic, either byte order
	if bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}) ||
		bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}) {
		return Image
	}

	// hOCR is HTML carrying ocr_page elements.
	if detectHTMLMagic(data) {
		head := data
		if len(head) > 4096 {
			head = head[:4096]
		}
		if bytes.Contains(head, []byte("ocr_page")) || bytes.Contains(head, []byte("ocr-system")) {
			return HOCR
		}
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return false
	}

	upper := strings.ToUpper(string(trimmed[:min(len(trimmed), 200)]))
	return strings.HasPrefix(upper, "<!DOCTYPE HTML") ||
		strings.HasPrefix(upper, "<HTML") ||
		strings.HasPrefix(upper, "<?XML")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
