package pagesect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/pagesect/model"
	"github.com/tsawler/pagesect/segment"
)

// statusReportHOCR is a one-page scan of the canonical status report layout.
const statusReportHOCR = `<!DOCTYPE html>
<html>
<head><meta http-equiv="Content-Type" content="text/html;charset=utf-8"/><meta name="ocr-system" content="tesseract"/></head>
<body>
<div class="ocr_page" title="bbox 0 0 1240 1754">
 <span class="ocr_line" title="bbox 500 10 740 40">RESTRICTED</span>
 <span class="ocr_line" title="bbox 80 100 900 140">Programme/Project Status Report</span>
 <span class="ocr_line" title="bbox 80 160 400 190">line A</span>
 <span class="ocr_line" title="bbox 80 220 300 250">Description</span>
 <span class="ocr_line" title="bbox 80 280 400 310">line B</span>
 <span class="ocr_line" title="bbox 80 340 420 370">Report Parameters</span>
 <span class="ocr_line" title="bbox 80 400 400 430">line C</span>
</div>
</body>
</html>`

// writeTempHOCR writes the sample page to a temp file and returns its path
func writeTempHOCR(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.hocr")
	if err := os.WriteFile(path, []byte(statusReportHOCR), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenGroupsEndToEnd(t *testing.T) {
	path := writeTempHOCR(t)

	seg, err := Open(path).Groups()
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}

	tests := []struct {
		group string
		want  []string
	}{
		{segment.GroupMarker, []string{"RESTRICTED"}},
		{segment.GroupStatus, []string{"Programme/Project Status Report", "line A"}},
		{segment.GroupDescription, []string{"Description", "line B"}},
		{segment.GroupParameters, []string{"Report Parameters", "line C"}},
	}

	for _, tt := range tests {
		g := seg.Group(tt.group)
		if g == nil {
			t.Fatalf("Group %q missing", tt.group)
		}
		if g.Size() != len(tt.want) {
			t.Fatalf("Group %q: expected %d members, got %d", tt.group, len(tt.want), g.Size())
		}
		for i, text := range tt.want {
			if got := g.Fragments[i].TrimmedText(); got != text {
				t.Errorf("Group %q member %d: expected %q, got %q", tt.group, i, text, got)
			}
		}
	}
}

func TestOpenFragmentsOrdered(t *testing.T) {
	path := writeTempHOCR(t)

	frags, err := Open(path).Fragments()
	if err != nil {
		t.Fatalf("Fragments failed: %v", err)
	}
	if len(frags) != 7 {
		t.Fatalf("Expected 7 fragments, got %d", len(frags))
	}

	for i := 1; i < len(frags); i++ {
		if frags[i-1].Rect.Top > frags[i].Rect.Top {
			t.Errorf("Fragments out of reading order at %d", i)
		}
	}
}

func TestOpenPageOutOfRange(t *testing.T) {
	path := writeTempHOCR(t)

	_, err := Open(path).Page(5).Groups()
	if !errors.Is(err, model.ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got %v", err)
	}
}

func TestOpenPageCount(t *testing.T) {
	path := writeTempHOCR(t)

	g := Open(path)
	defer g.Close()

	count, err := g.PageCount()
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 page, got %d", count)
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just text"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path).Groups(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestOpenNoFilename(t *testing.T) {
	if _, err := Open("").Groups(); err == nil {
		t.Error("Expected error for empty filename")
	}
}

func TestWithVocabularyFile(t *testing.T) {
	dir := t.TempDir()
	hocrPath := filepath.Join(dir, "memo.hocr")
	memo := `<!DOCTYPE html><html><body>
<div class="ocr_page" title="bbox 0 0 100 100">
 <span class="ocr_line" title="bbox 0 0 100 10">Summary</span>
 <span class="ocr_line" title="bbox 0 20 100 30">body text</span>
</div>
</body></html>`
	if err := os.WriteFile(hocrPath, []byte(memo), 0o644); err != nil {
		t.Fatal(err)
	}

	vocabPath := filepath.Join(dir, "vocab.yaml")
	vocab := "rules:\n  - keyword: summary\n    group: summary\n"
	if err := os.WriteFile(vocabPath, []byte(vocab), 0o644); err != nil {
		t.Fatal(err)
	}

	seg, err := Open(hocrPath).WithVocabularyFile(vocabPath).Groups()
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if seg.GroupCount() != 1 {
		t.Fatalf("Expected 1 group, got %d", seg.GroupCount())
	}
	if seg.Group("summary").Size() != 2 {
		t.Errorf("Expected 2 members in summary group, got %d", seg.Group("summary").Size())
	}
}

func TestWithVocabularyFileMissing(t *testing.T) {
	path := writeTempHOCR(t)

	_, err := Open(path).WithVocabularyFile("/no/such/vocabulary.yaml").Groups()
	if err == nil {
		t.Error("Expected error for missing vocabulary file")
	}
}

func TestChainImmutability(t *testing.T) {
	base := Open("report.pdf")
	withPage := base.Page(3)

	if base.options.page != 0 {
		t.Error("Page() mutated the original Grouper")
	}
	if withPage.options.page != 3 {
		t.Error("Page() did not configure the clone")
	}

	config := segment.Config{Rules: []segment.Rule{{Keyword: "x", Group: "y"}}}
	withVocab := base.WithVocabulary(config)
	if base.options.vocabulary != nil {
		t.Error("WithVocabulary mutated the original Grouper")
	}
	withVocab.options.vocabulary.Rules[0].Keyword = "changed"
	if config.Rules[0].Keyword != "x" {
		t.Error("Expected vocabulary to be deep-copied")
	}
}

// fakeSupplier is an in-memory Supplier for facade tests
type fakeSupplier struct {
	pages  [][]model.Fragment
	closed bool
}

func (f *fakeSupplier) PageCount() (int, error) {
	return len(f.pages), nil
}

func (f *fakeSupplier) Fragments(pageIndex int) ([]model.Fragment, error) {
	if pageIndex < 0 || pageIndex >= len(f.pages) {
		return nil, model.ErrPageOutOfRange
	}
	return f.pages[pageIndex], nil
}

func (f *fakeSupplier) Close() error {
	f.closed = true
	return nil
}

func TestFromSupplier(t *testing.T) {
	supplier := &fakeSupplier{
		pages: [][]model.Fragment{
			{
				{Rect: model.NewRect(0, 10, 100, 20), Text: "Description"},
				{Rect: model.NewRect(0, 30, 100, 40), Text: "details"},
			},
		},
	}

	seg, err := FromSupplier(supplier).Groups()
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if seg.Group(segment.GroupDescription).Size() != 2 {
		t.Errorf("Expected 2 members, got %d", seg.Group(segment.GroupDescription).Size())
	}

	// The caller owns the supplier; terminal ops must not close it.
	if supplier.closed {
		t.Error("Expected supplier to stay open for FromSupplier")
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected Must to panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
