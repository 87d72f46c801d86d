package extract

import (
	"testing"

	"github.com/ppiankov/campusfaq/internal/model"
)

func TestScriptDetector(t *testing.T) {
	d := ScriptDetector{}

	if got := d.Detect("What is the hostel fee?"); got != model.LanguageEnglish {
		t.Errorf("expected en, got %s", got)
	}
	if got := d.Detect("छात्रावास शुल्क क्या है?"); got != model.LanguageHindi {
		t.Errorf("expected hi, got %s", got)
	}
	if got := d.Detect("B.A. fee शुल्क 5000"); got != model.LanguageHindi {
		t.Errorf("expected mixed text with Devanagari to be hi, got %s", got)
	}
	if got := d.Detect(""); got != model.LanguageEnglish {
		t.Errorf("expected en for empty text, got %s", got)
	}
}

func TestWhatlangDetector(t *testing.T) {
	d := NewWhatlangDetector()

	if got := d.Detect("The college library remains open from nine in the morning until five in the evening."); got != "en" {
		t.Errorf("expected en, got %s", got)
	}
	if got := d.Detect("पुस्तकालय सुबह नौ बजे से शाम पांच बजे तक खुला रहता है।"); got != "hi" {
		t.Errorf("expected hi, got %s", got)
	}
	if got := d.Detect("12345 67890"); got != model.LanguageEnglish {
		t.Errorf("expected fallback en for digits, got %s", got)
	}
}

func TestNewDetector(t *testing.T) {
	if _, ok := NewDetector("script").(ScriptDetector); !ok {
		t.Error("expected script detector")
	}
	if _, ok := NewDetector("").(*WhatlangDetector); !ok {
		t.Error("expected whatlang detector by default")
	}
}

func TestChunkText(t *testing.T) {
	chunks := ChunkText("First sentence. Second sentence! Third?", 500)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(chunks), chunks)
	}
	if chunks[0] != "First sentence. Second sentence. Third." {
		t.Errorf("unexpected chunk %q", chunks[0])
	}

	chunks = ChunkText("First sentence. Second sentence! Third?", 20)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[1] != "Second sentence." {
		t.Errorf("unexpected second chunk %q", chunks[1])
	}
}

func TestChunkText_Empty(t *testing.T) {
	if chunks := ChunkText("  ...  ", 500); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %v", chunks)
	}
}

func TestChunkPages(t *testing.T) {
	pages := []model.Page{
		{Number: 1, Text: "Fees are due in July. Late fee applies after that."},
		{Number: 2, Text: ""},
		{Number: 3, Text: "Hostel opens in June."},
	}

	chunks := ChunkPages(pages, "notice.pdf", 500)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].PageNumber != 3 || chunks[1].ChunkIndex != 0 {
		t.Errorf("expected page 3 chunk 0, got page %d chunk %d", chunks[1].PageNumber, chunks[1].ChunkIndex)
	}
	if chunks[0].SourceFile != "notice.pdf" {
		t.Errorf("expected source notice.pdf, got %s", chunks[0].SourceFile)
	}
}
