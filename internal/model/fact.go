package model

// Fact is one question/answer pair extracted from a campus document
type Fact struct {
	ID         int64    `json:"id,omitempty"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Category   Category `json:"category"`
	Language   string   `json:"language"`              // ISO-639-1 code, "en" or "hi" in practice
	SourceFile string   `json:"source_file,omitempty"` // Base name of the uploaded document
	PageNumber *int     `json:"page_number,omitempty"`
	RunID      string   `json:"run_id,omitempty"` // Extraction run that produced the fact
}

// Category is the closed set of topics a fact can belong to
type Category string

const (
	CategoryFees        Category = "fees"
	CategoryScholarship Category = "scholarship"
	CategoryLibrary     Category = "library"
	CategoryHostel      Category = "hostel"
	CategoryAdmission   Category = "admission"
	CategoryAcademic    Category = "academic"
	CategoryPlacement   Category = "placement"
	CategoryGeneral     Category = "general"
)

// Language codes produced by the detectors
const (
	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// Chunk is a sentence-aligned slice of page text kept for future context retrieval
type Chunk struct {
	Content    string `json:"content"`
	SourceFile string `json:"source_file"`
	PageNumber int    `json:"page_number"`
	ChunkIndex int    `json:"chunk_index"`
	RunID      string `json:"run_id,omitempty"`
}

// Page is the text of one page (or sheet) of a document, numbered from 1
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}
