package model

import "time"

// IngestResult summarizes the processing of a single document
type IngestResult struct {
	Source     string           `json:"source"`      // Path or URL the document came from
	SourceFile string           `json:"source_file"` // Name stamped on stored facts
	RunID      string           `json:"run_id"`
	Adapter    string           `json:"adapter"`    // Page text extractor that read the document
	Pages      int              `json:"pages"`      // Pages (or sheets) read
	Characters int              `json:"characters"` // Length of the extracted full text
	Facts      int              `json:"facts"`      // Facts stored after deduplication
	Chunks     int              `json:"chunks"`
	Categories map[Category]int `json:"categories,omitempty"`
	Samples    []Fact           `json:"samples,omitempty"` // First few stored facts, for display
	Duration   time.Duration    `json:"duration"`
}

// DocumentResult is the per-document outcome inside a batch
type DocumentResult struct {
	Index  int           `json:"index"` // Position in the input list
	Source string        `json:"source"`
	Result *IngestResult `json:"result,omitempty"`
	Err    error         `json:"-"`
	Reason string        `json:"reason,omitempty"` // Err rendered for reports
}

// Succeeded reports whether the document was stored
func (d DocumentResult) Succeeded() bool {
	return d.Err == nil && d.Result != nil
}

// BatchSummary aggregates a batch ingestion run
type BatchSummary struct {
	Total        int              `json:"total"`
	Succeeded    int              `json:"succeeded"`
	Failed       int              `json:"failed"`
	FactsStored  int              `json:"facts_stored"`
	ChunksStored int              `json:"chunks_stored"`
	Results      []DocumentResult `json:"results"` // Ordered like the input list
	Duration     time.Duration    `json:"duration"`
}

// Stats describes the contents of the fact store
type Stats struct {
	TotalFacts  int              `json:"total_facts"`
	TotalChunks int              `json:"total_chunks"`
	Categories  map[Category]int `json:"categories"`
	Languages   map[string]int   `json:"languages"`
	Sources     int              `json:"sources"` // Distinct source files
}
