package extract

import (
	"log/slog"

	"github.com/ppiankov/campusfaq/internal/model"
)

// Strategy mines facts of one kind from document text
type Strategy interface {
	// Name returns the strategy name used in logs
	Name() string

	// Extract returns the facts found in text, in document order
	Extract(text string) []model.Fact
}

// Extractor runs the strategies in a fixed order and deduplicates their union
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewExtractor creates an extractor with the fee, table, Q/A and topic strategies
func NewExtractor(cfg model.ExtractConfig, detector Detector, logger *slog.Logger) *Extractor {
	if detector == nil {
		detector = NewDetector(cfg.LanguageDetector)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return NewExtractorWithStrategies(logger,
		NewFeeStrategy(),
		NewTableStrategy(),
		NewQAStrategy(detector, cfg.MaxAnswerLength),
		NewTopicStrategy(detector, cfg.MinParagraphLength, cfg.MaxParagraphLength, cfg.MaxAnswerLength),
	)
}

// NewExtractorWithStrategies creates an extractor running exactly the given strategies
func NewExtractorWithStrategies(logger *slog.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		strategies: strategies,
		logger:     logger,
	}
}

// Extract mines facts from raw document text.
// Earlier strategies win when two facts are near-duplicates.
func (e *Extractor) Extract(text string) []model.Fact {
	if collapseWhitespace(text) == "" {
		return nil
	}

	var all []model.Fact
	for _, s := range e.strategies {
		facts := s.Extract(text)
		e.logger.Debug("strategy finished", "strategy", s.Name(), "facts", len(facts))
		all = append(all, facts...)
	}

	unique := Dedup(all)
	if dropped := len(all) - len(unique); dropped > 0 {
		e.logger.Debug("dropped duplicate facts", "count", dropped)
	}
	return unique
}
