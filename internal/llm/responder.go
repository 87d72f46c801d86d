package llm

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// NoContextReply is the guidance given when no stored fact is relevant
const NoContextReply = "I could not find this in the uploaded campus documents. Please check with the college office or the official notice board."

var numberRe = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Reply is what the student sees
type Reply struct {
	Text       string               `json:"text"`
	Kind       model.LookupKind     `json:"kind"`
	Source     string               `json:"source,omitempty"`
	Confidence model.ConfidenceBand `json:"confidence,omitempty"`
	Generated  bool                 `json:"generated"` // Phrased by a provider rather than the template
}

// Responder turns lookup results into replies. It never fails: provider
// errors and ungrounded generations fall back to the template reply.
type Responder struct {
	provider Provider // nil means template replies only
	strict   bool
	logger   *slog.Logger
}

// NewResponder creates a responder; provider may be nil
func NewResponder(provider Provider, strict bool, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		provider: provider,
		strict:   strict,
		logger:   logger,
	}
}

// Reply answers query from the lookup result
func (r *Responder) Reply(ctx context.Context, query string, result model.LookupResult) Reply {
	if !result.IsFound() {
		return r.noContext(ctx, query)
	}

	fact := result.Best.Fact
	reply := Reply{
		Text:       TemplateReply(fact),
		Kind:       model.LookupFound,
		Source:     fact.SourceFile,
		Confidence: result.Best.Confidence,
	}
	if r.provider == nil {
		return reply
	}

	resp, err := r.provider.Generate(ctx, ReplyRequest{Query: query, Fact: &fact})
	if err != nil {
		r.logger.Warn("reply generation failed, using template", "provider", r.provider.Name(), "err", err)
		return reply
	}
	if r.strict {
		if ungrounded := UngroundedNumbers(resp.Text, fact.Question, fact.Answer, fact.SourceFile); len(ungrounded) > 0 {
			r.logger.Warn("generated reply quotes numbers absent from the fact, using template",
				"provider", r.provider.Name(), "numbers", ungrounded)
			return reply
		}
	}

	reply.Text = resp.Text
	reply.Generated = true
	return reply
}

func (r *Responder) noContext(ctx context.Context, query string) Reply {
	reply := Reply{Text: NoContextReply, Kind: model.LookupNoContext}
	if r.provider == nil {
		return reply
	}

	resp, err := r.provider.Generate(ctx, ReplyRequest{Query: query})
	if err != nil {
		r.logger.Warn("reply generation failed, using guidance", "provider", r.provider.Name(), "err", err)
		return reply
	}
	// Without a fact there is nothing a number could be grounded in
	if r.strict && len(UngroundedNumbers(resp.Text)) > 0 {
		r.logger.Warn("guidance reply quotes numbers, using default guidance", "provider", r.provider.Name())
		return reply
	}

	reply.Text = resp.Text
	reply.Generated = true
	return reply
}

// TemplateReply phrases a fact without a provider
func TemplateReply(fact model.Fact) string {
	source := fact.SourceFile
	if source == "" {
		source = "the campus documents"
	}
	return "According to " + source + ", " + strings.TrimSpace(fact.Answer)
}

// UngroundedNumbers returns the numbers in text that appear in none of the
// sources. "12,000" matches "12000" and "720.00" matches "720".
func UngroundedNumbers(text string, sources ...string) []string {
	allowed := make(map[string]bool)
	for _, s := range sources {
		for _, n := range numberRe.FindAllString(s, -1) {
			allowed[canonicalNumber(n)] = true
		}
	}

	var ungrounded []string
	seen := make(map[string]bool)
	for _, n := range numberRe.FindAllString(text, -1) {
		c := canonicalNumber(n)
		if allowed[c] || seen[c] {
			continue
		}
		seen[c] = true
		ungrounded = append(ungrounded, n)
	}
	return ungrounded
}

func canonicalNumber(n string) string {
	n = strings.ReplaceAll(n, ",", "")
	if strings.Contains(n, ".") {
		n = strings.TrimRight(n, "0")
		n = strings.TrimSuffix(n, ".")
	}
	return n
}
