// Package llm phrases replies to student questions. A provider is optional:
// without one, replies are built from the stored fact with a fixed template.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/campusfaq/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate phrases a reply to the request's query
	Generate(ctx context.Context, req ReplyRequest) (*ReplyResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReplyRequest contains the input for reply generation
type ReplyRequest struct {
	// Query is the student's question as typed
	Query string

	// Fact is the single best stored fact, nil when the lookup found nothing.
	// It is the only knowledge the provider is given.
	Fact *model.Fact

	// Prompt overrides the default prompt when set
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReplyResponse contains the generated reply
type ReplyResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL for custom endpoints (Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Strict rejects generated replies quoting numbers absent from the fact
	Strict bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		Strict:    true,
		MaxTokens: 300,
	}
}

const systemPrompt = "You answer college students' questions about their campus using only the notice excerpt you are given. Reply in one or two short sentences, in the language of the question."

// BuildPrompt constructs the default prompt. The fact is the only knowledge
// handed to the model; without one the model may only give general guidance.
func BuildPrompt(query string, fact *model.Fact) string {
	var b strings.Builder

	if fact == nil {
		fmt.Fprintf(&b, `A student asked: %q

No campus document answers this question.

RULES:
1. Do not state any fee, date, amount or other number.
2. Say that the uploaded documents do not cover this and suggest asking the college office.
`, query)
		return b.String()
	}

	source := fact.SourceFile
	if source == "" {
		source = "campus documents"
	}
	fmt.Fprintf(&b, `A student asked: %q

Notice excerpt (from %s):
Q: %s
A: %s

RULES:
1. Answer ONLY from the excerpt above.
2. Copy every amount, date and number exactly as written in the excerpt.
3. Do not add numbers, deadlines or contacts that are not in the excerpt.
4. Mention the source document name.
`, query, source, fact.Question, fact.Answer)
	return b.String()
}
