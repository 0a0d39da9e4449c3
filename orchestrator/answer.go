package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/llm"
	"github.com/voiceshop/assistant/schema"
)

// Synthesizer produces the final answer text from a merged pipeline state.
type Synthesizer interface {
	Synthesize(ctx context.Context, pc *schema.PipelineContext) (string, error)
}

const answerSystemPrompt = `You are a concise shopping assistant for a household products store.
Answer the user's query using only the provided product context. Mention
concrete product names and prices. Keep it to a few sentences.`

// LLMSynthesizer asks the generation service to write the answer from the
// ranked products and live web snippets, trimmed to a token budget.
type LLMSynthesizer struct {
	provider llm.Provider
	budget   int
	encoding *tiktoken.Tiktoken
}

func NewLLMSynthesizer(provider llm.Provider, cfg config.AnswerConfig) (*LLMSynthesizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("answer: load encoding: %w", err)
	}
	budget := cfg.ContextTokenBudget
	if budget <= 0 {
		budget = config.DefaultContextTokens
	}
	return &LLMSynthesizer{provider: provider, budget: budget, encoding: enc}, nil
}

func (s *LLMSynthesizer) Synthesize(ctx context.Context, pc *schema.PipelineContext) (string, error) {
	prompt := s.buildPrompt(pc)
	answer, err := s.provider.Complete(ctx, answerSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("answer: empty completion")
	}
	return answer, nil
}

// buildPrompt serializes products then web snippets, dropping whole entries
// once the token budget is spent. Products come first so the budget never
// starves the primary context in favor of snippets.
func (s *LLMSynthesizer) buildPrompt(pc *schema.PipelineContext) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(pc.Query)
	b.WriteString("\n\nProducts:\n")

	used := s.tokens(b.String())
	for i, p := range pc.Products {
		line := productLine(i+1, p)
		cost := s.tokens(line)
		if used+cost > s.budget {
			break
		}
		b.WriteString(line)
		used += cost
	}
	if len(pc.WebResults) > 0 {
		header := "\nWeb snippets:\n"
		used += s.tokens(header)
		wrote := false
		for _, w := range pc.WebResults {
			line := fmt.Sprintf("- %s: %s\n", w.Title, w.Snippet)
			cost := s.tokens(line)
			if used+cost > s.budget {
				break
			}
			if !wrote {
				b.WriteString(header)
				wrote = true
			}
			b.WriteString(line)
			used += cost
		}
	}
	return b.String()
}

func (s *LLMSynthesizer) tokens(text string) int {
	return len(s.encoding.Encode(text, nil, nil))
}

func productLine(n int, p schema.RankedProduct) string {
	price := "price unavailable"
	if p.Price != nil {
		price = fmt.Sprintf("$%.2f", *p.Price)
	}
	rating := ""
	if p.Rating != nil {
		rating = fmt.Sprintf(", rated %.1f", *p.Rating)
	}
	brand := ""
	if p.Brand != "" {
		brand = " by " + p.Brand
	}
	return fmt.Sprintf("%d. %s%s, %s%s\n", n, p.Title, brand, price, rating)
}

func greetingAnswer() string {
	return "Hi! I can help you find household cleaning and care products. What are you looking for?"
}

func outOfDomainAnswer() string {
	return "Sorry, I can only help with household cleaning and care products from our store."
}

func emptyResultAnswer(intent schema.Intent) string {
	if intent.Constraints.Budget != nil {
		return fmt.Sprintf("I couldn't find matching products under $%.2f. Try raising the budget or loosening the brand or category.", *intent.Constraints.Budget)
	}
	return "I couldn't find matching products for that. Try different wording or fewer constraints."
}

// templatedAnswer is the deterministic fallback when synthesis fails: a
// plain enumeration of the ranked products.
func templatedAnswer(pc *schema.PipelineContext) string {
	if len(pc.Products) == 0 {
		return emptyResultAnswer(pc.Intent)
	}
	var b strings.Builder
	b.WriteString("Here is what I found:\n")
	for i, p := range pc.Products {
		b.WriteString(productLine(i+1, p))
	}
	return strings.TrimRight(b.String(), "\n")
}
