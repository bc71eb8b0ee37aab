package profile

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/types"
)

// LetterPolisher optionally refines a rendered cover letter for a specific
// job. Implementations must return the input unchanged on failure rather
// than an empty letter.
type LetterPolisher interface {
	Polish(ctx context.Context, letter string, job *types.JobListing) (string, error)
}

// GeminiPolisher rewrites a templated cover letter so it reads naturally
// against the job description.
type GeminiPolisher struct {
	client llm.Client
}

// NewGeminiPolisher wraps an LLM client as a LetterPolisher.
func NewGeminiPolisher(client llm.Client) *GeminiPolisher {
	return &GeminiPolisher{client: client}
}

// Polish asks the model to tighten the letter. Any failure returns the
// original letter so an LLM outage never blocks an application.
func (p *GeminiPolisher) Polish(ctx context.Context, letter string, job *types.JobListing) (string, error) {
	prompt := buildPolishPrompt(letter, job)

	out, err := p.client.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("[PROFILE] Cover letter polish failed, using template output: %v", err)
		return letter, nil
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return letter, nil
	}
	return out, nil
}

func buildPolishPrompt(letter string, job *types.JobListing) string {
	var b strings.Builder
	b.WriteString("Rewrite the following cover letter so it reads naturally and speaks to the job below. ")
	b.WriteString("Keep it under 250 words, keep all factual claims, and return only the letter text.\n\n")
	fmt.Fprintf(&b, "Job title: %s\nCompany: %s\n", job.Title, job.Company)
	if job.Description != "" {
		fmt.Fprintf(&b, "Job description:\n%s\n", job.Description)
	}
	b.WriteString("\nCover letter:\n")
	b.WriteString(letter)
	return b.String()
}
