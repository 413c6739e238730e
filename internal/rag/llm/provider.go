package llm

import "context"

// Provider is the generative completion service contract.
type Provider interface {
	Complete(ctx context.Context, systemPrompt string, userContent string, opts CompletionOptions) (string, error)
}

type CompletionOptions struct {
	Temperature *float32
	// Structured requests the provider's schema-constrained output mode. Nil means free text.
	Structured *StructuredOutput
}

func WithTemperature(t float32) *float32 { return &t }
