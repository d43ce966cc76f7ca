package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Orchestrator obtains one completion, walking the provider registry in
// priority order with exponential backoff between attempts. It fails only
// after every provider, every attempt, and the secondary fallback are
// exhausted.
type Orchestrator interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// SecondaryCompleter is the single alternate backend invoked once when
// every primary provider is exhausted. It gets no retries.
type SecondaryCompleter interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type orchestrator struct {
	providers   []Provider
	client      CompletionClient
	secondary   SecondaryCompleter // nil when no secondary key is configured
	maxAttempts int
	baseDelay   time.Duration
	callTimeout time.Duration
	maxTokens   int
}

func NewOrchestrator(
	providers []Provider,
	client CompletionClient,
	secondary SecondaryCompleter,
	maxAttempts int,
	baseDelay time.Duration,
	callTimeout time.Duration,
	maxTokens int,
) Orchestrator {
	return &orchestrator{
		providers:   providers,
		client:      client,
		secondary:   secondary,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		callTimeout: callTimeout,
		maxTokens:   maxTokens,
	}
}

// Complete implements Orchestrator.
//
// One attempt is a full pass over the provider list. Rate-limited
// providers are skipped within the attempt without counting against the
// budget; unauthorized providers are dropped for the whole run. First
// success returns immediately, so no backoff sleep can follow a success.
func (o *orchestrator) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	req := CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   o.maxTokens,
		Temperature: temperature,
	}

	unauthorized := make(map[string]bool)
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		for _, provider := range o.providers {
			if !provider.Enabled() || unauthorized[provider.Name] {
				continue
			}

			callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
			result := o.client.Call(callCtx, provider, req)
			cancel()

			if result.Ok() {
				return result.Text, nil
			}

			switch result.Err.Kind {
			case ErrRateLimited:
				log.Printf("⚠️  Provider %s rate limited, moving to next provider\n", provider.Name)
			case ErrUnauthorized:
				log.Printf("⚠️  Provider %s rejected credentials, skipping for this run\n", provider.Name)
				unauthorized[provider.Name] = true
				lastErr = result.Err
			default:
				log.Printf("⚠️  Provider %s failed on attempt %d: %v\n", provider.Name, attempt, result.Err)
				lastErr = result.Err
			}
		}

		if attempt < o.maxAttempts {
			delay := o.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("completion cancelled during backoff: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	if o.secondary != nil {
		log.Println("🔁 All primary providers exhausted, trying secondary fallback")
		text, err := o.secondary.GenerateText(ctx, prompt, float32(temperature))
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no completion providers configured")
	}
	return "", fmt.Errorf("all completion providers exhausted: %w", lastErr)
}
