// Package diagnose drives the narrative diagnosis of a normalized
// failure context: a fixed three-step conversation with the inference
// API, fronted by an optional Redis cache.
package diagnose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhnx/txtriage/internal/core/domain"
	"github.com/minhnx/txtriage/internal/infra/llm"
	"github.com/minhnx/txtriage/internal/metrics"
)

// ChatClient is the inference API surface the diagnoser needs.
type ChatClient interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Cache stores diagnoses keyed by error text. Nil-safe: the diagnoser
// works without one.
type Cache interface {
	GetDiagnosis(ctx context.Context, errorText string) (*domain.Diagnosis, error)
	SetDiagnosis(ctx context.Context, errorText string, d *domain.Diagnosis) error
}

// Diagnoser produces narrative diagnoses for failure contexts.
type Diagnoser struct {
	client ChatClient
	cache  Cache
}

// NewDiagnoser creates a diagnoser. cache may be nil.
func NewDiagnoser(client ChatClient, cache Cache) *Diagnoser {
	return &Diagnoser{client: client, cache: cache}
}

// Diagnose runs the three-step conversation over the normalized context:
// technical analysis, root cause, remediation steps. Each turn carries
// the full prior history. Identical error text hits the cache instead.
func (d *Diagnoser) Diagnose(ctx context.Context, txCtx *domain.TxContext) (*domain.Diagnosis, error) {
	cacheKey := txCtx.ErrorMessage + "\n" + txCtx.RevertReason

	if d.cache != nil {
		cached, err := d.cache.GetDiagnosis(ctx, cacheKey)
		if err != nil {
			slog.Warn("Diagnosis cache lookup failed", "error", err)
		}
		if cached != nil {
			metrics.DiagnosisCacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.DiagnosisCacheHits.WithLabelValues("miss").Inc()
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: contextPrompt(txCtx)},
	}

	analysis, err := d.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("analysis step failed: %w", err)
	}

	messages = append(messages,
		llm.Message{Role: "assistant", Content: analysis},
		llm.Message{Role: "user", Content: rootCausePrompt},
	)
	rootCause, err := d.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("root cause step failed: %w", err)
	}

	messages = append(messages,
		llm.Message{Role: "assistant", Content: rootCause},
		llm.Message{Role: "user", Content: suggestionsPrompt},
	)
	suggestions, err := d.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("suggestions step failed: %w", err)
	}

	diagnosis := &domain.Diagnosis{
		Analysis:    analysis,
		RootCause:   rootCause,
		Suggestions: suggestions,
	}

	if d.cache != nil {
		if err := d.cache.SetDiagnosis(ctx, cacheKey, diagnosis); err != nil {
			slog.Warn("Failed to cache diagnosis", "error", err)
		}
	}

	return diagnosis, nil
}
