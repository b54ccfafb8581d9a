package diagnose

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minhnx/txtriage/internal/core/classify"
	"github.com/minhnx/txtriage/internal/core/domain"
	"github.com/minhnx/txtriage/internal/infra/llm"
)

// scriptedClient replays canned replies and records the conversations.
type scriptedClient struct {
	replies []string
	calls   [][]llm.Message
	failAt  int // 1-based call index to fail at, 0 = never
}

func (s *scriptedClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.calls = append(s.calls, append([]llm.Message(nil), messages...))
	if s.failAt > 0 && len(s.calls) == s.failAt {
		return "", errors.New("inference API error (status 500): boom")
	}
	reply := s.replies[len(s.calls)-1]
	return reply, nil
}

type mapCache struct {
	entries map[string]*domain.Diagnosis
	sets    int
}

func (m *mapCache) GetDiagnosis(ctx context.Context, errorText string) (*domain.Diagnosis, error) {
	return m.entries[errorText], nil
}

func (m *mapCache) SetDiagnosis(ctx context.Context, errorText string, d *domain.Diagnosis) error {
	m.entries[errorText] = d
	m.sets++
	return nil
}

func sampleContext() *domain.TxContext {
	n := classify.NewNormalizer()
	ctx := n.Normalize(&domain.FailureReport{
		Hash:  "0xabc",
		To:    "0xRouter",
		Error: "out of gas",
	})
	return &ctx
}

func TestDiagnose_ThreeSteps(t *testing.T) {
	client := &scriptedClient{replies: []string{"the analysis", "the root cause", "the fix"}}
	d := NewDiagnoser(client, nil)

	got, err := d.Diagnose(context.Background(), sampleContext())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}

	if got.Analysis != "the analysis" || got.RootCause != "the root cause" || got.Suggestions != "the fix" {
		t.Errorf("Unexpected diagnosis: %+v", got)
	}
	if len(client.calls) != 3 {
		t.Fatalf("Expected 3 sequential calls, got %d", len(client.calls))
	}

	// The conversation grows by two messages each step.
	if len(client.calls[0]) != 2 || len(client.calls[1]) != 4 || len(client.calls[2]) != 6 {
		t.Errorf("Unexpected history lengths: %d, %d, %d",
			len(client.calls[0]), len(client.calls[1]), len(client.calls[2]))
	}

	// Prior assistant replies are carried forward.
	if client.calls[1][2].Role != "assistant" || client.calls[1][2].Content != "the analysis" {
		t.Error("Expected first reply in second call history")
	}

	// The opening turn includes the normalized context fields.
	opening := client.calls[0][1].Content
	for _, want := range []string{"0xabc", "0xRouter", "out of gas", "Gas Error"} {
		if !strings.Contains(opening, want) {
			t.Errorf("Expected opening prompt to contain %q", want)
		}
	}
}

func TestDiagnose_StepFailureSurfaces(t *testing.T) {
	client := &scriptedClient{replies: []string{"the analysis", "", ""}, failAt: 2}
	d := NewDiagnoser(client, nil)

	_, err := d.Diagnose(context.Background(), sampleContext())
	if err == nil {
		t.Fatal("Expected error when a step fails")
	}
	if !strings.Contains(err.Error(), "root cause step") {
		t.Errorf("Expected root cause step error, got %v", err)
	}
}

func TestDiagnose_CacheHitSkipsClient(t *testing.T) {
	cached := &domain.Diagnosis{Analysis: "cached"}
	cache := &mapCache{entries: map[string]*domain.Diagnosis{
		"out of gas\n" + classify.PlaceholderNoRevert: cached,
	}}
	client := &scriptedClient{}
	d := NewDiagnoser(client, cache)

	got, err := d.Diagnose(context.Background(), sampleContext())
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if got != cached {
		t.Error("Expected the cached diagnosis")
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no client calls on cache hit, got %d", len(client.calls))
	}
}

func TestDiagnose_CacheMissStores(t *testing.T) {
	cache := &mapCache{entries: map[string]*domain.Diagnosis{}}
	client := &scriptedClient{replies: []string{"a", "b", "c"}}
	d := NewDiagnoser(client, cache)

	if _, err := d.Diagnose(context.Background(), sampleContext()); err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("Expected 1 cache store, got %d", cache.sets)
	}
}
