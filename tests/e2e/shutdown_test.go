package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/minhnx/txtriage/internal/control"
)

func TestGracefulShutdown(t *testing.T) {
	// Memory storage and no LLM key: starts without external services
	cfg := control.Config{
		Port: 18093,
	}

	triage, err := control.NewTriage(cfg)
	if err != nil {
		t.Fatalf("Failed to create triage: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := triage.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let the server come up
	time.Sleep(500 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := triage.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
