package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minhnx/txtriage/internal/core/classify"
	"github.com/minhnx/txtriage/internal/core/domain"
	"github.com/minhnx/txtriage/internal/diagnose"
	"github.com/minhnx/txtriage/internal/infra/llm"
)

var (
	demoName string
	skipLLM  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [report.json]",
	Short: "Classify and explain a single failure report",
	Long:  `Analyze reads a failure report from a JSON file (or a built-in demo sample), classifies it, and prints the triage result. With an inference API key configured it also prints the narrative diagnosis.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&demoName, "demo", "", "use a built-in sample: "+strings.Join(sampleNames(), ", "))
	analyzeCmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "classification only, no inference call")
	rootCmd.AddCommand(analyzeCmd)
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runAnalyze(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	setupLogging(cfg)

	report, err := resolveReport(args)
	if err != nil {
		slog.Error("Failed to load report", "error", err)
		os.Exit(1)
	}

	txCtx := classify.NewNormalizer().Normalize(report)
	printContext(&txCtx)

	if skipLLM || cfg.LLM.APIKey == "" {
		if cfg.LLM.APIKey == "" && !skipLLM {
			slog.Info("No inference API key configured, skipping diagnosis")
		}
		return
	}

	client := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Timeout:     cfg.LLM.Timeout,
		MaxAttempts: cfg.LLM.MaxAttempts,
		Temperature: cfg.LLM.Temperature,
	})
	diagnoser := diagnose.NewDiagnoser(client, nil)

	diagnosis, err := diagnoser.Diagnose(context.Background(), &txCtx)
	if err != nil {
		slog.Error("Diagnosis failed", "error", err)
		os.Exit(1)
	}
	printDiagnosis(diagnosis)
}

func resolveReport(args []string) (*domain.FailureReport, error) {
	if demoName != "" {
		sample, ok := samples[demoName]
		if !ok {
			return nil, fmt.Errorf("unknown demo sample %q (have: %s)", demoName, strings.Join(sampleNames(), ", "))
		}
		return sample, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a report file or --demo <name>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report domain.FailureReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	return &report, nil
}

func printContext(ctx *domain.TxContext) {
	fmt.Printf("Category:  %s (%s)\n", ctx.ErrorCategory.Category, ctx.ErrorCategory.Key)
	fmt.Printf("Hash:      %s\n", ctx.Hash)
	fmt.Printf("Network:   %s\n", ctx.Network)
	fmt.Printf("Contract:  %s (%s)\n", ctx.ContractName, ctx.ContractAddress)
	fmt.Printf("Function:  %s\n", ctx.FunctionName)
	fmt.Printf("Error:     %s\n", ctx.ErrorMessage)
	fmt.Printf("Revert:    %s\n", ctx.RevertReason)
	fmt.Printf("Gas:       limit=%s used=%s price=%s\n", ctx.GasLimit, ctx.GasUsed, ctx.GasPrice)
	fmt.Printf("Timestamp: %s\n", ctx.Timestamp)
}

func printDiagnosis(d *domain.Diagnosis) {
	fmt.Println("\n--- Analysis ---")
	fmt.Println(d.Analysis)
	fmt.Println("\n--- Root cause ---")
	fmt.Println(d.RootCause)
	fmt.Println("\n--- Suggestions ---")
	fmt.Println(d.Suggestions)
}
