package classify

import (
	"time"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// Placeholder values for absent report fields.
const (
	PlaceholderNA       = "N/A"
	PlaceholderContract = "Unknown Contract"
	PlaceholderFunction = "Unknown Function"
	PlaceholderNoError  = "No error message"
	PlaceholderNoRevert = "No revert reason"
)

// Normalizer turns partial failure reports into fully-populated contexts.
// The clock is injectable so tests can pin the timestamp default.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a normalizer using the system clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock returns a normalizer using the given clock.
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize builds a complete TxContext from a partial report. Every
// canonical field resolves to a concrete value; absent fields take the
// documented placeholders. The contract address falls back to the
// recipient address before "N/A". The input is never mutated.
func (n *Normalizer) Normalize(report *domain.FailureReport) domain.TxContext {
	if report == nil {
		report = &domain.FailureReport{}
	}

	contractAddr := report.ContractAddress
	if contractAddr == "" {
		contractAddr = report.To
	}

	ts := report.Timestamp
	if ts == "" {
		ts = n.now().Format(time.RFC3339)
	}

	// Copy so the normalized context never aliases caller-owned state.
	extra := make(map[string]string, len(report.AdditionalContext))
	for k, v := range report.AdditionalContext {
		extra[k] = v
	}

	return domain.TxContext{
		Hash:              orNA(report.Hash),
		Network:           orNA(report.Network),
		From:              orNA(report.From),
		To:                orNA(report.To),
		ContractName:      orDefault(report.ContractName, PlaceholderContract),
		ContractAddress:   orNA(contractAddr),
		FunctionName:      orDefault(report.FunctionName, PlaceholderFunction),
		Value:             orNA(report.Value),
		GasLimit:          orNA(report.GasLimit),
		GasUsed:           orNA(report.GasUsed),
		GasPrice:          orNA(report.GasPrice),
		ErrorMessage:      orDefault(report.Error, PlaceholderNoError),
		RevertReason:      orDefault(report.RevertReason, PlaceholderNoRevert),
		InputData:         orNA(report.InputData),
		Timestamp:         ts,
		AdditionalContext: extra,
		ErrorCategory:     Classify(report),
	}
}

func orNA(s string) string {
	return orDefault(s, PlaceholderNA)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
