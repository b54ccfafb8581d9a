package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minhnx/txtriage/internal/core/domain"
)

const systemPrompt = `You are a blockchain transaction failure analyst. You are given the ` +
	`full context of a failed transaction, already classified against a known error ` +
	`taxonomy. Answer precisely and concisely, in plain prose without markdown.`

// contextPrompt renders the normalized context into the opening user turn.
// Every field is always present, so the template needs no conditionals.
func contextPrompt(ctx *domain.TxContext) string {
	var b strings.Builder
	b.WriteString("A transaction failed with the following context:\n\n")
	fmt.Fprintf(&b, "Hash: %s\n", ctx.Hash)
	fmt.Fprintf(&b, "Network: %s\n", ctx.Network)
	fmt.Fprintf(&b, "From: %s\n", ctx.From)
	fmt.Fprintf(&b, "To: %s\n", ctx.To)
	fmt.Fprintf(&b, "Contract: %s (%s)\n", ctx.ContractName, ctx.ContractAddress)
	fmt.Fprintf(&b, "Function: %s\n", ctx.FunctionName)
	fmt.Fprintf(&b, "Value: %s\n", ctx.Value)
	fmt.Fprintf(&b, "Gas: limit=%s used=%s price=%s\n", ctx.GasLimit, ctx.GasUsed, ctx.GasPrice)
	fmt.Fprintf(&b, "Error: %s\n", ctx.ErrorMessage)
	fmt.Fprintf(&b, "Revert reason: %s\n", ctx.RevertReason)
	fmt.Fprintf(&b, "Input data: %s\n", ctx.InputData)
	fmt.Fprintf(&b, "Timestamp: %s\n", ctx.Timestamp)
	fmt.Fprintf(&b, "Classified as: %s (%s)\n", ctx.ErrorCategory.Category, ctx.ErrorCategory.Key)

	if len(ctx.AdditionalContext) > 0 {
		b.WriteString("Additional context:\n")
		keys := make([]string, 0, len(ctx.AdditionalContext))
		for k := range ctx.AdditionalContext {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, ctx.AdditionalContext[k])
		}
	}

	b.WriteString("\nGive a technical analysis of what happened during execution.")
	return b.String()
}

const rootCausePrompt = `Based on that analysis, what is the single most likely root cause? ` +
	`Explain it in plain language for a developer who did not write this contract.`

const suggestionsPrompt = `List the concrete steps the sender should take to make this ` +
	`transaction succeed, most effective first.`
