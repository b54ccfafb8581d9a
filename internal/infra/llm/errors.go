package llm

import "strings"

// ErrorAction determines how to handle a failed inference call.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFatal
)

// ClassifyError determines the action for a given error. Auth and
// request-shape failures never heal on retry; rate limits, server
// errors, and network failures do.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionRetry // Should not happen
	}

	s := err.Error()
	sLower := strings.ToLower(s)

	// Fatal (key or request issues)
	if strings.Contains(s, "status 400") || strings.Contains(s, "status 401") ||
		strings.Contains(s, "status 403") || strings.Contains(s, "status 404") ||
		strings.Contains(sLower, "invalid_api_key") ||
		strings.Contains(sLower, "invalid api key") ||
		strings.Contains(sLower, "context_length_exceeded") ||
		strings.Contains(sLower, "model_not_found") {
		return ActionFatal
	}

	// Everything else (429, 5xx, timeouts, connection errors) retries
	return ActionRetry
}
