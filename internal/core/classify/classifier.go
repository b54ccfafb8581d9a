// Package classify maps raw transaction-failure text onto a fixed error
// taxonomy and fills partial failure reports into complete, display-ready
// contexts. Both operations are pure and safe for concurrent use; the
// only side effect is the normalizer's clock read, which is injectable.
package classify

import (
	"strings"

	"github.com/minhnx/txtriage/internal/core/domain"
)

// UnknownKey is the sentinel key returned when no catalog entry matches.
const UnknownKey = "UNKNOWN"

// UnknownCategory is the label paired with UnknownKey.
const UnknownCategory = "Unknown Error"

// Classify matches a failure report against the catalog and returns the
// first matching entry, or the unknown sentinel when nothing matches.
// Matching is case-insensitive substring containment over the
// concatenated error, revert reason, and message fields.
func Classify(report *domain.FailureReport) domain.ErrorCategory {
	var text string
	if report != nil {
		text = strings.ToLower(report.Error + " " + report.RevertReason + " " + report.Message)
	}

	for _, p := range Catalog {
		for _, frag := range p.Fragments {
			if strings.Contains(text, frag) {
				return domain.ErrorCategory{
					Key:      p.Key,
					Category: p.Category,
					Patterns: p.Fragments,
				}
			}
		}
	}

	return domain.ErrorCategory{
		Key:      UnknownKey,
		Category: UnknownCategory,
		Patterns: []string{},
	}
}
