package domain

import "time"

// Diagnosis is the narrative produced by the inference model for a
// normalized failure context.
type Diagnosis struct {
	Analysis    string `json:"analysis"`
	RootCause   string `json:"rootCause"`
	Suggestions string `json:"suggestions"`
}

// TriageReport is a persisted analysis: the normalized context plus the
// optional model diagnosis.
type TriageReport struct {
	ID          string     `json:"id"`
	Context     TxContext  `json:"context"`
	CategoryKey string     `json:"categoryKey"`
	Diagnosis   *Diagnosis `json:"diagnosis,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
