package domain

import (
	"encoding/json"
	"fmt"
)

// FailureReport is the raw, caller-supplied description of a failed
// transaction attempt. Every field is optional; only the error-bearing
// fields matter for classification and the rest default during
// normalization.
type FailureReport struct {
	Hash              string            `json:"hash,omitempty"`
	Network           string            `json:"network,omitempty"`
	From              string            `json:"from,omitempty"`
	To                string            `json:"to,omitempty"`
	ContractName      string            `json:"contractName,omitempty"`
	ContractAddress   string            `json:"contractAddress,omitempty"`
	FunctionName      string            `json:"functionName,omitempty"`
	Value             string            `json:"value,omitempty"`
	GasLimit          string            `json:"gasLimit,omitempty"`
	GasUsed           string            `json:"gasUsed,omitempty"`
	GasPrice          string            `json:"gasPrice,omitempty"`
	Error             string            `json:"error,omitempty"`
	RevertReason      string            `json:"revertReason,omitempty"`
	Message           string            `json:"message,omitempty"`
	InputData         string            `json:"inputData,omitempty"`
	Timestamp         string            `json:"timestamp,omitempty"`
	AdditionalContext map[string]string `json:"additionalContext,omitempty"`
}

// UnmarshalJSON decodes a report from an arbitrary object-shaped body.
// Fields carrying a non-string value are treated as absent instead of
// failing the decode, so classification stays total over any input.
func (r *FailureReport) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failure report must be a JSON object: %w", err)
	}

	str := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	}

	r.Hash = str("hash")
	r.Network = str("network")
	r.From = str("from")
	r.To = str("to")
	r.ContractName = str("contractName")
	r.ContractAddress = str("contractAddress")
	r.FunctionName = str("functionName")
	r.Value = str("value")
	r.GasLimit = str("gasLimit")
	r.GasUsed = str("gasUsed")
	r.GasPrice = str("gasPrice")
	r.Error = str("error")
	r.RevertReason = str("revertReason")
	r.Message = str("message")
	r.InputData = str("inputData")
	r.Timestamp = str("timestamp")

	if v, ok := raw["additionalContext"]; ok {
		var m map[string]any
		if err := json.Unmarshal(v, &m); err == nil {
			ctx := make(map[string]string, len(m))
			for k, val := range m {
				switch s := val.(type) {
				case string:
					ctx[k] = s
				case nil:
					// skip
				default:
					ctx[k] = fmt.Sprint(val)
				}
			}
			r.AdditionalContext = ctx
		}
	}

	return nil
}
