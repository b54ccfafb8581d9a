package domain

// ErrorCategory is the outcome of matching a failure report against the
// pattern catalog.
type ErrorCategory struct {
	Key      string   `json:"key"`
	Category string   `json:"category"`
	Patterns []string `json:"patterns"`
}

// TxContext is the fully-defaulted, display-ready form of a failure
// report. Every field holds a concrete value; downstream consumers never
// need presence checks.
type TxContext struct {
	Hash              string            `json:"hash"`
	Network           string            `json:"network"`
	From              string            `json:"from"`
	To                string            `json:"to"`
	ContractName      string            `json:"contractName"`
	ContractAddress   string            `json:"contractAddress"`
	FunctionName      string            `json:"functionName"`
	Value             string            `json:"value"`
	GasLimit          string            `json:"gasLimit"`
	GasUsed           string            `json:"gasUsed"`
	GasPrice          string            `json:"gasPrice"`
	ErrorMessage      string            `json:"error"`
	RevertReason      string            `json:"revertReason"`
	InputData         string            `json:"inputData"`
	Timestamp         string            `json:"timestamp"`
	AdditionalContext map[string]string `json:"additionalContext"`
	ErrorCategory     ErrorCategory     `json:"errorCategory"`
}
