package classify

// Pattern is one recognizable failure class: a stable key, a display
// label, and the lowercase substrings that identify it.
type Pattern struct {
	Key       string
	Category  string
	Fragments []string
}

// Catalog is the ordered match table. Order is the match priority:
// the first entry with any fragment present in the search text wins.
// Defined once, never mutated.
var Catalog = []Pattern{
	{
		Key:      "OUT_OF_GAS",
		Category: "Gas Error",
		Fragments: []string{
			"out of gas",
			"gas required exceeds allowance",
			"intrinsic gas too low",
		},
	},
	{
		Key:      "REVERT_NO_REASON",
		Category: "Execution Revert",
		Fragments: []string{
			"execution reverted",
			"transaction reverted",
		},
	},
	{
		Key:      "SLIPPAGE",
		Category: "Slippage Error",
		Fragments: []string{
			"insufficient output amount",
			"excessive input amount",
			"uniswapv2: k",
			"slippage",
		},
	},
	{
		Key:      "ALLOWANCE",
		Category: "Allowance Error",
		Fragments: []string{
			"allowance",
			"transfer amount exceeds allowance",
			"erc20: insufficient allowance",
		},
	},
	{
		Key:      "BALANCE",
		Category: "Balance Error",
		Fragments: []string{
			"insufficient balance",
			"transfer amount exceeds balance",
			"erc20: transfer amount exceeds balance",
		},
	},
	{
		Key:      "DEADLINE",
		Category: "Deadline Error",
		Fragments: []string{
			"transaction too old",
			"expired",
			"deadline",
		},
	},
	{
		Key:      "REENTRANCY",
		Category: "Reentrancy Guard",
		Fragments: []string{
			"reentrant call",
			"reentrancy guard",
		},
	},
	{
		Key:      "OWNERSHIP",
		Category: "Access Control Error",
		Fragments: []string{
			"ownable: caller is not the owner",
			"not authorized",
			"access denied",
			"onlyowner",
		},
	},
	{
		Key:      "PAUSED",
		Category: "Contract Paused",
		Fragments: []string{
			"paused",
			"contract is paused",
			"pausable: paused",
		},
	},
	{
		Key:      "NONCE",
		Category: "Nonce Error",
		Fragments: []string{
			"nonce too low",
			"nonce too high",
			"replacement transaction underpriced",
		},
	},
}
