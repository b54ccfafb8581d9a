package cli

import "github.com/minhnx/txtriage/internal/core/domain"

// Built-in failure samples for the analyze command's --demo flag.
var samples = map[string]*domain.FailureReport{
	"out-of-gas": {
		Hash:         "0x7f3c9a1e5d2b8f4a6c0e9d7b5a3f1c8e6d4b2a0f9e7c5d3b1a8f6e4c2d0b9a7f",
		Network:      "ethereum",
		From:         "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		To:           "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		ContractName: "UniswapV2Router02",
		FunctionName: "swapExactTokensForTokens",
		GasLimit:     "150000",
		GasUsed:      "150000",
		GasPrice:     "42 gwei",
		Error:        "out of gas",
		InputData:    "0x38ed1739",
		AdditionalContext: map[string]string{
			"note": "gas limit set manually, below estimate",
		},
	},
	"slippage": {
		Hash:         "0x2b8f4a6c0e9d7b5a3f1c8e6d4b2a0f9e7c5d3b1a8f6e4c2d0b9a7f7f3c9a1e5d",
		Network:      "ethereum",
		From:         "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		To:           "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
		ContractName: "UniswapV2Router02",
		FunctionName: "swapExactETHForTokens",
		Value:        "1.5 ETH",
		GasLimit:     "250000",
		GasUsed:      "38412",
		Error:        "execution reverted: UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT",
		RevertReason: "insufficient output amount",
	},
	"allowance": {
		Hash:         "0x9d7b5a3f1c8e6d4b2a0f9e7c5d3b1a8f6e4c2d0b9a7f7f3c9a1e5d2b8f4a6c0e",
		Network:      "polygon",
		From:         "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		To:           "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		ContractName: "USDC",
		FunctionName: "transferFrom",
		GasLimit:     "80000",
		GasUsed:      "31245",
		RevertReason: "ERC20: transfer amount exceeds allowance",
	},
	"unknown": {
		Hash:         "0x1c8e6d4b2a0f9e7c5d3b1a8f6e4c2d0b9a7f7f3c9a1e5d2b8f4a6c0e9d7b5a3f",
		Network:      "ethereum",
		From:         "0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		To:           "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9",
		ContractName: "LendingPool",
		FunctionName: "borrow",
		RevertReason: "VL_COLLATERAL_CANNOT_COVER_NEW_BORROW",
	},
}
