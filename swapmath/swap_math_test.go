// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package swapmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSwapStepExactInReachesTarget(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceFour := new(big.Int).Lsh(priceOne, 1)

	// With no fee and ample input, the step stops exactly at the target:
	// amountIn = L * (sqrtB - sqrtA) / Q96 = 1e18 and
	// amountOut = L / 2 (price 1 -> 4 halves the token0 reserve).
	remaining := new(big.Int).Lsh(oneE18, 1)
	step, err := ComputeSwapStep(priceOne, priceFour, oneE18, remaining, 0)
	require.NoError(t, err)
	require.Zero(t, step.SqrtPriceNextX96.Cmp(priceFour))
	require.Zero(t, step.AmountIn.Cmp(oneE18))
	require.Zero(t, step.AmountOut.Cmp(big.NewInt(500_000_000_000_000_000)))
	require.Zero(t, step.FeeAmount.Sign())
}

func TestComputeSwapStepExactInPartial(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceFour := new(big.Int).Lsh(priceOne, 1)

	// Input too small to reach the target: the full remaining amount is
	// consumed, split between amountIn and the fee.
	remaining := big.NewInt(1_000_000_000)
	step, err := ComputeSwapStep(priceOne, priceFour, oneE18, remaining, 3000)
	require.NoError(t, err)
	require.Negative(t, step.SqrtPriceNextX96.Cmp(priceFour))
	require.Positive(t, step.SqrtPriceNextX96.Cmp(priceOne))

	consumed := new(big.Int).Add(step.AmountIn, step.FeeAmount)
	require.Zero(t, consumed.Cmp(remaining))
}

func TestComputeSwapStepExactInFeeOnCappedStep(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceFour := new(big.Int).Lsh(priceOne, 1)

	// Target reached with input to spare: fee is taken on the amount
	// actually swapped, fee = ceil(amountIn * pips / (1e6 - pips)).
	remaining := new(big.Int).Lsh(oneE18, 2)
	step, err := ComputeSwapStep(priceOne, priceFour, oneE18, remaining, 3000)
	require.NoError(t, err)
	require.Zero(t, step.SqrtPriceNextX96.Cmp(priceFour))

	wantFee := new(big.Int).Mul(step.AmountIn, big.NewInt(3000))
	wantFee = divRoundingUp(wantFee, big.NewInt(FeePipsDenominator-3000))
	require.Zero(t, step.FeeAmount.Cmp(wantFee))
}

func TestComputeSwapStepExactOut(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceFour := new(big.Int).Lsh(priceOne, 1)

	t.Run("partial output", func(t *testing.T) {
		remaining := big.NewInt(-1_000_000_000)
		step, err := ComputeSwapStep(priceOne, priceFour, oneE18, remaining, 3000)
		require.NoError(t, err)
		// Rounding may deliver marginally less than requested, never more.
		require.True(t, step.AmountOut.Cmp(big.NewInt(1_000_000_000)) <= 0)
		require.Positive(t, step.AmountOut.Sign())
		require.Positive(t, step.AmountIn.Sign())
		require.Positive(t, step.FeeAmount.Sign())
	})

	t.Run("output capped at target", func(t *testing.T) {
		remaining := new(big.Int).Neg(new(big.Int).Lsh(oneE18, 1))
		step, err := ComputeSwapStep(priceOne, priceFour, oneE18, remaining, 3000)
		require.NoError(t, err)
		require.Zero(t, step.SqrtPriceNextX96.Cmp(priceFour))
		require.True(t, step.AmountOut.Cmp(new(big.Int).Neg(remaining)) <= 0)
	})
}

func TestComputeSwapStepZeroLiquidity(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceFour := new(big.Int).Lsh(priceOne, 1)

	step, err := ComputeSwapStep(priceOne, priceFour, big.NewInt(0), oneE18, 3000)
	require.NoError(t, err)
	require.Zero(t, step.AmountIn.Sign())
	require.Zero(t, step.AmountOut.Sign())
	require.Zero(t, step.FeeAmount.Sign())
	require.Zero(t, step.SqrtPriceNextX96.Cmp(priceOne))
}

func TestComputeSwapStepDirections(t *testing.T) {
	priceOne := mustBig(t, "79228162514264337593543950336")
	priceHalf := new(big.Int).Rsh(priceOne, 1)

	// Price decreasing: token0 in, token1 out.
	step, err := ComputeSwapStep(priceOne, priceHalf, oneE18, oneE18, 3000)
	require.NoError(t, err)
	require.True(t, step.SqrtPriceNextX96.Cmp(priceOne) < 0)
	require.Positive(t, step.AmountIn.Sign())
	require.Positive(t, step.AmountOut.Sign())
}
