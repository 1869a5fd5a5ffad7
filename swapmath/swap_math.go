// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package swapmath

import "math/big"

// FeePipsDenominator expresses fees in hundredths of a basis point:
// a fee of 3000 pips is 0.30%.
const FeePipsDenominator = 1_000_000

var feeDenominator = big.NewInt(FeePipsDenominator)

// SwapStep is the result of moving the price over a single sub-range
// with constant liquidity.
type SwapStep struct {
	SqrtPriceNextX96 *big.Int // price after the step, never past the target
	AmountIn         *big.Int // input consumed, excluding the fee
	AmountOut        *big.Int // output produced
	FeeAmount        *big.Int // fee taken from the input side
}

// ComputeSwapStep computes how far the price can move toward
// sqrtPriceTargetX96 given the active liquidity and the remaining
// amount, together with the amounts exchanged and the fee.
//
// amountRemaining >= 0 is treated as the remaining exact input
// (inclusive of fees), amountRemaining < 0 as the remaining exact
// output. Whether the swap is zero-for-one follows from the ordering of
// the current and target prices. Zero liquidity yields zero amounts and
// no price movement; jumping across empty ranges is the caller's job.
func ComputeSwapStep(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, amountRemaining *big.Int, feePips uint32) (SwapStep, error) {
	step := SwapStep{
		SqrtPriceNextX96: new(big.Int).Set(sqrtPriceCurrentX96),
		AmountIn:         new(big.Int),
		AmountOut:        new(big.Int),
		FeeAmount:        new(big.Int),
	}
	if liquidity.Sign() == 0 {
		return step, nil
	}

	zeroForOne := sqrtPriceCurrentX96.Cmp(sqrtPriceTargetX96) >= 0
	exactIn := amountRemaining.Sign() >= 0
	var err error

	if exactIn {
		feeFactor := new(big.Int).Sub(feeDenominator, big.NewInt(int64(feePips)))
		amountRemainingLessFee := mulDiv(amountRemaining, feeFactor, feeDenominator)

		if zeroForOne {
			step.AmountIn, err = GetAmount0Delta(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, true)
		} else {
			step.AmountIn = GetAmount1Delta(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, true)
		}
		if err != nil {
			return SwapStep{}, err
		}

		if amountRemainingLessFee.Cmp(step.AmountIn) >= 0 {
			step.SqrtPriceNextX96.Set(sqrtPriceTargetX96)
		} else {
			step.SqrtPriceNextX96, err = GetNextSqrtPriceFromInput(sqrtPriceCurrentX96, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		amountRemainingAbs := new(big.Int).Neg(amountRemaining)

		if zeroForOne {
			step.AmountOut = GetAmount1Delta(sqrtPriceTargetX96, sqrtPriceCurrentX96, liquidity, false)
		} else {
			step.AmountOut, err = GetAmount0Delta(sqrtPriceCurrentX96, sqrtPriceTargetX96, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}

		if amountRemainingAbs.Cmp(step.AmountOut) >= 0 {
			step.SqrtPriceNextX96.Set(sqrtPriceTargetX96)
		} else {
			step.SqrtPriceNextX96, err = GetNextSqrtPriceFromOutput(sqrtPriceCurrentX96, liquidity, amountRemainingAbs, zeroForOne)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	reachedTarget := sqrtPriceTargetX96.Cmp(step.SqrtPriceNextX96) == 0

	// Recompute the amounts for the price actually reached.
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.AmountIn, err = GetAmount0Delta(step.SqrtPriceNextX96, sqrtPriceCurrentX96, liquidity, true)
			if err != nil {
				return SwapStep{}, err
			}
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut = GetAmount1Delta(step.SqrtPriceNextX96, sqrtPriceCurrentX96, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.AmountIn = GetAmount1Delta(sqrtPriceCurrentX96, step.SqrtPriceNextX96, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut, err = GetAmount0Delta(sqrtPriceCurrentX96, step.SqrtPriceNextX96, liquidity, false)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	if !exactIn {
		amountRemainingAbs := new(big.Int).Neg(amountRemaining)
		if step.AmountOut.Cmp(amountRemainingAbs) > 0 {
			step.AmountOut.Set(amountRemainingAbs)
		}
	}

	if exactIn && !reachedTarget {
		// Target not reached, so the whole remainder is spent; the fee
		// is whatever the rounded-down amountIn left over.
		step.FeeAmount = new(big.Int).Sub(amountRemaining, step.AmountIn)
	} else {
		feeFactor := new(big.Int).Sub(feeDenominator, big.NewInt(int64(feePips)))
		step.FeeAmount = mulDivRoundingUp(step.AmountIn, big.NewInt(int64(feePips)), feeFactor)
	}

	return step, nil
}
