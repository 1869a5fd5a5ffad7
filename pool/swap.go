// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/amm/swapmath"
)

// Swap executes a swap against the pool's in-range liquidity, crossing
// as many initialized ticks as the specified amount requires. A
// positive AmountSpecified is an exact input, a negative one an exact
// output. The swap stops when the amount is satisfied or the price
// reaches SqrtPriceLimitX96, whichever comes first.
func (pm *PoolManager) Swap(key PoolKey, params SwapParams, hookData []byte) (BalanceDelta, error) {
	if err := pm.acquire(); err != nil {
		return ZeroBalanceDelta(), err
	}
	defer pm.release()

	if pm.paused {
		return ZeroBalanceDelta(), ErrPaused
	}

	p, id, err := pm.getPool(key)
	if err != nil {
		return ZeroBalanceDelta(), err
	}
	if err := p.validateSwapParams(params); err != nil {
		return ZeroBalanceDelta(), err
	}

	reg := pm.hookFor(id)
	if reg.enabled(HookBeforeSwap) {
		if err := reg.hook.BeforeSwap(key, params, hookData); err != nil {
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	j := newJournal(p)
	delta, err := p.swap(params, j)
	if err != nil {
		j.revert()
		return ZeroBalanceDelta(), err
	}

	if reg.enabled(HookAfterSwap) {
		if err := reg.hook.AfterSwap(key, params, delta, hookData); err != nil {
			j.revert()
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	pm.log.Debug("swap executed", "pool", id.Hex(), "zeroForOne", params.ZeroForOne,
		"amountSpecified", params.AmountSpecified, "amount0", delta.Amount0, "amount1", delta.Amount1,
		"tick", p.slot0.Tick)
	return delta, nil
}

func (p *Pool) validateSwapParams(params SwapParams) error {
	if params.AmountSpecified == nil || params.AmountSpecified.Sign() == 0 {
		return ErrZeroSwapAmount
	}
	limit := params.SqrtPriceLimitX96
	if limit == nil {
		return ErrInvalidPriceLimit
	}
	if params.ZeroForOne {
		if limit.Cmp(p.slot0.SqrtPriceX96) >= 0 || limit.Cmp(MinSqrtRatio) <= 0 {
			return ErrInvalidPriceLimit
		}
	} else {
		if limit.Cmp(p.slot0.SqrtPriceX96) <= 0 || limit.Cmp(MaxSqrtRatio) >= 0 {
			return ErrInvalidPriceLimit
		}
	}
	return nil
}

// swap runs the multi-tick crossing loop. Slot0 is committed after
// every step so the stored state stays consistent at each boundary the
// execution passes through.
func (p *Pool) swap(params SwapParams, j *journal) (BalanceDelta, error) {
	zeroForOne := params.ZeroForOne
	exactInput := params.AmountSpecified.Sign() > 0
	spacing := p.key.TickSpacing
	limit := params.SqrtPriceLimitX96

	amountRemaining := new(big.Int).Set(params.AmountSpecified)
	amountCalculated := new(big.Int)
	sqrtPrice := new(big.Int).Set(p.slot0.SqrtPriceX96)
	tick := p.slot0.Tick
	liquidity := new(big.Int).Set(p.liquidity)

	for amountRemaining.Sign() != 0 && sqrtPrice.Cmp(limit) != 0 {
		nextTick, initialized := p.bitmap.nextInitializedTick(tick, spacing, zeroForOne)

		tickPrice, err := swapmath.SqrtPriceAtTick(nextTick)
		if err != nil {
			return ZeroBalanceDelta(), err
		}
		target := tickPrice
		if zeroForOne && tickPrice.Cmp(limit) < 0 {
			target = limit
		} else if !zeroForOne && tickPrice.Cmp(limit) > 0 {
			target = limit
		}

		if liquidity.Sign() == 0 {
			if !initialized {
				// Nothing left to trade against in this direction.
				break
			}
			// Jump across the empty range without exchanging anything.
			sqrtPrice = new(big.Int).Set(target)
			if target.Cmp(tickPrice) == 0 {
				liquidity.Add(liquidity, p.crossTick(nextTick, zeroForOne, j))
				if liquidity.Sign() < 0 {
					return ZeroBalanceDelta(), ErrLiquidityUnderflow
				}
				if zeroForOne {
					tick = nextTick - 1
				} else {
					tick = nextTick
				}
			} else {
				tick, err = swapmath.TickAtSqrtPrice(sqrtPrice)
				if err != nil {
					return ZeroBalanceDelta(), err
				}
			}
			p.commitSwapState(sqrtPrice, tick, liquidity)
			continue
		}

		step, err := swapmath.ComputeSwapStep(sqrtPrice, target, liquidity, amountRemaining, p.slot0.LpFee)
		if err != nil {
			return ZeroBalanceDelta(), err
		}
		priceBefore := sqrtPrice
		sqrtPrice = step.SqrtPriceNextX96

		if exactInput {
			amountRemaining.Sub(amountRemaining, new(big.Int).Add(step.AmountIn, step.FeeAmount))
			amountCalculated.Sub(amountCalculated, step.AmountOut)
		} else {
			amountRemaining.Add(amountRemaining, step.AmountOut)
			amountCalculated.Add(amountCalculated, new(big.Int).Add(step.AmountIn, step.FeeAmount))
		}

		p.accrueSwapFees(step.FeeAmount, liquidity, zeroForOne)

		if sqrtPrice.Cmp(tickPrice) == 0 {
			if initialized {
				newLiquidity := new(big.Int).Add(liquidity, p.crossTick(nextTick, zeroForOne, j))
				if newLiquidity.Sign() < 0 {
					return ZeroBalanceDelta(), ErrLiquidityUnderflow
				}
				liquidity = newLiquidity
			}
			if zeroForOne {
				tick = nextTick - 1
			} else {
				tick = nextTick
			}
		} else if sqrtPrice.Cmp(priceBefore) != 0 {
			tick, err = swapmath.TickAtSqrtPrice(sqrtPrice)
			if err != nil {
				return ZeroBalanceDelta(), err
			}
		}

		p.commitSwapState(sqrtPrice, tick, liquidity)

		if !initialized && sqrtPrice.Cmp(priceBefore) == 0 {
			// Usable range edge reached with nothing left to cross.
			break
		}
	}

	amount0 := new(big.Int)
	amount1 := new(big.Int)
	if zeroForOne == exactInput {
		amount0.Sub(params.AmountSpecified, amountRemaining)
		amount1.Set(amountCalculated)
	} else {
		amount0.Set(amountCalculated)
		amount1.Sub(params.AmountSpecified, amountRemaining)
	}
	return BalanceDelta{Amount0: amount0, Amount1: amount1}, nil
}

// commitSwapState writes the step's results into Slot0 and the active
// liquidity.
func (p *Pool) commitSwapState(sqrtPrice *big.Int, tick int32, liquidity *big.Int) {
	p.slot0.SqrtPriceX96 = new(big.Int).Set(sqrtPrice)
	p.slot0.Tick = tick
	p.liquidity = new(big.Int).Set(liquidity)
}

// accrueSwapFees splits a step's fee between the protocol and the
// liquidity providers and accumulates the LP share into the input
// side's global fee growth.
func (p *Pool) accrueSwapFees(feeAmount, liquidity *big.Int, zeroForOne bool) {
	if feeAmount.Sign() <= 0 {
		return
	}
	lpShare := new(big.Int).Set(feeAmount)
	if p.slot0.ProtocolFee > 0 {
		protoShare := new(big.Int).Mul(feeAmount, big.NewInt(int64(p.slot0.ProtocolFee)))
		protoShare.Div(protoShare, big.NewInt(swapmath.FeePipsDenominator))
		lpShare.Sub(lpShare, protoShare)
		if zeroForOne {
			p.protocolFees0 = new(big.Int).Add(p.protocolFees0, protoShare)
		} else {
			p.protocolFees1 = new(big.Int).Add(p.protocolFees1, protoShare)
		}
	}
	if liquidity.Sign() > 0 && lpShare.Sign() > 0 {
		growth := new(big.Int).Lsh(lpShare, 128)
		growth.Div(growth, liquidity)
		if zeroForOne {
			p.feeGrowthGlobal0X128 = new(big.Int).Add(p.feeGrowthGlobal0X128, growth)
		} else {
			p.feeGrowthGlobal1X128 = new(big.Int).Add(p.feeGrowthGlobal1X128, growth)
		}
	}
}
