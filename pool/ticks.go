// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/big"

// updateTick applies a liquidity delta to one boundary of a range.
// Lower boundaries add the delta to LiquidityNet, upper boundaries
// subtract it. Returns whether the tick toggled between initialized and
// uninitialized, which tells the caller to flip the bitmap bit.
func (p *Pool) updateTick(tick int32, liquidityDelta *big.Int, upper bool, j *journal) (bool, error) {
	info, ok := p.ticks[tick]
	if !ok {
		if liquidityDelta.Sign() <= 0 {
			return false, ErrLiquidityUnderflow
		}
		if len(p.ticks) >= p.maxTicks {
			return false, ErrTooManyTicks
		}
		j.touchTick(tick)
		info = newTickInfo()
		// Ticks initialized at or below the current price start with
		// the running fee growth as their outside value, so growth
		// inside a range stays consistent with crossings.
		if tick <= p.slot0.Tick {
			info.FeeGrowthOutside0X128.Set(p.feeGrowthGlobal0X128)
			info.FeeGrowthOutside1X128.Set(p.feeGrowthGlobal1X128)
		}
		p.ticks[tick] = info
	} else {
		j.touchTick(tick)
	}

	grossBefore := info.LiquidityGross
	grossAfter := new(big.Int).Add(grossBefore, liquidityDelta)
	if grossAfter.Sign() < 0 {
		return false, ErrLiquidityUnderflow
	}

	flipped := (grossAfter.Sign() == 0) != (grossBefore.Sign() == 0)

	info.LiquidityGross = grossAfter
	if upper {
		info.LiquidityNet = new(big.Int).Sub(info.LiquidityNet, liquidityDelta)
	} else {
		info.LiquidityNet = new(big.Int).Add(info.LiquidityNet, liquidityDelta)
	}
	info.Initialized = grossAfter.Sign() > 0

	if grossAfter.Sign() == 0 {
		delete(p.ticks, tick)
	}

	return flipped, nil
}

// crossTick transitions the tick's fee growth to the other side of the
// current price and returns the signed adjustment to apply to the
// pool's active liquidity: LiquidityNet when crossing upward, its
// negation when crossing downward.
func (p *Pool) crossTick(tick int32, zeroForOne bool, j *journal) *big.Int {
	info, ok := p.ticks[tick]
	if !ok {
		return big.NewInt(0)
	}
	j.touchTick(tick)

	info.FeeGrowthOutside0X128 = new(big.Int).Sub(p.feeGrowthGlobal0X128, info.FeeGrowthOutside0X128)
	info.FeeGrowthOutside1X128 = new(big.Int).Sub(p.feeGrowthGlobal1X128, info.FeeGrowthOutside1X128)

	if zeroForOne {
		return new(big.Int).Neg(info.LiquidityNet)
	}
	return new(big.Int).Set(info.LiquidityNet)
}

// flipTickBit toggles a tick's bitmap bit, journaling the prior word.
func (p *Pool) flipTickBit(tick int32, j *journal) {
	wp := wordPos(compressTick(tick, p.key.TickSpacing))
	j.touchWord(wp)
	p.bitmap.flipTick(tick, p.key.TickSpacing)
}
