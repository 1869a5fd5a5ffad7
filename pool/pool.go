// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"
	"sort"
)

// Pool holds the full state of a single pool: Slot0, the active
// liquidity, the fee growth accumulators, and the sparse tick map with
// its bitmap index. A Pool is exclusively owned by the operation
// currently executing on it; the manager serializes access.
type Pool struct {
	key   PoolKey
	slot0 Slot0

	// liquidity is the active liquidity at the current tick: the sum of
	// LiquidityNet over all initialized ticks at or below slot0.Tick.
	// Maintained incrementally on range changes and tick crossings.
	liquidity *big.Int

	feeGrowthGlobal0X128 *big.Int
	feeGrowthGlobal1X128 *big.Int
	protocolFees0        *big.Int
	protocolFees1        *big.Int

	ticks    map[int32]*TickInfo
	bitmap   *tickBitmap
	maxTicks int
}

func newPool(key PoolKey, sqrtPriceX96 *big.Int, tick int32, maxTicks int) *Pool {
	return &Pool{
		key: key,
		slot0: Slot0{
			SqrtPriceX96: new(big.Int).Set(sqrtPriceX96),
			Tick:         tick,
			ProtocolFee:  0,
			LpFee:        key.Fee,
		},
		liquidity:            big.NewInt(0),
		feeGrowthGlobal0X128: big.NewInt(0),
		feeGrowthGlobal1X128: big.NewInt(0),
		protocolFees0:        big.NewInt(0),
		protocolFees1:        big.NewInt(0),
		ticks:                make(map[int32]*TickInfo),
		bitmap:               newTickBitmap(),
		maxTicks:             maxTicks,
	}
}

// slot0Copy returns a defensive copy for the view surface.
func (p *Pool) slot0Copy() Slot0 {
	return Slot0{
		SqrtPriceX96: new(big.Int).Set(p.slot0.SqrtPriceX96),
		Tick:         p.slot0.Tick,
		ProtocolFee:  p.slot0.ProtocolFee,
		LpFee:        p.slot0.LpFee,
	}
}

// initializedTicks returns the initialized tick indices in ascending
// order. View only; the swap loop uses the bitmap instead.
func (p *Pool) initializedTicks() []int32 {
	out := make([]int32, 0, len(p.ticks))
	for tick := range p.ticks {
		out = append(out, tick)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
