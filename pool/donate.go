// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/big"

// Donate credits amount0 and amount1 directly to the in-range liquidity
// providers by folding the amounts into the global fee growth
// accumulators. The pool must have active liquidity to receive a
// donation, otherwise the donated value would be unattributable.
func (pm *PoolManager) Donate(key PoolKey, amount0, amount1 *big.Int, hookData []byte) (BalanceDelta, error) {
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
	if amount0 == nil {
		amount0 = new(big.Int)
	}
	if amount1 == nil {
		amount1 = new(big.Int)
	}
	if amount0.Sign() < 0 || amount1.Sign() < 0 {
		return ZeroBalanceDelta(), ErrNegativeDonation
	}
	if p.liquidity.Sign() <= 0 {
		return ZeroBalanceDelta(), ErrNoLiquidity
	}

	reg := pm.hookFor(id)
	if reg.enabled(HookBeforeDonate) {
		if err := reg.hook.BeforeDonate(key, amount0, amount1, hookData); err != nil {
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	j := newJournal(p)
	p.donate(amount0, amount1)
	delta := NewBalanceDelta(amount0, amount1)

	if reg.enabled(HookAfterDonate) {
		if err := reg.hook.AfterDonate(key, amount0, amount1, hookData); err != nil {
			j.revert()
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	pm.log.Debug("donation accrued", "pool", id.Hex(), "amount0", amount0, "amount1", amount1)
	return delta, nil
}

func (p *Pool) donate(amount0, amount1 *big.Int) {
	if amount0.Sign() > 0 {
		growth := new(big.Int).Lsh(amount0, 128)
		growth.Div(growth, p.liquidity)
		p.feeGrowthGlobal0X128 = new(big.Int).Add(p.feeGrowthGlobal0X128, growth)
	}
	if amount1.Sign() > 0 {
		growth := new(big.Int).Lsh(amount1, 128)
		growth.Div(growth, p.liquidity)
		p.feeGrowthGlobal1X128 = new(big.Int).Add(p.feeGrowthGlobal1X128, growth)
	}
}
