// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"

	"github.com/luxfi/amm/swapmath"
)

// ModifyLiquidity applies a signed liquidity delta to a tick range and
// returns the token amounts implied at the current price. Positive
// amounts are owed to the pool, negative amounts to the caller. The
// range is half-open: a position is active at its lower tick and
// inactive exactly at its upper tick.
func (pm *PoolManager) ModifyLiquidity(key PoolKey, params ModifyLiquidityParams, hookData []byte) (BalanceDelta, error) {
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
	if err := validateRange(key, params); err != nil {
		return ZeroBalanceDelta(), err
	}

	reg := pm.hookFor(id)
	if reg.enabled(HookBeforeModifyLiquidity) {
		if err := reg.hook.BeforeModifyLiquidity(key, params, hookData); err != nil {
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	j := newJournal(p)
	delta, err := p.modifyLiquidity(params, j)
	if err != nil {
		j.revert()
		return ZeroBalanceDelta(), err
	}

	if reg.enabled(HookAfterModifyLiquidity) {
		if err := reg.hook.AfterModifyLiquidity(key, params, delta, hookData); err != nil {
			j.revert()
			return ZeroBalanceDelta(), hookRejected(err)
		}
	}

	pm.log.Debug("liquidity modified", "pool", id.Hex(),
		"tickLower", params.TickLower, "tickUpper", params.TickUpper,
		"liquidityDelta", params.LiquidityDelta, "amount0", delta.Amount0, "amount1", delta.Amount1)
	return delta, nil
}

func validateRange(key PoolKey, params ModifyLiquidityParams) error {
	if params.TickLower >= params.TickUpper {
		return ErrInvalidTickRange
	}
	if params.TickLower < MinTick || params.TickUpper > MaxTick {
		return ErrTickOutOfRange
	}
	if params.TickLower%key.TickSpacing != 0 || params.TickUpper%key.TickSpacing != 0 {
		return ErrTickNotAligned
	}
	if params.LiquidityDelta == nil || params.LiquidityDelta.Sign() == 0 {
		return ErrZeroLiquidityDelta
	}
	return nil
}

func (p *Pool) modifyLiquidity(params ModifyLiquidityParams, j *journal) (BalanceDelta, error) {
	flippedLower, err := p.updateTick(params.TickLower, params.LiquidityDelta, false, j)
	if err != nil {
		return ZeroBalanceDelta(), err
	}
	flippedUpper, err := p.updateTick(params.TickUpper, params.LiquidityDelta, true, j)
	if err != nil {
		return ZeroBalanceDelta(), err
	}
	if flippedLower {
		p.flipTickBit(params.TickLower, j)
	}
	if flippedUpper {
		p.flipTickBit(params.TickUpper, j)
	}

	if params.TickLower <= p.slot0.Tick && p.slot0.Tick < params.TickUpper {
		newLiquidity := new(big.Int).Add(p.liquidity, params.LiquidityDelta)
		if newLiquidity.Sign() < 0 {
			return ZeroBalanceDelta(), ErrLiquidityUnderflow
		}
		p.liquidity = newLiquidity
	}

	delta, err := p.liquidityAmounts(params)
	if err != nil {
		return ZeroBalanceDelta(), err
	}
	return delta, nil
}

// liquidityAmounts computes the signed token amounts for a liquidity
// change, evaluated over the intersection of the range with the current
// price. Additions round against the caller, removals in the pool's
// favor.
func (p *Pool) liquidityAmounts(params ModifyLiquidityParams) (BalanceDelta, error) {
	adding := params.LiquidityDelta.Sign() > 0
	liquidityAbs := new(big.Int).Abs(params.LiquidityDelta)

	sqrtLower, err := swapmath.SqrtPriceAtTick(params.TickLower)
	if err != nil {
		return ZeroBalanceDelta(), err
	}
	sqrtUpper, err := swapmath.SqrtPriceAtTick(params.TickUpper)
	if err != nil {
		return ZeroBalanceDelta(), err
	}

	amount0 := big.NewInt(0)
	amount1 := big.NewInt(0)

	switch {
	case p.slot0.Tick < params.TickLower:
		// Price below the range: the position is entirely currency0.
		amount0, err = swapmath.GetAmount0Delta(sqrtLower, sqrtUpper, liquidityAbs, adding)
	case p.slot0.Tick < params.TickUpper:
		// Price inside the range: both currencies.
		amount0, err = swapmath.GetAmount0Delta(p.slot0.SqrtPriceX96, sqrtUpper, liquidityAbs, adding)
		if err == nil {
			amount1 = swapmath.GetAmount1Delta(sqrtLower, p.slot0.SqrtPriceX96, liquidityAbs, adding)
		}
	default:
		// Price above the range: entirely currency1.
		amount1 = swapmath.GetAmount1Delta(sqrtLower, sqrtUpper, liquidityAbs, adding)
	}
	if err != nil {
		return ZeroBalanceDelta(), err
	}

	if !adding {
		amount0.Neg(amount0)
		amount1.Neg(amount1)
	}
	return BalanceDelta{Amount0: amount0, Amount1: amount1}, nil
}
