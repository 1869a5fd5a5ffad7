// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/geth/common"
	log "github.com/luxfi/log"

	"github.com/luxfi/amm/swapmath"
)

// PoolManager is the registry and access gate for all pools. Every
// mutating entry point acquires a reentrancy guard for its full
// duration, including both hook boundaries, so a hook can never reenter
// the engine mid-operation.
type PoolManager struct {
	mu     sync.Mutex
	locked bool

	owner        common.Address
	paused       bool
	maxPoolTicks int

	pools map[PoolID]*Pool
	hooks map[PoolID]*hookRegistration

	log log.Logger
}

// NewPoolManager creates a pool manager. A nil logger gets a default.
func NewPoolManager(cfg Config, logger log.Logger) *PoolManager {
	if logger == nil {
		logger = log.NewTestLogger(log.InfoLevel)
	}
	return &PoolManager{
		owner:        cfg.Owner,
		maxPoolTicks: cfg.maxPoolTicks(),
		pools:        make(map[PoolID]*Pool),
		hooks:        make(map[PoolID]*hookRegistration),
		log:          logger,
	}
}

// acquire takes the reentrancy guard. A nested call from a hook (or any
// caller arriving while an operation is in flight) fails fast instead
// of observing half-applied state.
func (pm *PoolManager) acquire() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.locked {
		return ErrReentrant
	}
	pm.locked = true
	return nil
}

func (pm *PoolManager) release() {
	pm.mu.Lock()
	pm.locked = false
	pm.mu.Unlock()
}

// hookRejected wraps a hook error so callers can match ErrHookRejected
// while keeping the cause.
func hookRejected(err error) error {
	return fmt.Errorf("%w: %v", ErrHookRejected, err)
}

// validateKey checks the static pool key invariants.
func validateKey(key PoolKey) error {
	if bytes.Compare(key.Currency0.ToBytes(), key.Currency1.ToBytes()) >= 0 {
		return ErrCurrencyNotSorted
	}
	if key.Fee > FeeMax {
		return ErrInvalidFee
	}
	if key.TickSpacing < 1 || key.TickSpacing > MaxTick {
		return ErrInvalidTickSpacing
	}
	return nil
}

// Initialize creates a pool for the key at the given starting price and
// returns the corresponding tick. When key.Hooks is non-zero the caller
// supplies the hook implementation; the address's leading bytes declare
// which callbacks are dispatched, permanently.
func (pm *PoolManager) Initialize(key PoolKey, sqrtPriceX96 *big.Int, hook Hook, hookData []byte) (int32, error) {
	if err := pm.acquire(); err != nil {
		return 0, err
	}
	defer pm.release()

	if err := validateKey(key); err != nil {
		return 0, err
	}
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) > 0 {
		return 0, ErrInvalidSqrtPrice
	}

	var reg *hookRegistration
	if key.Hooks != (common.Address{}) {
		flags := HookFlagsFromAddress(key.Hooks)
		if hook == nil || flags == 0 {
			return 0, ErrHookInvalidAddress
		}
		reg = &hookRegistration{hook: hook, flags: flags}
	} else if hook != nil {
		return 0, ErrHookInvalidAddress
	}

	poolID := key.ID()
	if _, exists := pm.pools[poolID]; exists {
		return 0, ErrPoolAlreadyInitialized
	}

	tick, err := swapmath.TickAtSqrtPrice(sqrtPriceX96)
	if err != nil {
		return 0, ErrInvalidSqrtPrice
	}

	if reg.enabled(HookBeforeInitialize) {
		if err := reg.hook.BeforeInitialize(key, sqrtPriceX96, hookData); err != nil {
			return 0, hookRejected(err)
		}
	}

	pm.pools[poolID] = newPool(key, sqrtPriceX96, tick, pm.maxPoolTicks)
	if reg != nil {
		pm.hooks[poolID] = reg
	}

	if reg.enabled(HookAfterInitialize) {
		if err := reg.hook.AfterInitialize(key, sqrtPriceX96, tick, hookData); err != nil {
			delete(pm.pools, poolID)
			delete(pm.hooks, poolID)
			return 0, hookRejected(err)
		}
	}

	pm.log.Info("pool initialized", "pool", poolID.Hex(), "tick", tick, "fee", key.Fee, "tickSpacing", key.TickSpacing)
	return tick, nil
}

// Pause closes the access gate: swaps, liquidity changes and donations
// fail with ErrPaused until Unpause. Views stay available.
func (pm *PoolManager) Pause(caller common.Address) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if caller != pm.owner {
		return ErrUnauthorized
	}
	pm.paused = true
	pm.log.Info("pool manager paused")
	return nil
}

// Unpause reopens the access gate.
func (pm *PoolManager) Unpause(caller common.Address) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if caller != pm.owner {
		return ErrUnauthorized
	}
	pm.paused = false
	pm.log.Info("pool manager unpaused")
	return nil
}

// SetProtocolFee sets the protocol's share of swap fees for a pool, in
// pips of each swap's fee amount. Owner only.
func (pm *PoolManager) SetProtocolFee(caller common.Address, key PoolKey, fee uint32) error {
	if err := pm.acquire(); err != nil {
		return err
	}
	defer pm.release()

	if caller != pm.owner {
		return ErrUnauthorized
	}
	if fee > swapmath.FeePipsDenominator {
		return ErrInvalidFee
	}
	p, ok := pm.pools[key.ID()]
	if !ok {
		return ErrPoolNotInitialized
	}
	p.slot0.ProtocolFee = fee
	pm.log.Info("protocol fee updated", "pool", key.ID().Hex(), "fee", fee)
	return nil
}

// CollectProtocolFees withdraws the accrued protocol fees for a pool.
// Owner only. The returned delta is negative: both amounts are owed to
// the caller.
func (pm *PoolManager) CollectProtocolFees(caller common.Address, key PoolKey) (BalanceDelta, error) {
	if err := pm.acquire(); err != nil {
		return ZeroBalanceDelta(), err
	}
	defer pm.release()

	if caller != pm.owner {
		return ZeroBalanceDelta(), ErrUnauthorized
	}
	p, ok := pm.pools[key.ID()]
	if !ok {
		return ZeroBalanceDelta(), ErrPoolNotInitialized
	}

	delta := BalanceDelta{
		Amount0: new(big.Int).Neg(p.protocolFees0),
		Amount1: new(big.Int).Neg(p.protocolFees1),
	}
	p.protocolFees0 = big.NewInt(0)
	p.protocolFees1 = big.NewInt(0)
	pm.log.Info("protocol fees collected", "pool", key.ID().Hex(),
		"amount0", new(big.Int).Neg(delta.Amount0), "amount1", new(big.Int).Neg(delta.Amount1))
	return delta, nil
}

// =========================================================================
// Views
// =========================================================================

// GetSlot0 returns the pool's current price, tick and fee parameters.
func (pm *PoolManager) GetSlot0(id PoolID) (Slot0, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return Slot0{}, ErrPoolNotInitialized
	}
	return p.slot0Copy(), nil
}

// GetLiquidity returns the pool's active liquidity.
func (pm *PoolManager) GetLiquidity(id PoolID) (*big.Int, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return nil, ErrPoolNotInitialized
	}
	return new(big.Int).Set(p.liquidity), nil
}

// GetTickInfo returns the accounting state of a tick. Ticks that hold
// no liquidity report as zeroed and uninitialized.
func (pm *PoolManager) GetTickInfo(id PoolID, tick int32) (TickInfo, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return TickInfo{}, ErrPoolNotInitialized
	}
	info, ok := p.ticks[tick]
	if !ok {
		return *newTickInfo(), nil
	}
	return *info.clone(), nil
}

// GetProtocolFees returns the protocol fees accrued and not yet
// collected, per currency.
func (pm *PoolManager) GetProtocolFees(id PoolID) (*big.Int, *big.Int, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return nil, nil, ErrPoolNotInitialized
	}
	return new(big.Int).Set(p.protocolFees0), new(big.Int).Set(p.protocolFees1), nil
}

// GetFeeGrowthGlobals returns the accumulated fee growth per unit of
// liquidity for both currencies, in X128 fixed point.
func (pm *PoolManager) GetFeeGrowthGlobals(id PoolID) (*big.Int, *big.Int, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return nil, nil, ErrPoolNotInitialized
	}
	return new(big.Int).Set(p.feeGrowthGlobal0X128), new(big.Int).Set(p.feeGrowthGlobal1X128), nil
}

// InitializedTicks returns the pool's initialized tick indices in
// ascending order.
func (pm *PoolManager) InitializedTicks(id PoolID) ([]int32, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	p, ok := pm.pools[id]
	if !ok {
		return nil, ErrPoolNotInitialized
	}
	return p.initializedTicks(), nil
}

// hookFor returns the registration for a pool, which may be nil.
func (pm *PoolManager) hookFor(id PoolID) *hookRegistration {
	return pm.hooks[id]
}

// getPool returns the live pool state for a mutating operation.
func (pm *PoolManager) getPool(key PoolKey) (*Pool, PoolID, error) {
	id := key.ID()
	p, ok := pm.pools[id]
	if !ok {
		return nil, id, ErrPoolNotInitialized
	}
	return p, id, nil
}
