// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool implements a concentrated-liquidity pool state engine:
// per-pool price/tick bookkeeping, liquidity range accounting, the
// multi-tick swap execution loop, and the hook dispatch protocol that
// wraps every mutating operation. The engine computes the signed token
// amounts owed by and to the caller; moving the underlying value is the
// caller's concern.
package pool

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"

	"github.com/luxfi/amm/swapmath"
)

// Tick and sqrt price bounds, re-exported from swapmath.
const (
	MinTick = swapmath.MinTick
	MaxTick = swapmath.MaxTick
)

var (
	MinSqrtRatio = swapmath.MinSqrtRatio
	MaxSqrtRatio = swapmath.MaxSqrtRatio
)

// Pool fee tiers (hundredths of a basis point).
const (
	Fee001 uint32 = 100    // 0.01% - stablecoins
	Fee005 uint32 = 500    // 0.05% - stable pairs
	Fee030 uint32 = 3000   // 0.30% - standard
	Fee100 uint32 = 10000  // 1.00% - exotic pairs
	FeeMax uint32 = 100000 // 10% max fee
)

// Tick spacing for the standard fee tiers.
const (
	TickSpacing001 int32 = 1
	TickSpacing005 int32 = 10
	TickSpacing030 int32 = 60
	TickSpacing100 int32 = 200
)

// Currency represents a pool asset. The zero address is the native
// token.
type Currency struct {
	Address common.Address
}

// NativeCurrency is the native token (no wrapping needed).
var NativeCurrency = Currency{Address: common.Address{}}

// IsNative returns true if this currency is the native token.
func (c Currency) IsNative() bool {
	return c.Address == common.Address{}
}

// ToBytes serializes the currency.
func (c Currency) ToBytes() []byte {
	return c.Address.Bytes()
}

// PoolID uniquely identifies a pool.
type PoolID [32]byte

// Hex returns the id as a 0x-prefixed hex string.
func (id PoolID) Hex() string {
	return common.Hash(id).Hex()
}

// PoolKey uniquely identifies a pool: the ordered currency pair, the
// fee tier, the tick spacing, and the hook address (zero = no hooks).
// Currency0 must sort strictly below Currency1.
type PoolKey struct {
	Currency0   Currency
	Currency1   Currency
	Fee         uint32 // fee in pips
	TickSpacing int32
	Hooks       common.Address
}

// ID computes the unique pool identifier as the blake3 hash of the
// serialized key.
func (pk PoolKey) ID() PoolID {
	h := blake3.New()
	h.Write(pk.Currency0.ToBytes())
	h.Write(pk.Currency1.ToBytes())

	var feeBytes [4]byte
	binary.BigEndian.PutUint32(feeBytes[:], pk.Fee)
	h.Write(feeBytes[:])

	var tickBytes [4]byte
	binary.BigEndian.PutUint32(tickBytes[:], uint32(pk.TickSpacing))
	h.Write(tickBytes[:])

	h.Write(pk.Hooks.Bytes())

	var id PoolID
	h.Digest().Read(id[:])
	return id
}

// BalanceDelta is the pair of signed token amounts resulting from an
// operation. Positive = owed to the pool, negative = owed to the
// caller.
type BalanceDelta struct {
	Amount0 *big.Int
	Amount1 *big.Int
}

// NewBalanceDelta creates a balance delta, copying both amounts.
func NewBalanceDelta(amount0, amount1 *big.Int) BalanceDelta {
	return BalanceDelta{
		Amount0: new(big.Int).Set(amount0),
		Amount1: new(big.Int).Set(amount1),
	}
}

// ZeroBalanceDelta returns a zero balance delta.
func ZeroBalanceDelta() BalanceDelta {
	return BalanceDelta{
		Amount0: big.NewInt(0),
		Amount1: big.NewInt(0),
	}
}

// Add combines two balance deltas.
func (bd BalanceDelta) Add(other BalanceDelta) BalanceDelta {
	return BalanceDelta{
		Amount0: new(big.Int).Add(bd.Amount0, other.Amount0),
		Amount1: new(big.Int).Add(bd.Amount1, other.Amount1),
	}
}

// Negate inverts both signs.
func (bd BalanceDelta) Negate() BalanceDelta {
	return BalanceDelta{
		Amount0: new(big.Int).Neg(bd.Amount0),
		Amount1: new(big.Int).Neg(bd.Amount1),
	}
}

// IsZero returns true if both amounts are zero.
func (bd BalanceDelta) IsZero() bool {
	return bd.Amount0.Sign() == 0 && bd.Amount1.Sign() == 0
}

// Slot0 is the frequently accessed per-pool state.
type Slot0 struct {
	SqrtPriceX96 *big.Int // sqrt(price) * 2^96 (Q64.96)
	Tick         int32
	ProtocolFee  uint32 // protocol share of swap fees, in pips
	LpFee        uint32 // liquidity provider fee, in pips
}

// TickInfo is the accounting state of a single initialized tick.
type TickInfo struct {
	// LiquidityGross is the total liquidity referencing this tick from
	// either range boundary. Never negative.
	LiquidityGross *big.Int
	// LiquidityNet is the signed delta applied to active liquidity when
	// the price crosses this tick moving upward; downward crossings
	// apply its negation.
	LiquidityNet          *big.Int
	FeeGrowthOutside0X128 *big.Int
	FeeGrowthOutside1X128 *big.Int
	Initialized           bool
}

func newTickInfo() *TickInfo {
	return &TickInfo{
		LiquidityGross:        big.NewInt(0),
		LiquidityNet:          big.NewInt(0),
		FeeGrowthOutside0X128: big.NewInt(0),
		FeeGrowthOutside1X128: big.NewInt(0),
	}
}

func (ti *TickInfo) clone() *TickInfo {
	return &TickInfo{
		LiquidityGross:        new(big.Int).Set(ti.LiquidityGross),
		LiquidityNet:          new(big.Int).Set(ti.LiquidityNet),
		FeeGrowthOutside0X128: new(big.Int).Set(ti.FeeGrowthOutside0X128),
		FeeGrowthOutside1X128: new(big.Int).Set(ti.FeeGrowthOutside1X128),
		Initialized:           ti.Initialized,
	}
}

// SwapParams contains parameters for a swap.
type SwapParams struct {
	ZeroForOne        bool     // true = sell currency0 for currency1, price decreases
	AmountSpecified   *big.Int // positive = exact input, negative = exact output
	SqrtPriceLimitX96 *big.Int // price past which the swap will not execute
}

// ModifyLiquidityParams contains parameters for adding or removing
// range liquidity.
type ModifyLiquidityParams struct {
	TickLower      int32
	TickUpper      int32
	LiquidityDelta *big.Int // positive = add, negative = remove
}

// Errors.
var (
	ErrPoolNotInitialized     = errors.New("pool not initialized")
	ErrPoolAlreadyInitialized = errors.New("pool already initialized")
	ErrCurrencyNotSorted      = errors.New("currencies not sorted")
	ErrInvalidFee             = errors.New("invalid fee")
	ErrInvalidTickSpacing     = errors.New("invalid tick spacing")
	ErrInvalidSqrtPrice       = errors.New("invalid sqrt price")
	ErrInvalidTickRange       = errors.New("invalid tick range")
	ErrTickNotAligned         = errors.New("tick not aligned to spacing")
	ErrTickOutOfRange         = errors.New("tick out of range")
	ErrZeroLiquidityDelta     = errors.New("zero liquidity delta")
	ErrZeroSwapAmount         = errors.New("zero swap amount")
	ErrNegativeDonation       = errors.New("negative donation amount")
	ErrInvalidPriceLimit      = errors.New("invalid price limit")
	ErrLiquidityUnderflow     = errors.New("liquidity underflow")
	ErrNoLiquidity            = errors.New("no liquidity in pool")
	ErrTooManyTicks           = errors.New("initialized tick cap exceeded")
	ErrPaused                 = errors.New("pool manager is paused")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrReentrant              = errors.New("reentrancy detected")
	ErrHookRejected           = errors.New("hook rejected operation")
	ErrHookInvalidAddress     = errors.New("hook address doesn't match capabilities")
)
