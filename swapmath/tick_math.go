// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package swapmath implements the fixed-point math for concentrated
// liquidity pools: tick/sqrt-price conversions in Q64.96 format, token
// amount deltas between two prices, and the bounded single-step swap
// computation used by the pool engine's crossing loop.
package swapmath

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Tick bounds. Price at tick t is 1.0001^t, so these correspond to the
// representable range of Q64.96 sqrt prices.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

var (
	// Q96 is 2^96, the UQ64.96 fixed-point unit.
	Q96 = new(big.Int).Lsh(big.NewInt(1), 96)
	// Q128 is 2^128, used for fee growth accumulators.
	Q128 = new(big.Int).Lsh(big.NewInt(1), 128)

	// MinSqrtRatio is SqrtPriceAtTick(MinTick).
	MinSqrtRatio = big.NewInt(4295128739)
	// MaxSqrtRatio is SqrtPriceAtTick(MaxTick).
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)

	ErrTickOutOfBounds      = errors.New("tick out of bounds")
	ErrSqrtPriceOutOfBounds = errors.New("sqrt price out of bounds")
)

var (
	maxUint256 = new(uint256.Int).Not(new(uint256.Int))
	roundMask  = uint256.NewInt(0xffffffff)

	// sqrt(1.0001^(2^i)) in Q128.128 for i = 1..19. Bit 0 is handled
	// separately below.
	ratioMagic = [19]*uint256.Int{
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}

	ratioBit0 = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	ratioOne  = uint256.MustFromHex("0x100000000000000000000000000000000")
)

// SqrtPriceAtTick returns sqrt(1.0001^tick) * 2^96.
//
// The computation follows Uniswap v3 TickMath: a product chain over
// precomputed sqrt(1.0001^(2^i)) constants in Q128.128, inverted for
// positive ticks, then rounded up into Q64.96.
func SqrtPriceAtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfBounds
	}

	absTick := uint32(tick)
	if tick < 0 {
		absTick = uint32(-tick)
	}

	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(ratioBit0)
	} else {
		ratio.Set(ratioOne)
	}
	for i := 0; i < len(ratioMagic); i++ {
		if absTick&(1<<uint(i+1)) != 0 {
			ratio.Mul(ratio, ratioMagic[i])
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Q128.128 -> Q64.96, rounding up so the round trip through
	// TickAtSqrtPrice lands on the same tick.
	rem := new(uint256.Int).And(ratio, roundMask)
	ratio.Rsh(ratio, 32)
	if !rem.IsZero() {
		ratio.AddUint64(ratio, 1)
	}

	return ratio.ToBig(), nil
}

// TickAtSqrtPrice returns the greatest tick whose sqrt price is less
// than or equal to the input. The input must lie within
// [MinSqrtRatio, MaxSqrtRatio].
func TickAtSqrtPrice(sqrtPriceX96 *big.Int) (int32, error) {
	if sqrtPriceX96 == nil || sqrtPriceX96.Cmp(MinSqrtRatio) < 0 || sqrtPriceX96.Cmp(MaxSqrtRatio) > 0 {
		return 0, ErrSqrtPriceOutOfBounds
	}

	low, high := MinTick, MaxTick
	tick := MinTick
	for low <= high {
		mid := low + (high-low)/2
		midPrice, err := SqrtPriceAtTick(mid)
		if err != nil {
			return 0, err
		}
		if midPrice.Cmp(sqrtPriceX96) <= 0 {
			tick = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return tick, nil
}
