// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDonate(t *testing.T) {
	pm, key, id := fullRangePool(t)

	amount0 := big.NewInt(1_000_000)
	amount1 := big.NewInt(2_000_000)
	delta, err := pm.Donate(key, amount0, amount1, nil)
	require.NoError(t, err)

	// Donations are owed to the pool.
	require.Zero(t, delta.Amount0.Cmp(amount0))
	require.Zero(t, delta.Amount1.Cmp(amount1))

	growth0, growth1, err := pm.GetFeeGrowthGlobals(id)
	require.NoError(t, err)

	// growth = amount << 128 / liquidity.
	wantGrowth0 := new(big.Int).Lsh(amount0, 128)
	wantGrowth0.Div(wantGrowth0, oneE18)
	require.Zero(t, growth0.Cmp(wantGrowth0))

	wantGrowth1 := new(big.Int).Lsh(amount1, 128)
	wantGrowth1.Div(wantGrowth1, oneE18)
	require.Zero(t, growth1.Cmp(wantGrowth1))

	// Price and liquidity are untouched.
	slot0, err := pm.GetSlot0(id)
	require.NoError(t, err)
	require.Zero(t, slot0.SqrtPriceX96.Cmp(priceOneX96))
	liquidity, err := pm.GetLiquidity(id)
	require.NoError(t, err)
	require.Zero(t, liquidity.Cmp(oneE18))
}

func TestDonateOneSided(t *testing.T) {
	pm, key, id := fullRangePool(t)

	_, err := pm.Donate(key, big.NewInt(500), nil, nil)
	require.NoError(t, err)

	growth0, growth1, err := pm.GetFeeGrowthGlobals(id)
	require.NoError(t, err)
	require.Positive(t, growth0.Sign())
	require.Zero(t, growth1.Sign())
}

func TestDonateValidation(t *testing.T) {
	pm := testManager(t)
	key := testKey(Fee030, TickSpacing030)
	initTestPool(t, pm, key)

	t.Run("unknown pool", func(t *testing.T) {
		_, err := pm.Donate(testKey(Fee100, TickSpacing100), big.NewInt(1), big.NewInt(1), nil)
		require.ErrorIs(t, err, ErrPoolNotInitialized)
	})

	t.Run("no active liquidity", func(t *testing.T) {
		_, err := pm.Donate(key, big.NewInt(1), big.NewInt(1), nil)
		require.ErrorIs(t, err, ErrNoLiquidity)
	})

	t.Run("negative amount", func(t *testing.T) {
		addLiquidity(t, pm, key, -60, 60, big.NewInt(1000))
		_, err := pm.Donate(key, big.NewInt(-1), big.NewInt(1), nil)
		require.ErrorIs(t, err, ErrNegativeDonation)
	})
}
