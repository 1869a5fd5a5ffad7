// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTickBitmapFlip(t *testing.T) {
	tb := newTickBitmap()

	require.False(t, tb.isInitialized(60, 60))
	tb.flipTick(60, 60)
	require.True(t, tb.isInitialized(60, 60))
	tb.flipTick(60, 60)
	require.False(t, tb.isInitialized(60, 60))
	require.Empty(t, tb.words, "cleared words are released")
}

func TestTickBitmapNegativeTicks(t *testing.T) {
	tb := newTickBitmap()

	ticks := []int32{-887220, -240, -120, -60}
	for _, tick := range ticks {
		tb.flipTick(tick, 60)
	}
	for _, tick := range ticks {
		require.True(t, tb.isInitialized(tick, 60), "tick %d", tick)
	}
	require.False(t, tb.isInitialized(-180, 60))
	require.False(t, tb.isInitialized(0, 60))
}

func TestNextInitializedTickSearchLeft(t *testing.T) {
	tb := newTickBitmap()
	tb.flipTick(-240, 60)
	tb.flipTick(0, 60)
	tb.flipTick(120, 60)

	tests := []struct {
		name     string
		from     int32
		wantTick int32
		wantInit bool
	}{
		{"at an initialized tick includes it", 0, 0, true},
		{"between ticks finds the lower", 60, 0, true},
		{"just below skips to next lower", -1, -240, true},
		{"from above the highest", 300, 120, true},
		{"unaligned tick floors first", 119, 0, true},
		{"nothing below returns min edge", -300, minUsableTick(60), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tick, initialized := tb.nextInitializedTick(tc.from, 60, true)
			require.Equal(t, tc.wantTick, tick)
			require.Equal(t, tc.wantInit, initialized)
		})
	}
}

func TestNextInitializedTickSearchRight(t *testing.T) {
	tb := newTickBitmap()
	tb.flipTick(-240, 60)
	tb.flipTick(0, 60)
	tb.flipTick(120, 60)

	tests := []struct {
		name     string
		from     int32
		wantTick int32
		wantInit bool
	}{
		{"at an initialized tick excludes it", 0, 120, true},
		{"between ticks finds the upper", 60, 120, true},
		{"from below the lowest", -300, -240, true},
		{"nothing above returns max edge", 120, maxUsableTick(60), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tick, initialized := tb.nextInitializedTick(tc.from, 60, false)
			require.Equal(t, tc.wantTick, tick)
			require.Equal(t, tc.wantInit, initialized)
		})
	}
}

func TestNextInitializedTickCrossesWords(t *testing.T) {
	tb := newTickBitmap()
	// 256 compressed ticks per word: spacing 1 places these three ticks
	// in different words.
	tb.flipTick(-1000, 1)
	tb.flipTick(5, 1)
	tb.flipTick(1000, 1)

	tick, ok := tb.nextInitializedTick(999, 1, true)
	require.True(t, ok)
	require.Equal(t, int32(5), tick)

	tick, ok = tb.nextInitializedTick(4, 1, true)
	require.True(t, ok)
	require.Equal(t, int32(-1000), tick)

	tick, ok = tb.nextInitializedTick(5, 1, false)
	require.True(t, ok)
	require.Equal(t, int32(1000), tick)

	tick, ok = tb.nextInitializedTick(-2000, 1, false)
	require.True(t, ok)
	require.Equal(t, int32(-1000), tick)
}

func TestUsableTickEdges(t *testing.T) {
	require.Equal(t, int32(-887220), minUsableTick(60))
	require.Equal(t, int32(887220), maxUsableTick(60))
	require.Equal(t, int32(MinTick), minUsableTick(1))
	require.Equal(t, int32(MaxTick), maxUsableTick(1))
}
