// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/bits"

// tickBitmap tracks tick initialization state in a compressed bitmap.
// Ticks are compressed by the pool's tick spacing; each word stores 256
// compressed ticks, one bit per tick. Access is serialized by the pool
// manager, so the bitmap itself carries no lock.
type tickBitmap struct {
	// words keyed by word position (compressed tick / 256).
	words map[int16][4]uint64
}

func newTickBitmap() *tickBitmap {
	return &tickBitmap{words: make(map[int16][4]uint64)}
}

// compressTick maps a tick to its compressed index, rounding toward
// negative infinity for ticks between spacing boundaries.
func compressTick(tick, tickSpacing int32) int32 {
	compressed := tick / tickSpacing
	if tick < 0 && tick%tickSpacing != 0 {
		compressed--
	}
	return compressed
}

// wordPos returns the word position for a compressed tick. Arithmetic
// shift floors toward negative infinity, which is what the negative
// word range needs.
func wordPos(compressed int32) int16 {
	return int16(compressed >> 8)
}

// bitPos returns the bit position within a word (0-255).
func bitPos(compressed int32) uint16 {
	return uint16(compressed & 0xFF)
}

func (tb *tickBitmap) word(wp int16) [4]uint64 {
	return tb.words[wp]
}

func (tb *tickBitmap) setWord(wp int16, w [4]uint64) {
	if w == ([4]uint64{}) {
		delete(tb.words, wp)
		return
	}
	tb.words[wp] = w
}

// flipTick toggles the initialized bit for an aligned tick.
func (tb *tickBitmap) flipTick(tick, tickSpacing int32) {
	compressed := compressTick(tick, tickSpacing)
	wp := wordPos(compressed)
	bp := bitPos(compressed)

	word := tb.words[wp]
	word[bp/64] ^= 1 << (bp % 64)
	tb.setWord(wp, word)
}

// isInitialized reports whether an aligned tick's bit is set.
func (tb *tickBitmap) isInitialized(tick, tickSpacing int32) bool {
	if tick%tickSpacing != 0 {
		return false
	}
	compressed := compressTick(tick, tickSpacing)
	word := tb.words[wordPos(compressed)]
	bp := bitPos(compressed)
	return word[bp/64]&(1<<(bp%64)) != 0
}

// nextInitializedTick finds the nearest initialized tick from the given
// tick: at or below it when lte is set, strictly above it otherwise.
// When no initialized tick exists in that direction it returns the
// usable range edge with initialized=false.
func (tb *tickBitmap) nextInitializedTick(tick, tickSpacing int32, lte bool) (int32, bool) {
	compressed := compressTick(tick, tickSpacing)
	if lte {
		return tb.searchLeft(compressed, tickSpacing)
	}
	return tb.searchRight(compressed, tickSpacing)
}

func (tb *tickBitmap) searchLeft(compressed, tickSpacing int32) (int32, bool) {
	wp := wordPos(compressed)
	bp := bitPos(compressed)
	minWord := wordPos(compressTick(MinTick, tickSpacing))

	// Current word: mask off bits above bp.
	word := tb.words[wp]
	for i := int(bp/64) + 1; i > 0; i-- {
		w := word[i-1]
		if i-1 == int(bp/64) && bp%64 != 63 {
			w &= uint64(1)<<(bp%64+1) - 1
		}
		if w != 0 {
			high := 63 - bits.LeadingZeros64(w)
			return (int32(wp)*256 + int32(i-1)*64 + int32(high)) * tickSpacing, true
		}
	}

	for searchWp := wp - 1; searchWp >= minWord; searchWp-- {
		word, ok := tb.words[searchWp]
		if !ok {
			continue
		}
		for i := 3; i >= 0; i-- {
			if w := word[i]; w != 0 {
				high := 63 - bits.LeadingZeros64(w)
				return (int32(searchWp)*256 + int32(i)*64 + int32(high)) * tickSpacing, true
			}
		}
	}

	return minUsableTick(tickSpacing), false
}

func (tb *tickBitmap) searchRight(compressed, tickSpacing int32) (int32, bool) {
	wp := wordPos(compressed)
	start := int32(bitPos(compressed)) + 1
	maxWord := wordPos(compressTick(MaxTick, tickSpacing))

	if start <= 255 {
		word := tb.words[wp]
		for i := int(start / 64); i < 4; i++ {
			w := word[i]
			if i == int(start/64) {
				w &= ^(uint64(1)<<(start%64) - 1)
			}
			if w != 0 {
				low := bits.TrailingZeros64(w)
				return (int32(wp)*256 + int32(i)*64 + int32(low)) * tickSpacing, true
			}
		}
	}

	for searchWp := wp + 1; searchWp <= maxWord; searchWp++ {
		word, ok := tb.words[searchWp]
		if !ok {
			continue
		}
		for i := 0; i < 4; i++ {
			if w := word[i]; w != 0 {
				low := bits.TrailingZeros64(w)
				return (int32(searchWp)*256 + int32(i)*64 + int32(low)) * tickSpacing, true
			}
		}
	}

	return maxUsableTick(tickSpacing), false
}

// minUsableTick is the lowest tick aligned to the spacing.
func minUsableTick(tickSpacing int32) int32 {
	return -(-MinTick / tickSpacing) * tickSpacing
}

// maxUsableTick is the highest tick aligned to the spacing.
func maxUsableTick(tickSpacing int32) int32 {
	return MaxTick / tickSpacing * tickSpacing
}
