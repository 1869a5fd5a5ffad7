// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "math/big"

// journal records the prior values of everything an operation touches
// so a failure anywhere inside it, including a rejecting after-hook,
// unwinds to the exact pre-operation state. Scalar pool state is
// captured eagerly; tick entries and bitmap words are captured on first
// touch.
type journal struct {
	p *Pool

	slot0         Slot0
	liquidity     *big.Int
	feeGrowth0    *big.Int
	feeGrowth1    *big.Int
	protocolFees0 *big.Int
	protocolFees1 *big.Int

	// ticks holds the prior entry per touched tick; nil means the tick
	// did not exist before the operation.
	ticks map[int32]*TickInfo
	words map[int16][4]uint64
}

func newJournal(p *Pool) *journal {
	return &journal{
		p:             p,
		slot0:         p.slot0Copy(),
		liquidity:     new(big.Int).Set(p.liquidity),
		feeGrowth0:    new(big.Int).Set(p.feeGrowthGlobal0X128),
		feeGrowth1:    new(big.Int).Set(p.feeGrowthGlobal1X128),
		protocolFees0: new(big.Int).Set(p.protocolFees0),
		protocolFees1: new(big.Int).Set(p.protocolFees1),
		ticks:         make(map[int32]*TickInfo),
		words:         make(map[int16][4]uint64),
	}
}

func (j *journal) touchTick(tick int32) {
	if _, done := j.ticks[tick]; done {
		return
	}
	if info, ok := j.p.ticks[tick]; ok {
		j.ticks[tick] = info.clone()
	} else {
		j.ticks[tick] = nil
	}
}

func (j *journal) touchWord(wp int16) {
	if _, done := j.words[wp]; done {
		return
	}
	j.words[wp] = j.p.bitmap.word(wp)
}

// revert restores every recorded prior value.
func (j *journal) revert() {
	p := j.p
	p.slot0 = j.slot0
	p.liquidity = j.liquidity
	p.feeGrowthGlobal0X128 = j.feeGrowth0
	p.feeGrowthGlobal1X128 = j.feeGrowth1
	p.protocolFees0 = j.protocolFees0
	p.protocolFees1 = j.protocolFees1

	for tick, prior := range j.ticks {
		if prior == nil {
			delete(p.ticks, tick)
		} else {
			p.ticks[tick] = prior
		}
	}
	for wp, word := range j.words {
		p.bitmap.setWord(wp, word)
	}
}
