// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "github.com/luxfi/geth/common"

// DefaultMaxPoolTicks bounds the number of initialized ticks per pool,
// which in turn bounds the work a single swap can do.
const DefaultMaxPoolTicks = 16384

// Config configures a PoolManager.
type Config struct {
	// Owner may pause/unpause the manager and set protocol fees.
	Owner common.Address `json:"owner"`
	// MaxPoolTicks caps initialized ticks per pool; zero selects
	// DefaultMaxPoolTicks.
	MaxPoolTicks int `json:"maxPoolTicks,omitempty"`
}

// DefaultConfig returns a config with the given owner and default
// limits.
func DefaultConfig(owner common.Address) Config {
	return Config{Owner: owner, MaxPoolTicks: DefaultMaxPoolTicks}
}

func (c Config) maxPoolTicks() int {
	if c.MaxPoolTicks <= 0 {
		return DefaultMaxPoolTicks
	}
	return c.MaxPoolTicks
}
