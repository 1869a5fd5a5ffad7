// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"encoding/binary"
	"math/big"

	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// Hook is the extension interface invoked around pool lifecycle
// operations. A hook is supplied once at Initialize and never replaced.
// Only the callbacks declared in the pool's permission set are ever
// dispatched; a non-nil error from any callback aborts the enclosing
// operation atomically.
type Hook interface {
	BeforeInitialize(key PoolKey, sqrtPriceX96 *big.Int, hookData []byte) error
	AfterInitialize(key PoolKey, sqrtPriceX96 *big.Int, tick int32, hookData []byte) error

	BeforeModifyLiquidity(key PoolKey, params ModifyLiquidityParams, hookData []byte) error
	AfterModifyLiquidity(key PoolKey, params ModifyLiquidityParams, delta BalanceDelta, hookData []byte) error

	BeforeSwap(key PoolKey, params SwapParams, hookData []byte) error
	AfterSwap(key PoolKey, params SwapParams, delta BalanceDelta, hookData []byte) error

	BeforeDonate(key PoolKey, amount0, amount1 *big.Int, hookData []byte) error
	AfterDonate(key PoolKey, amount0, amount1 *big.Int, hookData []byte) error
}

// BaseHook is a no-op Hook for embedding; implementations override the
// callbacks they declare.
type BaseHook struct{}

func (BaseHook) BeforeInitialize(PoolKey, *big.Int, []byte) error { return nil }
func (BaseHook) AfterInitialize(PoolKey, *big.Int, int32, []byte) error {
	return nil
}
func (BaseHook) BeforeModifyLiquidity(PoolKey, ModifyLiquidityParams, []byte) error { return nil }
func (BaseHook) AfterModifyLiquidity(PoolKey, ModifyLiquidityParams, BalanceDelta, []byte) error {
	return nil
}
func (BaseHook) BeforeSwap(PoolKey, SwapParams, []byte) error              { return nil }
func (BaseHook) AfterSwap(PoolKey, SwapParams, BalanceDelta, []byte) error { return nil }
func (BaseHook) BeforeDonate(PoolKey, *big.Int, *big.Int, []byte) error    { return nil }
func (BaseHook) AfterDonate(PoolKey, *big.Int, *big.Int, []byte) error     { return nil }

// HookFlags is a bitmap of hook capabilities.
type HookFlags uint16

const (
	HookBeforeInitialize HookFlags = 1 << iota
	HookAfterInitialize
	HookBeforeModifyLiquidity
	HookAfterModifyLiquidity
	HookBeforeSwap
	HookAfterSwap
	HookBeforeDonate
	HookAfterDonate
)

// HookPermissions is the declared capability set of a hook. The hook
// address encodes the same set in its first two bytes, so the key alone
// is enough to decide whether a callback fires.
type HookPermissions struct {
	BeforeInitialize      bool
	AfterInitialize       bool
	BeforeModifyLiquidity bool
	AfterModifyLiquidity  bool
	BeforeSwap            bool
	AfterSwap             bool
	BeforeDonate          bool
	AfterDonate           bool
}

// EncodeHookPermissions encodes permissions into a HookFlags bitmap.
func EncodeHookPermissions(p HookPermissions) HookFlags {
	var flags HookFlags
	if p.BeforeInitialize {
		flags |= HookBeforeInitialize
	}
	if p.AfterInitialize {
		flags |= HookAfterInitialize
	}
	if p.BeforeModifyLiquidity {
		flags |= HookBeforeModifyLiquidity
	}
	if p.AfterModifyLiquidity {
		flags |= HookAfterModifyLiquidity
	}
	if p.BeforeSwap {
		flags |= HookBeforeSwap
	}
	if p.AfterSwap {
		flags |= HookAfterSwap
	}
	if p.BeforeDonate {
		flags |= HookBeforeDonate
	}
	if p.AfterDonate {
		flags |= HookAfterDonate
	}
	return flags
}

// DecodeHookPermissions decodes a HookFlags bitmap into permissions.
func DecodeHookPermissions(flags HookFlags) HookPermissions {
	return HookPermissions{
		BeforeInitialize:      flags&HookBeforeInitialize != 0,
		AfterInitialize:       flags&HookAfterInitialize != 0,
		BeforeModifyLiquidity: flags&HookBeforeModifyLiquidity != 0,
		AfterModifyLiquidity:  flags&HookAfterModifyLiquidity != 0,
		BeforeSwap:            flags&HookBeforeSwap != 0,
		AfterSwap:             flags&HookAfterSwap != 0,
		BeforeDonate:          flags&HookBeforeDonate != 0,
		AfterDonate:           flags&HookAfterDonate != 0,
	}
}

// HookFlagsFromAddress extracts the capability bitmap encoded in the
// first two bytes of a hook address.
func HookFlagsFromAddress(addr common.Address) HookFlags {
	return HookFlags(binary.BigEndian.Uint16(addr[0:2]))
}

// ValidateHookAddress checks that a hook address encodes the claimed
// permission set.
func ValidateHookAddress(addr common.Address, permissions HookPermissions) error {
	if HookFlagsFromAddress(addr) != EncodeHookPermissions(permissions) {
		return ErrHookInvalidAddress
	}
	return nil
}

// GenerateHookAddress derives a hook address whose first two bytes
// encode the given permission set. Useful for tests and deployment
// tooling.
func GenerateHookAddress(deployer common.Address, salt [32]byte, permissions HookPermissions) common.Address {
	flags := EncodeHookPermissions(permissions)

	h := blake3.New()
	h.Write([]byte{0xff})
	h.Write(deployer.Bytes())
	h.Write(salt[:])

	var hash [32]byte
	h.Digest().Read(hash[:])

	var addr common.Address
	copy(addr[:], hash[12:32])
	binary.BigEndian.PutUint16(addr[0:2], uint16(flags))
	return addr
}

// hookRegistration binds a pool's hook implementation to the
// permission set its address declared at Initialize.
type hookRegistration struct {
	hook  Hook
	flags HookFlags
}

func (hr *hookRegistration) enabled(flag HookFlags) bool {
	return hr != nil && hr.hook != nil && hr.flags&flag != 0
}
