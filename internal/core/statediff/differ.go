package statediff

import (
	"fmt"

	"github.com/dep2p/go-netstate/internal/util/logger"
)

var log = logger.Logger("statediff")

// ============================================================================
//                              长度不一致策略
// ============================================================================

// MismatchPolicy 长度不一致时的处理策略
type MismatchPolicy int

const (
	// MismatchFail 返回 ErrLengthMismatch，不修改快照
	MismatchFail MismatchPolicy = iota

	// MismatchResync 以当前状态重建快照并返回 ErrResynced
	MismatchResync
)

// String 返回策略名称
func (p MismatchPolicy) String() string {
	switch p {
	case MismatchFail:
		return "fail"
	case MismatchResync:
		return "resync"
	default:
		return fmt.Sprintf("MismatchPolicy(%d)", int(p))
	}
}

// ParseMismatchPolicy 解析策略名称
func ParseMismatchPolicy(s string) (MismatchPolicy, error) {
	switch s {
	case "fail", "":
		return MismatchFail, nil
	case "resync":
		return MismatchResync, nil
	default:
		return MismatchFail, fmt.Errorf("unknown mismatch policy %q", s)
	}
}

// Option Differ 选项
type Option func(*Differ)

// WithMismatchPolicy 设置长度不一致策略
func WithMismatchPolicy(p MismatchPolicy) Option {
	return func(d *Differ) {
		d.policy = p
	}
}

// ============================================================================
//                              Differ
// ============================================================================

// Differ 状态差异计算器
//
// 持有一份私有的状态快照，ExchangeState 计算与快照的位差并更新快照。
type Differ struct {
	last   []byte
	inert  bool
	policy MismatchPolicy
}

// New 以初始状态创建 Differ
//
// initial 会被复制。initial 为空时 Differ 处于惰性状态：
// ExchangeState 始终返回 0，且不复制任何数据。
func New(initial []byte, opts ...Option) *Differ {
	d := &Differ{
		inert: len(initial) == 0,
	}
	if !d.inert {
		d.last = append([]byte(nil), initial...)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExchangeState 返回当前状态相对快照变化的位数，并把快照替换为当前状态
func (d *Differ) ExchangeState(current []byte) (int, error) {
	if d.inert {
		return 0, nil
	}

	if len(current) != len(d.last) {
		return 0, d.mismatch(current)
	}

	bits := hamming(d.last, current)
	copy(d.last, current)
	return bits, nil
}

func (d *Differ) mismatch(current []byte) error {
	err := fmt.Errorf("%d bytes observed, %d tracked", len(current), len(d.last))

	if d.policy != MismatchResync {
		return fmt.Errorf("%w: %v", ErrLengthMismatch, err)
	}

	log.Warn("状态长度变化，重建快照", "old", len(d.last), "new", len(current))
	if len(current) == 0 {
		d.last = nil
	} else if cap(d.last) >= len(current) {
		d.last = d.last[:len(current)]
		copy(d.last, current)
	} else {
		d.last = append([]byte(nil), current...)
	}
	return fmt.Errorf("%w: %v", ErrResynced, err)
}

// Snapshot 返回上次观测状态的副本
func (d *Differ) Snapshot() []byte {
	if d.last == nil {
		return nil
	}
	return append([]byte(nil), d.last...)
}

// Len 返回快照长度
func (d *Differ) Len() int {
	return len(d.last)
}

// Inert 是否为惰性 Differ
func (d *Differ) Inert() bool {
	return d.inert
}

// Policy 返回长度不一致策略
func (d *Differ) Policy() MismatchPolicy {
	return d.policy
}
