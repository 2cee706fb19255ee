package changerate

import (
	"math"

	"github.com/dep2p/go-netstate/internal/util/logger"
)

var log = logger.Logger("changerate")

const (
	// MinDeltaTime 重新计算速率所需的最小时间跨度（秒）
	MinDeltaTime = 0.001

	// bitsToBytes 位到字节的换算系数
	bitsToBytes = 0.125
)

// ============================================================================
//                              状态
// ============================================================================

// State 窗口占用状态
type State int

const (
	// StateEmpty 无样本
	StateEmpty State = iota
	// StateFilling 1..31 个样本，速率保持上次的值
	StateFilling
	// StateFull 32 个样本，每次折叠都重新计算速率
	StateFull
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFilling:
		return "filling"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Tracker
// ============================================================================

// Tracker 单实体的变化速率追踪器
type Tracker struct {
	accumulated int
	window      Window
	rate        int
	violations  int
}

// NewTracker 创建空的 Tracker
func NewTracker() *Tracker {
	return &Tracker{}
}

// AccumulateChange 累加当前区间的变化位数
//
// 负值属于调用方错误：按 0 处理，记录告警并计入 Violations。
func (t *Tracker) AccumulateChange(bits int) {
	if bits < 0 {
		t.violations++
		log.Warn("negative change accumulation clamped", "bits", bits)
		return
	}
	t.accumulated += bits
}

// ProcessAccumulatedChanges 把累加值折叠进窗口并返回该值
//
// 窗口已满时先淘汰最旧的样本，再以剩余最旧样本的时间为基准重算速率。
// 返回值与窗口状态无关，调用方可直接累计到独立的总量中。
func (t *Tracker) ProcessAccumulatedChanges(now float64) int {
	bits := t.accumulated
	t.accumulated = 0

	_, evicted := t.evict()
	t.window.Push(Sample{Time: now, Bits: bits})

	if evicted {
		t.recompute(now)
	}
	return bits
}

func (t *Tracker) evict() (Sample, bool) {
	if !t.window.Full() {
		return Sample{}, false
	}
	return t.window.PopFront()
}

func (t *Tracker) recompute(now float64) {
	base, _ := t.window.Front()
	delta := now - base.Time
	if delta <= MinDeltaTime {
		return
	}
	t.rate = int(math.Ceil(float64(t.window.Sum()) * bitsToBytes / delta))
}

// BytesPerSecond 最近一次计算出的速率（字节/秒）
func (t *Tracker) BytesPerSecond() int {
	return t.rate
}

// Accumulated 尚未折叠的位数
func (t *Tracker) Accumulated() int {
	return t.accumulated
}

// Len 窗口样本数
func (t *Tracker) Len() int {
	return t.window.Len()
}

// Samples 窗口样本副本，从旧到新
func (t *Tracker) Samples() []Sample {
	return t.window.Samples()
}

// State 当前窗口状态
func (t *Tracker) State() State {
	switch n := t.window.Len(); {
	case n == 0:
		return StateEmpty
	case n < Capacity:
		return StateFilling
	default:
		return StateFull
	}
}

// Violations 被钳制的负值累加次数
func (t *Tracker) Violations() int {
	return t.violations
}

// Clear 清空窗口、累加值与速率，回到 StateEmpty
//
// Violations 计数不受影响。
func (t *Tracker) Clear() {
	t.accumulated = 0
	t.rate = 0
	t.window.Reset()
}
