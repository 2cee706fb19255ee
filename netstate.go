package netstate

import (
	"github.com/dep2p/go-netstate/internal/core/changerate"
	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// ════════════════════════════════════════════════════════════════════════════
//                              原语
// ════════════════════════════════════════════════════════════════════════════

type (
	// Differ 逐位状态差异计算器
	Differ = statediff.Differ

	// DifferOption Differ 选项
	DifferOption = statediff.Option

	// MismatchPolicy 长度不一致策略
	MismatchPolicy = statediff.MismatchPolicy

	// RateTracker 滑动窗口变化速率追踪器
	RateTracker = changerate.Tracker

	// Sample 窗口样本
	Sample = changerate.Sample

	// RateState 窗口占用状态
	RateState = changerate.State
)

const (
	MismatchFail   = statediff.MismatchFail
	MismatchResync = statediff.MismatchResync

	// WindowCapacity 速率窗口容量
	WindowCapacity = changerate.Capacity
)

// NewDiffer 以初始状态创建 Differ，initial 为空时返回惰性 Differ
func NewDiffer(initial []byte, opts ...DifferOption) *Differ {
	return statediff.New(initial, opts...)
}

// WithMismatchPolicy 设置 Differ 的长度不一致策略
func WithMismatchPolicy(p MismatchPolicy) DifferOption {
	return statediff.WithMismatchPolicy(p)
}

// NewRateTracker 创建空的 RateTracker
func NewRateTracker() *RateTracker {
	return changerate.NewTracker()
}

// PopCount 返回字节中置位的位数
func PopCount(b byte) int {
	return statediff.PopCount(b)
}

// HammingDistance 返回两个等长缓冲区之间不同的位数
func HammingDistance(a, b []byte) (int, error) {
	return statediff.HammingDistance(a, b)
}

// ════════════════════════════════════════════════════════════════════════════
//                              分级追踪类型
// ════════════════════════════════════════════════════════════════════════════

type (
	// Key 组件标识
	Key = statetrack.Key

	// ObjectKey 对象标识
	ObjectKey = statetrack.ObjectKey

	// Stats 节点统计
	Stats = statetrack.Stats

	// NodeStats 带标识的节点统计
	NodeStats = statetrack.NodeStats

	// Report 会话报告
	Report = statetrack.Report

	// FoldResult 折叠结果
	FoldResult = statetrack.FoldResult

	// Session 追踪会话接口
	Session = statetrack.Session
)
