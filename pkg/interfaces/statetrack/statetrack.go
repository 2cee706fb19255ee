// Package statetrack 定义网络状态变化追踪接口
//
// 状态变化追踪模块负责：
// - 逐 tick 计算每个网络组件序列化状态变化的位数
// - 按组件 / 对象 / 类型三级汇总
// - 基于 32 样本滑动窗口估算字节速率（bytes/sec）
package statetrack

import (
	"time"
)

// ============================================================================
//                              标识
// ============================================================================

// Key 标识一个被追踪的网络组件实例
//
// Type 为对象类型，Object 为对象实例，Component 为对象上的组件。
type Key struct {
	Type      string
	Object    string
	Component string
}

// String 返回 type/object/component 形式
func (k Key) String() string {
	return k.Type + "/" + k.Object + "/" + k.Component
}

// ObjectKey 返回组件所属的对象标识
func (k Key) ObjectKey() ObjectKey {
	return ObjectKey{Type: k.Type, Object: k.Object}
}

// ObjectKey 标识一个对象实例
type ObjectKey struct {
	Type   string
	Object string
}

// String 返回 type/object 形式
func (k ObjectKey) String() string {
	return k.Type + "/" + k.Object
}

// ============================================================================
//                              统计数据
// ============================================================================

// Level 汇总层级
type Level string

const (
	LevelComponent Level = "component"
	LevelObject    Level = "object"
	LevelType      Level = "type"
	LevelTotal     Level = "total"
)

// Stats 单个节点的变化统计快照
type Stats struct {
	// TotalBits 已折叠的变化位数累计
	TotalBits int64

	// BytesPerSecond 滑动窗口速率
	BytesPerSecond int

	// Samples 窗口样本数（0..32）
	Samples int
}

// TotalBytes 累计变化字节数（向上取整）
func (s Stats) TotalBytes() int64 {
	return (s.TotalBits + 7) / 8
}

// NodeStats 带标识的节点统计
type NodeStats struct {
	Level Level
	Key   Key
	Stats Stats
}

// FoldResult 一次折叠的结果
type FoldResult struct {
	// Now 折叠时刻（会话开始后的秒数）
	Now float64

	// Bits 本次折叠的总变化位数
	Bits int

	// Objects 当前追踪的对象数
	Objects int
}

// Report 会话统计报告
type Report struct {
	SessionID  string
	Timestamp  time.Time
	Elapsed    float64
	Total      Stats
	Types      []NodeStats
	Objects    []NodeStats
	Components []NodeStats
	Violations int
}

// ============================================================================
//                              会话接口
// ============================================================================

// Session 状态变化追踪会话
//
// 使用示例:
//
//	bits, err := session.Observe(statetrack.Key{Type: "Player", Object: "42", Component: "Health"}, state)
//
//	// 每帧一次
//	session.Fold()
//	report := session.Snapshot()
type Session interface {
	// Observe 记录一次组件状态观测，返回相对上次观测变化的位数
	//
	// 首次观测建立基线并返回 0。
	Observe(key Key, state []byte) (int, error)

	// Fold 把本帧累加的变化折叠进所有节点的滑动窗口
	Fold() FoldResult

	// Stats 获取组件统计
	Stats(key Key) (Stats, bool)

	// ObjectStats 获取对象统计
	ObjectStats(key ObjectKey) (Stats, bool)

	// TypeStats 获取类型统计
	TypeStats(typ string) (Stats, bool)

	// Totals 获取会话总量统计
	Totals() Stats

	// Snapshot 生成完整报告
	Snapshot() Report

	// Forget 停止追踪对象及其全部组件
	Forget(key ObjectKey) bool

	// TrimIdle 清理超过 idle 时长未观测的对象
	TrimIdle(idle time.Duration) int

	// Reset 清空所有窗口与累计量，保留已注册的实体
	Reset()
}
