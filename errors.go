package netstate

import (
	"errors"

	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/internal/core/tracking"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// Monitor 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted Monitor 未启动
	ErrNotStarted = errors.New("monitor not started")

	// ErrAlreadyStarted Monitor 已启动
	ErrAlreadyStarted = errors.New("monitor already started")

	// ErrClosed Monitor 已停止
	ErrClosed = errors.New("monitor closed")

	// ErrMetricsDisabled 指标导出未启用
	ErrMetricsDisabled = errors.New("metrics disabled")

	// ────────────────────────────────────────────────────────────────────────
	// 追踪错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrLengthMismatch 当前状态与快照长度不一致
	ErrLengthMismatch = statediff.ErrLengthMismatch

	// ErrResynced 快照已按新长度重建
	ErrResynced = statediff.ErrResynced

	// ErrInvalidKey 组件标识缺少字段
	ErrInvalidKey = tracking.ErrInvalidKey
)
