// Package statediff 计算序列化状态的逐位差异
//
// Differ 保存实体上一次观测到的状态快照。每次调用 ExchangeState
// 时，逐字节对比上次快照与当前状态，用 256 项的 popcount 查找表
// 统计变化的位数，然后用当前状态覆盖快照。
//
// # 使用示例
//
//	d := statediff.New(initial, statediff.WithMismatchPolicy(statediff.MismatchResync))
//
//	// 每个 tick
//	bits, err := d.ExchangeState(current)
//	if errors.Is(err, statediff.ErrResynced) {
//	    // 序列化长度变化，按新实体处理
//	}
//
// # 长度不一致
//
// 当前状态与快照长度不同属于调用方错误，处理方式由 MismatchPolicy 决定：
//   - MismatchFail: 返回 ErrLengthMismatch，快照保持不变
//   - MismatchResync: 以当前状态重建快照，返回 ErrResynced
//
// 两种策略都不会返回错误的位数。
//
// # 并发
//
// Differ 不是并发安全的，由调用方在单个 tick 循环内串行使用。
package statediff
