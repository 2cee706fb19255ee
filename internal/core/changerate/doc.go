// Package changerate 把逐 tick 的位变化量换算成平滑的字节速率
//
// Tracker 在一个采样区间内累加位变化（AccumulateChange），由调用方按帧
// 调用 ProcessAccumulatedChanges 把累加值折叠进一个容量为 32 的滑动窗口。
// 窗口填满后，每次折叠都会淘汰最旧的样本，并用窗口内全部样本重新计算
// 速率：
//
//	rate = ceil(sum(bits) / 8 / (now - oldest.Time))
//
// 时间跨度不超过 1ms 时保留上一次的速率。
//
// # 状态
//
//	Empty  ──折叠──▶  Filling (1..31)  ──折叠──▶  Full (32)
//	  ▲                                            │
//	  └───────────────────── Clear ────────────────┘
//
// 前 32 次折叠只填充窗口，速率保持 0；第 33 次折叠起每次都会重新计算。
//
// # 使用示例
//
//	tr := changerate.NewTracker()
//
//	// 每个 tick，可多次累加
//	tr.AccumulateChange(bits)
//
//	// 每帧一次
//	total += tr.ProcessAccumulatedChanges(now)
//	fmt.Println(tr.BytesPerSecond())
//
// # 并发
//
// Tracker 不是并发安全的，调用方需保证串行访问。
package changerate
