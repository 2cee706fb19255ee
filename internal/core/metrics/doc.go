// Package metrics 以 Prometheus 指标导出状态变化统计
//
// Collector 在每次抓取时读取会话快照，导出：
//   - <ns>_bytes_per_second{level,type,object,component}  滑动窗口速率
//   - <ns>_changed_bits_total{level,type,object,component} 累计变化位数
//   - <ns>_tracked_objects                                 追踪中的对象数
//   - <ns>_contract_violations_total                       被钳制的负值记录次数
//
// level 取值为 total / type / object / component。组件级序列默认关闭，
// 由 MetricsConfig.IncludeComponents 打开。
//
// # Fx 模块
//
//	app := fx.New(
//	    tracking.Module(),
//	    metrics.Module(),
//	    fx.Invoke(func(h http.Handler) { ... }),  // name:"metrics_handler"
//	)
package metrics
