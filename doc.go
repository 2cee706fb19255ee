// Package netstate 测量网络对象序列化状态的变化量
//
// 每个模拟 tick，宿主把网络组件当前的序列化状态交给 netstate，
// netstate 计算相对上一 tick 变化的位数，并用 32 样本的滑动窗口
// 估算每秒变化的字节数，按组件 / 对象 / 类型三级汇总。
//
// # 原语
//
// 不需要分级汇总时，可直接使用两个原语：
//
//	d := netstate.NewDiffer(initial)
//	r := netstate.NewRateTracker()
//
//	// 每个 tick
//	bits, _ := d.ExchangeState(current)
//	r.AccumulateChange(bits)
//
//	// 每帧
//	total += r.ProcessAccumulatedChanges(now)
//	fmt.Println(r.BytesPerSecond())
//
// # Monitor
//
// Monitor 组装完整的追踪会话、自动折叠、周期报告与 Prometheus 导出：
//
//	m, err := netstate.New(
//	    netstate.WithPreset("production"),
//	    netstate.WithMaxObjects(1024),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Stop(context.Background())
//
//	m.Observe(netstate.Key{Type: "Player", Object: "7", Component: "Transform"}, state)
//
//	http.Handle("/metrics", m.MetricsHandler())
//
// # 并发
//
// Differ 与 RateTracker 不是并发安全的；Monitor 与其会话可被多个
// goroutine 同时使用。
package netstate
