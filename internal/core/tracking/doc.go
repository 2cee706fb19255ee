// Package tracking 按组件 / 对象 / 类型三级追踪网络状态变化
//
// Session 为每个被追踪的网络组件持有一个 statediff.Differ，并为层级中的
// 每个节点（组件、对象、类型、会话总量）各持有一个 changerate.Tracker。
// 一次观测得到的位变化会被同时累加到这四级节点上；每帧一次的 Fold
// 把所有节点的累加值折叠进各自的滑动窗口，并把返回的位数计入节点的
// 累计总量。
//
// # 快速开始
//
//	s, _ := tracking.NewSession(tracking.DefaultConfig())
//
//	// 每个网络 tick
//	s.Observe(statetrack.Key{Type: "Player", Object: "7", Component: "Transform"}, state)
//
//	// 每帧
//	s.Fold()
//
//	fmt.Println(s.Totals().BytesPerSecond)
//
// # 对象上限
//
// 对象保存在容量为 MaxObjects 的 LRU 中，超出时淘汰最久未观测的对象，
// 连同其全部组件一起停止追踪。类型节点不会被淘汰。
//
// # 并发安全
//
// Session 的所有方法都持有同一把互斥锁，可被 tick 循环、折叠循环、
// Reporter 与指标收集器同时调用。
//
// # Fx 模块
//
//	app := fx.New(
//	    fx.Supply(config.NewConfig()),
//	    tracking.Module(),
//	    fx.Invoke(func(s statetrack.Session) { ... }),
//	)
package tracking
