// Package main 提供 netstate 命令行入口
//
// 模拟若干对象的组件状态随机变化，逐 tick 计算位差异并折叠进速率窗口，
// 定期输出报告，可选在 -metrics-addr 暴露 Prometheus 指标。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-netstate"
	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/tracking"
	"github.com/dep2p/go-netstate/internal/util/logger"
)

// Version 版本号，构建时通过 -ldflags 注入
var Version = "dev"

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径（.json / .yaml）")
	preset      = flag.String("preset", "", "预设配置 (development/production/minimal)")
	objects     = flag.Int("objects", 64, "模拟对象数")
	components  = flag.Int("components", 4, "每个对象的组件数")
	stateSize   = flag.Int("state-size", 32, "组件序列化状态字节数")
	mutation    = flag.Float64("mutation", 0.1, "每 tick 每字节被改写的概率")
	tick        = flag.Duration("tick", 50*time.Millisecond, "模拟 tick 间隔")
	duration    = flag.Duration("duration", 0, "运行时长（0 = 直到收到信号）")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus /metrics 监听地址（空 = 不监听）")
	seed        = flag.Int64("seed", 0, "随机种子（0 = 使用当前时间）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Printf("netstate %s (tracking %s)\n", Version, tracking.Version)
		return nil
	}

	opts, err := buildOptions()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	sim, err := newSimulator(simConfig{
		Objects:    *objects,
		Components: *components,
		StateSize:  *stateSize,
		Mutation:   *mutation,
		Seed:       *seed,
	})
	if err != nil {
		return err
	}

	m, err := netstate.New(opts...)
	if err != nil {
		return fmt.Errorf("创建监视器失败: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := m.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Stop(stopCtx); err != nil {
			log.Warn("停止监视器失败", "error", err)
		}
	}()

	addr := *metricsAddr
	if addr == "" {
		addr = m.Config().Metrics.ListenAddr
	}

	log.Info("开始模拟",
		"session", m.ID(),
		"objects", *objects,
		"components", *components,
		"state_size", *stateSize,
		"tick", tick.String(),
	)

	g, gctx := errgroup.WithContext(ctx)

	// 配置了自动折叠时由后台循环折叠，否则每 tick 折叠一次
	manualFold := m.Config().Tracking.FoldInterval <= 0
	g.Go(func() error {
		return sim.Run(gctx, m, *tick, manualFold)
	})
	if addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, addr, m.MetricsHandler())
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	printSummary(m.Snapshot())
	return nil
}

// buildOptions 构建选项
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 预设
//  3. 配置文件
func buildOptions() ([]netstate.Option, error) {
	var opts []netstate.Option

	if *configFile != "" {
		cfg, err := config.LoadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		opts = append(opts, netstate.WithConfig(cfg))
	}

	if *preset != "" {
		opts = append(opts, netstate.WithPreset(*preset))
	}

	if *metricsAddr != "" {
		opts = append(opts, netstate.WithMetrics(true))
	}

	if *objects > 0 {
		// 留出余量，避免模拟对象被 LRU 淘汰
		opts = append(opts, netstate.WithMaxObjects(*objects*2))
	}

	return opts, nil
}

// serveMetrics 提供 /metrics 服务，ctx 结束时关闭
func serveMetrics(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("指标服务已启动", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return ctx.Err()
}

// printSummary 打印最终统计
func printSummary(report netstate.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Printf("  会话:       %s\n", report.SessionID)
	fmt.Printf("  运行时长:   %.1fs\n", report.Elapsed)
	fmt.Printf("  总变化量:   %s\n", tracking.FormatBytes(report.Total.TotalBytes()))
	fmt.Printf("  当前速率:   %s\n", tracking.FormatRate(report.Total.BytesPerSecond))
	fmt.Printf("  追踪对象:   %d\n", len(report.Objects))
	if report.Violations > 0 {
		fmt.Printf("  违规记录:   %d\n", report.Violations)
	}
	fmt.Println("───────────────────────────────────────────────────────")
	for _, t := range report.Types {
		fmt.Printf("  %-12s %10s  %s\n",
			t.Key.Type,
			tracking.FormatRate(t.Stats.BytesPerSecond),
			tracking.FormatBytes(t.Stats.TotalBytes()),
		)
	}
	fmt.Println("═══════════════════════════════════════════════════════")
}
