package netstate

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/metrics"
	"github.com/dep2p/go-netstate/internal/core/tracking"
	"github.com/dep2p/go-netstate/internal/util/logger"
)

// metricsParams 指标模块输出
type metricsParams struct {
	fx.In

	Handler http.Handler `name:"metrics_handler"`
}

// buildFxApp 构建 Fx 应用
//
// 模块加载顺序：
//  1. 配置、时间源、会话标识
//  2. tracking（会话、自动折叠、周期报告）
//  3. metrics（可选，Prometheus 收集器与 HTTP handler）
func buildFxApp(m *Monitor, cfg *config.Config, opts *options) (*fx.App, error) {
	if cfg.Log.Level != "" {
		logger.ApplyLevels(cfg.Log.Level)
	}

	fxOptions := []fx.Option{
		fx.WithLogger(fxLogger(cfg.Log.FxEvents)),

		// ════════════════════════════════════════════════════════════════════
		// 基础依赖
		// ════════════════════════════════════════════════════════════════════
		fx.Supply(cfg),
		fx.Provide(
			fx.Annotate(
				func() string { return m.id },
				fx.ResultTags(`name:"session_id"`),
			),
		),
	}

	if opts.clock != nil {
		c := opts.clock
		fxOptions = append(fxOptions, fx.Provide(func() clock.Clock { return c }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 追踪
	// ════════════════════════════════════════════════════════════════════════
	fxOptions = append(fxOptions,
		tracking.Module(),
		fx.Populate(&m.session),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 指标
	// ════════════════════════════════════════════════════════════════════════
	if cfg.Metrics.Enabled {
		if opts.registry != nil {
			reg := opts.registry
			fxOptions = append(fxOptions, fx.Provide(func() *prometheus.Registry { return reg }))
		}
		fxOptions = append(fxOptions,
			metrics.Module(),
			fx.Invoke(func(p metricsParams) { m.handler = p.Handler }),
		)
	}

	app := fx.New(fxOptions...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return app, nil
}

// fxLogger 返回 fx 事件日志器，未开启时丢弃所有事件
func fxLogger(enabled bool) func() fxevent.Logger {
	return func() fxevent.Logger {
		if !enabled {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		return &fxevent.ZapLogger{Logger: zl.Named("fx")}
	}
}
