package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/util/logger"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

var log = logger.Logger("metrics")

// Params 模块依赖参数
type Params struct {
	fx.In

	Session  statetrack.Session
	Config   *config.Config       `optional:"true"`
	Registry *prometheus.Registry `optional:"true"`
}

// Result 模块输出
type Result struct {
	fx.Out

	Collector *Collector
	Registry  *prometheus.Registry `name:"metrics_registry"`
	Handler   http.Handler         `name:"metrics_handler"`
}

// Provide 创建收集器并注册到 Registry
//
// 未注入 Registry 时创建独立的 Registry，避免污染全局默认注册表。
func Provide(p Params) (Result, error) {
	cfg := config.DefaultMetricsConfig()
	if p.Config != nil {
		cfg = p.Config.Metrics
	}

	reg := p.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	collector := NewCollector(p.Session, cfg.Namespace, cfg.IncludeComponents)
	if err := reg.Register(collector); err != nil {
		return Result{}, err
	}

	return Result{
		Collector: collector,
		Registry:  reg,
		Handler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, nil
}

type lifecycleInput struct {
	fx.In

	LC        fx.Lifecycle
	Collector *Collector
	Registry  *prometheus.Registry `name:"metrics_registry"`
}

func registerLifecycle(in lifecycleInput) {
	in.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if !in.Registry.Unregister(in.Collector) {
				log.Debug("collector already unregistered")
			}
			return nil
		},
	})
}

// Module 是 metrics 的 Fx 模块
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(Provide),
		fx.Invoke(registerLifecycle),
	)
}
