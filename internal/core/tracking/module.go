package tracking

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// ============================================================================
//                              模块输入输出
// ============================================================================

// ModuleInput 模块输入依赖
type ModuleInput struct {
	fx.In

	// Config 统一配置（可选）
	Config *config.Config `optional:"true"`

	// Clock 时间源（可选）
	Clock clock.Clock `optional:"true"`

	// SessionID 会话标识（可选）
	SessionID string `name:"session_id" optional:"true"`
}

// ModuleOutput 模块输出服务
type ModuleOutput struct {
	fx.Out

	Session   *Session
	Interface statetrack.Session
}

// ProvideServices 提供会话
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg, err := ConfigFromUnified(input.Config)
	if err != nil {
		return ModuleOutput{}, err
	}

	opts := []Option{WithID(input.SessionID)}
	if input.Clock != nil {
		opts = append(opts, WithClock(input.Clock))
	}

	session, err := NewSession(cfg, opts...)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Session:   session,
		Interface: session,
	}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("tracking",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Session *Session
	Config  *config.Config `optional:"true"`
}

// registerLifecycle 注册自动折叠、空闲清理与周期报告
func registerLifecycle(input lifecycleInput) error {
	cfg, err := ConfigFromUnified(input.Config)
	if err != nil {
		return err
	}

	report := config.DefaultReportConfig()
	if input.Config != nil {
		report = input.Config.Report
	}

	runner := NewRunner(input.Session, cfg)
	reporter := NewReporter(input.Session, WithTopN(report.TopN))

	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("状态追踪模块启动",
				"session", input.Session.ID(),
				"fold_interval", cfg.FoldInterval,
				"max_objects", cfg.MaxObjects,
				"mismatch_policy", cfg.MismatchPolicy.String(),
			)
			runner.Start()
			if report.Enabled && report.Interval > 0 {
				reporter.Start(report.Interval.Duration())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			reporter.Stop()
			runner.Stop()
			log.Info("状态追踪模块停止", "session", input.Session.ID())
			return nil
		},
	})
	return nil
}

// 模块元信息常量
const (
	Version     = "1.0.0"
	Name        = "tracking"
	Description = "网络状态变化追踪模块，提供组件/对象/类型三级位变化与字节速率统计"
)
