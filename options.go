package netstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-netstate/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置，nil 时使用默认配置
	config *config.Config

	// 预设名称，在 config 之上应用
	preset string

	// 时间源
	clock clock.Clock

	// 外部 Prometheus 注册表
	registry *prometheus.Registry

	// 会话标识，空时生成 UUID
	sessionID string

	// 覆盖项，在预设之后应用
	overrides []func(*config.Config)
}

func newOptions() *options {
	return &options{}
}

// apply 应用所有选项
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// buildConfig 合并配置、预设与覆盖项并验证
func (o *options) buildConfig() (*config.Config, error) {
	cfg := o.config
	if cfg == nil {
		cfg = config.NewConfig()
	} else {
		clone := *cfg
		cfg = &clone
	}

	if err := config.ApplyPreset(cfg, o.preset); err != nil {
		return nil, err
	}
	for _, fn := range o.overrides {
		fn(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用给定的统一配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用预设（development / production / minimal）
func WithPreset(name string) Option {
	return func(o *options) error {
		o.preset = name
		return nil
	}
}

// WithClock 使用给定的时间源，测试中传入 clock.NewMock()
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("clock is nil")
		}
		o.clock = c
		return nil
	}
}

// WithRegistry 把指标注册到外部 Registry
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registry is nil")
		}
		o.registry = reg
		return nil
	}
}

// WithSessionID 指定会话标识
func WithSessionID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return errors.New("session id is empty")
		}
		o.sessionID = id
		return nil
	}
}

// WithFoldInterval 设置自动折叠间隔，0 表示由调用方手动 Fold
func WithFoldInterval(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("fold interval must be non-negative, got %v", d)
		}
		o.overrides = append(o.overrides, func(c *config.Config) {
			c.Tracking.FoldInterval = config.Duration(d)
		})
		return nil
	}
}

// WithReportInterval 设置报告间隔，0 表示关闭周期报告
func WithReportInterval(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("report interval must be non-negative, got %v", d)
		}
		o.overrides = append(o.overrides, func(c *config.Config) {
			c.Report.Enabled = d > 0
			c.Report.Interval = config.Duration(d)
		})
		return nil
	}
}

// WithMaxObjects 设置最多追踪的对象数
func WithMaxObjects(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max objects must be positive, got %d", n)
		}
		o.overrides = append(o.overrides, func(c *config.Config) {
			c.Tracking.MaxObjects = n
		})
		return nil
	}
}

// WithMetrics 开启或关闭 Prometheus 指标
func WithMetrics(enabled bool) Option {
	return func(o *options) error {
		o.overrides = append(o.overrides, func(c *config.Config) {
			c.Metrics.Enabled = enabled
		})
		return nil
	}
}
