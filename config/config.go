// Package config 提供统一的配置管理
//
// 主 Config 由各子配置组成，每个子配置在独立文件中定义，
// 提供 DefaultXConfig() 与 Validate()。
//
// 使用示例：
//
//	// 默认配置
//	cfg := config.NewConfig()
//	cfg.Tracking.MaxObjects = 1024
//
//	// 预设
//	config.ApplyPreset(cfg, "production")
//
//	// 从文件加载（.json / .yaml / .yml）
//	cfg, err := config.LoadFile("netstate.yaml")
package config

import "go.uber.org/multierr"

// Config 是 netstate 的完整配置
//
//   - Tracking: 差异计算与分级追踪
//   - Report: 周期性日志报告
//   - Metrics: Prometheus 指标导出
//   - Log: 日志
type Config struct {
	// Tracking 追踪配置
	Tracking TrackingConfig `json:"tracking" yaml:"tracking"`

	// Report 报告配置
	Report ReportConfig `json:"report" yaml:"report"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Tracking: DefaultTrackingConfig(),
		Report:   DefaultReportConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// Validate 验证配置，返回所有子配置的错误
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Tracking.Validate(),
		c.Report.Validate(),
		c.Metrics.Validate(),
		c.Log.Validate(),
	)
}
