package config

import (
	"errors"
	"time"
)

// ReportConfig 周期性报告配置
type ReportConfig struct {
	// Enabled 是否输出周期报告
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Interval 报告间隔
	// 默认值: 10s
	Interval Duration `json:"interval" yaml:"interval"`

	// TopN 报告中列出的对象数
	// 默认值: 5
	TopN int `json:"top_n" yaml:"top_n"`
}

// DefaultReportConfig 返回默认的报告配置
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Enabled:  true,
		Interval: Duration(10 * time.Second),
		TopN:     5,
	}
}

// Validate 验证报告配置
func (c *ReportConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Interval <= 0 {
		return errors.New("report.interval must be positive")
	}
	if c.TopN < 0 {
		return errors.New("report.top_n must not be negative")
	}
	return nil
}
