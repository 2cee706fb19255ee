package config

import (
	"errors"
	"regexp"
)

var namespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否注册指标收集器
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace 指标名前缀
	// 默认值: "netstate"
	Namespace string `json:"namespace" yaml:"namespace"`

	// IncludeComponents 是否导出组件级序列（基数较高）
	// 默认值: false
	IncludeComponents bool `json:"include_components" yaml:"include_components"`

	// ListenAddr 命令行工具暴露 /metrics 的地址，空表示不监听
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认的指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "netstate",
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !namespaceRe.MatchString(c.Namespace) {
		return errors.New("metrics.namespace must be a valid metric name prefix")
	}
	return nil
}
