package config

import (
	"fmt"
	"strings"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，格式同 NETSTATE_LOG_LEVEL
	// 示例: "tracking=debug,info"；空表示沿用环境变量
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// FxEvents 是否输出 fx 容器事件
	// 默认值: false
	FxEvents bool `json:"fx_events" yaml:"fx_events"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{}
}

// Validate 验证日志配置
func (c *LogConfig) Validate() error {
	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, level, found := strings.Cut(part, "="); found {
			part = level
		}
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("log.level: unknown level %q", part)
		}
	}
	return nil
}
