// Package logger 提供 netstate 的分级日志
//
// 环境变量：
//   - NETSTATE_LOG_LEVEL: 子系统=级别,子系统=级别,默认级别
//     示例: tracking=debug,changerate=warn,info
//   - NETSTATE_LOG_FORMAT: text 或 json
//   - NETSTATE_LOG_ADD_SOURCE: true 或 false
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 未单独配置的子系统使用的级别
	DefaultLevel slog.Level

	// SubsystemLevels 按子系统覆盖的级别
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否输出源码位置
	AddSource bool
}

// LevelForSubsystem 获取子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configOnce  sync.Once
)

// ConfigFromEnv 从环境变量解析配置，结果只解析一次
func ConfigFromEnv() *Config {
	configOnce.Do(func() {
		configCache = parseEnv()
	})
	return configCache
}

func parseEnv() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}

	if levelStr := os.Getenv("NETSTATE_LOG_LEVEL"); levelStr != "" {
		cfg.DefaultLevel, cfg.SubsystemLevels = ParseLevels(levelStr, cfg.DefaultLevel)
	}

	if strings.EqualFold(os.Getenv("NETSTATE_LOG_FORMAT"), "json") {
		cfg.Format = FormatJSON
	}

	if v := os.Getenv("NETSTATE_LOG_ADD_SOURCE"); v != "" {
		cfg.AddSource = v != "false" && v != "0"
	}

	return cfg
}

// ParseLevels 解析级别配置字符串
//
// 格式: subsystem=level,subsystem=level,defaultLevel
// 无法识别的片段被忽略，未给出默认级别时返回 fallback。
func ParseLevels(spec string, fallback slog.Level) (slog.Level, map[string]slog.Level) {
	def := fallback
	levels := make(map[string]slog.Level)

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, value, found := strings.Cut(part, "=")
		if !found {
			if level, ok := ParseLevel(part); ok {
				def = level
			}
			continue
		}
		if level, ok := ParseLevel(strings.TrimSpace(value)); ok {
			levels[strings.TrimSpace(name)] = level
		}
	}

	return def, levels
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResetConfig 重置配置缓存（仅用于测试）
func ResetConfig() {
	configOnce = sync.Once{}
	configCache = nil
}
