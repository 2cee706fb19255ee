package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FromJSON 从 JSON 数据创建配置，未出现的字段保留默认值
//
// 示例 JSON:
//
//	{
//	  "tracking": {"mismatch_policy": "resync", "fold_interval": "50ms"},
//	  "report": {"interval": "30s"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FromYAML 从 YAML 数据创建配置，未出现的字段保留默认值
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 按扩展名加载配置文件并验证
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = FromJSON(data)
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyPreset 应用预设配置
//
// 支持的预设：
//   - "development": 长度不一致即报错，输出调试日志与 fx 事件
//   - "production": 重建快照，50ms 自动折叠，30s 报告
//   - "minimal": 关闭报告与指标
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "development":
		cfg.Tracking.MismatchPolicy = "fail"
		cfg.Log.Level = "debug"
		cfg.Log.FxEvents = true
	case "production":
		cfg.Tracking.MismatchPolicy = "resync"
		cfg.Tracking.FoldInterval = Duration(50 * time.Millisecond)
		cfg.Report.Interval = Duration(30 * time.Second)
		cfg.Log.Level = "info"
	case "minimal":
		cfg.Report.Enabled = false
		cfg.Metrics.Enabled = false
	case "":
		// 空预设，不做任何操作
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
	return nil
}
