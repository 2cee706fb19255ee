package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// TrackingConfig 状态变化追踪配置
type TrackingConfig struct {
	// MismatchPolicy 序列化长度变化时的处理方式
	//   - "resync": 重建快照，按新实体追踪
	//   - "fail": 返回错误，快照不变
	// 默认值: "resync"
	MismatchPolicy string `json:"mismatch_policy" yaml:"mismatch_policy"`

	// MaxObjects 同时追踪的对象上限，超出时淘汰最久未观测的对象
	// 默认值: 4096
	MaxObjects int `json:"max_objects" yaml:"max_objects"`

	// FoldInterval 自动折叠间隔，0 表示由宿主调用 Fold
	// 默认值: 0
	FoldInterval Duration `json:"fold_interval" yaml:"fold_interval"`

	// TrimInterval 清理空闲对象的间隔，0 表示不清理
	// 默认值: 1m
	TrimInterval Duration `json:"trim_interval" yaml:"trim_interval"`

	// IdleTimeout 对象超过此时长未观测即被清理
	// 默认值: 5m
	IdleTimeout Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// DefaultTrackingConfig 返回默认的追踪配置
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		MismatchPolicy: "resync",
		MaxObjects:     4096,
		TrimInterval:   Duration(time.Minute),
		IdleTimeout:    Duration(5 * time.Minute),
	}
}

// Validate 验证追踪配置
func (c *TrackingConfig) Validate() error {
	var err error

	switch c.MismatchPolicy {
	case "resync", "fail":
	default:
		err = multierr.Append(err, fmt.Errorf("tracking.mismatch_policy: unknown policy %q", c.MismatchPolicy))
	}

	if c.MaxObjects <= 0 {
		err = multierr.Append(err, fmt.Errorf("tracking.max_objects must be positive, got %d", c.MaxObjects))
	}
	if c.FoldInterval < 0 {
		err = multierr.Append(err, errors.New("tracking.fold_interval must not be negative"))
	}
	if c.TrimInterval > 0 && c.IdleTimeout <= 0 {
		err = multierr.Append(err, errors.New("tracking.idle_timeout must be positive when trimming is enabled"))
	}

	return err
}
