package tracking

import (
	"fmt"
	"time"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/statediff"
)

// Config 会话配置
type Config struct {
	// MismatchPolicy 序列化长度变化时的处理方式
	MismatchPolicy statediff.MismatchPolicy

	// MaxObjects 对象上限
	MaxObjects int

	// FoldInterval 自动折叠间隔，0 表示不自动折叠
	FoldInterval time.Duration

	// TrimInterval 空闲清理间隔，0 表示不清理
	TrimInterval time.Duration

	// IdleTimeout 空闲超时
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MismatchPolicy: statediff.MismatchResync,
		MaxObjects:     4096,
		TrimInterval:   time.Minute,
		IdleTimeout:    5 * time.Minute,
	}
}

// ConfigFromUnified 从统一配置创建会话配置
func ConfigFromUnified(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return DefaultConfig(), nil
	}

	policy, err := statediff.ParseMismatchPolicy(cfg.Tracking.MismatchPolicy)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return Config{
		MismatchPolicy: policy,
		MaxObjects:     cfg.Tracking.MaxObjects,
		FoldInterval:   cfg.Tracking.FoldInterval.Duration(),
		TrimInterval:   cfg.Tracking.TrimInterval.Duration(),
		IdleTimeout:    cfg.Tracking.IdleTimeout.Duration(),
	}, nil
}
