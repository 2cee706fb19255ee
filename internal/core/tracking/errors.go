package tracking

import "errors"

var (
	// ErrInvalidKey 组件标识缺少字段
	ErrInvalidKey = errors.New("invalid tracking key")

	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid tracking config")
)
