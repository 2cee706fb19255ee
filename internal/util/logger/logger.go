package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// 使用示例:
//
//	var log = logger.Logger("tracking")
//
//	log.Info("session reset", "objects", n)
//	log.Warn("state length changed", "key", key, "old", 64, "new", 72)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// levels 各子系统的级别变量，用于运行时调整
	levels sync.Map // map[string]*slog.LevelVar

	output   io.Writer = os.Stderr
	outputMu sync.RWMutex
)

// dynamicWriter 在每次写入时查找当前输出目标，
// 因此 SetOutput 对已创建的 Logger 同样生效
type dynamicWriter struct{}

func (dynamicWriter) Write(p []byte) (int, error) {
	outputMu.RLock()
	w := output
	outputMu.RUnlock()
	return w.Write(p)
}

// Logger 获取指定子系统的 Logger
//
// 同一子系统多次调用返回同一实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := levelVar(subsystem, cfg.LevelForSubsystem(subsystem))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				a.Key = "ts"
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelName(lvl))
				}
			}
			return a
		},
	}

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(dynamicWriter{}, opts)
	} else {
		h = slog.NewTextHandler(dynamicWriter{}, opts)
	}

	l := slog.New(h).With("subsystem", subsystem)
	actual, _ := loggers.LoadOrStore(subsystem, l)
	return actual.(*slog.Logger)
}

func levelVar(subsystem string, initial slog.Level) *slog.LevelVar {
	lv := new(slog.LevelVar)
	lv.Set(initial)
	actual, _ := levels.LoadOrStore(subsystem, lv)
	return actual.(*slog.LevelVar)
}

// SetLevel 运行时调整子系统的日志级别
//
// 子系统尚未创建 Logger 时，级别会在创建时生效。
func SetLevel(subsystem string, level slog.Level) {
	levelVar(subsystem, level).Set(level)
}

// ApplyLevels 按级别配置字符串批量调整日志级别
//
// 格式与 NETSTATE_LOG_LEVEL 相同；默认级别作用于所有已知子系统。
func ApplyLevels(spec string) {
	if spec == "" {
		return
	}

	def, overrides := ParseLevels(spec, ConfigFromEnv().DefaultLevel)
	cfg := ConfigFromEnv()
	cfg.DefaultLevel = def

	levels.Range(func(key, value any) bool {
		name := key.(string)
		if lvl, ok := overrides[name]; ok {
			value.(*slog.LevelVar).Set(lvl)
		} else {
			value.(*slog.LevelVar).Set(def)
		}
		return true
	})
	for name, lvl := range overrides {
		cfg.SubsystemLevels[name] = lvl
		SetLevel(name, lvl)
	}
}

// SetOutput 设置全局日志输出目标
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}

// Discard 返回丢弃所有日志的 Logger（用于测试）
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
