package netstate

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/dep2p/go-netstate/config"
	"github.com/dep2p/go-netstate/internal/core/tracking"
	"github.com/dep2p/go-netstate/internal/util/logger"
)

var log = logger.Logger("netstate")

// Monitor 网络状态变化监视器
//
// Monitor 组装追踪会话、自动折叠循环、周期报告与指标导出。
// 创建后即可 Observe / Fold；Start 启动后台循环，Stop 停止它们。
// 停止后的 Monitor 不能再次启动。
type Monitor struct {
	mu sync.Mutex

	id      string
	config  *config.Config
	app     *fx.App
	session *tracking.Session
	handler http.Handler

	started bool
	closed  bool
}

// New 创建 Monitor
//
// 示例：
//
//	m, err := netstate.New(netstate.WithPreset("production"))
func New(opts ...Option) (*Monitor, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("apply options: %w", err)
	}

	cfg, err := o.buildConfig()
	if err != nil {
		return nil, err
	}

	id := o.sessionID
	if id == "" {
		id = uuid.NewString()
	}

	m := &Monitor{
		id:     id,
		config: cfg,
	}

	app, err := buildFxApp(m, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	m.app = app

	log.Debug("监视器已创建",
		"session", id,
		"metrics", cfg.Metrics.Enabled,
		"fold_interval", cfg.Tracking.FoldInterval.String(),
	)
	return m, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动后台折叠、清理与报告循环
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.started {
		return ErrAlreadyStarted
	}

	if err := m.app.Start(ctx); err != nil {
		log.Error("监视器启动失败", "error", err)
		return fmt.Errorf("start fx app: %w", err)
	}

	m.started = true
	log.Info("监视器已启动", "session", m.id)
	return nil
}

// Stop 停止后台循环并注销指标
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if !m.started {
		return ErrNotStarted
	}

	m.started = false
	m.closed = true

	if err := m.app.Stop(ctx); err != nil {
		log.Error("停止监视器失败", "error", err)
		return fmt.Errorf("stop fx app: %w", err)
	}

	log.Info("监视器已停止", "session", m.id)
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              追踪
// ════════════════════════════════════════════════════════════════════════════

// ID 返回会话标识
func (m *Monitor) ID() string {
	return m.id
}

// Config 返回生效的配置
func (m *Monitor) Config() *config.Config {
	return m.config
}

// Session 返回底层追踪会话
func (m *Monitor) Session() Session {
	return m.session
}

// Observe 记录组件的当前序列化状态，返回相对上次观测变化的位数
func (m *Monitor) Observe(key Key, state []byte) (int, error) {
	return m.session.Observe(key, state)
}

// Record 直接记录组件的变化位数
func (m *Monitor) Record(key Key, bits int) error {
	return m.session.Record(key, bits)
}

// Fold 把累积的变化折叠进速率窗口
//
// 配置了 FoldInterval 时后台循环会自动调用；否则由宿主每帧调用一次。
func (m *Monitor) Fold() FoldResult {
	return m.session.Fold()
}

// Stats 返回组件统计
func (m *Monitor) Stats(key Key) (Stats, bool) {
	return m.session.Stats(key)
}

// Totals 返回会话总计
func (m *Monitor) Totals() Stats {
	return m.session.Totals()
}

// Snapshot 返回所有层级的统计报告
func (m *Monitor) Snapshot() Report {
	return m.session.Snapshot()
}

// TopObjects 返回速率最高的 n 个对象
func (m *Monitor) TopObjects(n int) []NodeStats {
	return m.session.TopObjects(n)
}

// Forget 停止追踪对象
func (m *Monitor) Forget(key ObjectKey) bool {
	return m.session.Forget(key)
}

// Reset 清空所有速率与累计值，保留已注册的组件与基线
func (m *Monitor) Reset() {
	m.session.Reset()
}

// MetricsHandler 返回 Prometheus HTTP handler，指标关闭时返回 503
func (m *Monitor) MetricsHandler() http.Handler {
	if m.handler == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, ErrMetricsDisabled.Error(), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}
