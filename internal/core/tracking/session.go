package tracking

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/internal/util/logger"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

var log = logger.Logger("tracking")

// Option 会话选项
type Option func(*Session)

// WithClock 设置时间源（测试中使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithID 设置会话标识
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// ============================================================================
//                              Session
// ============================================================================

// Session 分级状态变化追踪会话
type Session struct {
	mu sync.Mutex

	cfg   Config
	clock clock.Clock
	start time.Time
	id    string

	objects *lru.Cache[statetrack.ObjectKey, *objectNode]
	types   map[string]*typeNode
	total   node

	violations int
}

var _ statetrack.Session = (*Session)(nil)

// NewSession 创建会话
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.MaxObjects <= 0 {
		return nil, fmt.Errorf("%w: max objects must be positive, got %d", ErrInvalidConfig, cfg.MaxObjects)
	}

	s := &Session{
		cfg:   cfg,
		clock: clock.New(),
		types: make(map[string]*typeNode),
		total: newNode(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.clock.Now()

	objects, err := lru.NewWithEvict(cfg.MaxObjects, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s.objects = objects

	return s, nil
}

// onEvict 在持有 s.mu 时由 LRU 回调
func (s *Session) onEvict(key statetrack.ObjectKey, obj *objectNode) {
	if t := s.types[key.Type]; t != nil {
		t.objects--
	}
	log.Debug("停止追踪对象", "object", key.String(), "components", len(obj.components))
}

// ID 会话标识
func (s *Session) ID() string {
	return s.id
}

// Clock 会话时间源
func (s *Session) Clock() clock.Clock {
	return s.clock
}

// now 会话开始后的秒数
func (s *Session) now() float64 {
	return s.clock.Since(s.start).Seconds()
}

// ==================== 记录变化 ====================

// Observe 记录一次组件状态观测
//
// 首次观测建立基线并返回 0。序列化长度变化时按 MismatchPolicy 处理：
// resync 策略下组件的窗口被清空，按新实体重新开始，并返回 ErrResynced。
func (s *Session) Observe(key statetrack.Key, state []byte) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj := s.object(key.ObjectKey())
	comp, ok := obj.components[key.Component]
	if !ok {
		obj.components[key.Component] = &componentNode{
			node:   newNode(),
			differ: statediff.New(state, statediff.WithMismatchPolicy(s.cfg.MismatchPolicy)),
		}
		log.Debug("开始追踪组件", "key", key.String(), "size", len(state))
		return 0, nil
	}

	// 由 Record 创建或首个状态为空的组件尚无基线，以本次状态建立
	if comp.differ.Inert() && len(state) > 0 {
		comp.differ = statediff.New(state, statediff.WithMismatchPolicy(s.cfg.MismatchPolicy))
		log.Debug("建立组件基线", "key", key.String(), "size", len(state))
		return 0, nil
	}

	bits, err := comp.differ.ExchangeState(state)
	if errors.Is(err, statediff.ErrResynced) {
		comp.reset()
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	s.fanOut(obj, comp, bits)
	return bits, nil
}

// Record 直接记录组件的变化位数，用于宿主自行计算差异的场景
//
// 负值按 0 处理并计入违规次数。
func (s *Session) Record(key statetrack.Key, bits int) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if bits < 0 {
		s.violations++
		log.Warn("negative change record clamped", "key", key.String(), "bits", bits)
		bits = 0
	}

	obj := s.object(key.ObjectKey())
	comp, ok := obj.components[key.Component]
	if !ok {
		comp = &componentNode{
			node:   newNode(),
			differ: statediff.New(nil),
		}
		obj.components[key.Component] = comp
	}

	s.fanOut(obj, comp, bits)
	return nil
}

// fanOut 把同一位变化累加到四级节点
func (s *Session) fanOut(obj *objectNode, comp *componentNode, bits int) {
	comp.tracker.AccumulateChange(bits)
	obj.tracker.AccumulateChange(bits)
	s.types[obj.key.Type].tracker.AccumulateChange(bits)
	s.total.tracker.AccumulateChange(bits)
}

// object 获取或创建对象节点，并刷新其最近观测时间
func (s *Session) object(key statetrack.ObjectKey) *objectNode {
	now := s.clock.Now().UnixNano()

	if obj, ok := s.objects.Get(key); ok {
		obj.lastSeen = now
		return obj
	}

	t := s.types[key.Type]
	if t == nil {
		t = &typeNode{node: newNode()}
		s.types[key.Type] = t
	}

	obj := &objectNode{
		node:       newNode(),
		key:        key,
		components: make(map[string]*componentNode),
		lastSeen:   now,
	}
	// 先计数再插入，插入可能触发淘汰回调
	t.objects++
	s.objects.Add(key, obj)
	return obj
}

func validateKey(key statetrack.Key) error {
	if key.Type == "" || key.Object == "" || key.Component == "" {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key.String())
	}
	return nil
}

// ==================== 折叠 ====================

// Fold 把所有节点的累加值折叠进滑动窗口
func (s *Session) Fold() statetrack.FoldResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, obj := range s.objects.Values() {
		for _, comp := range obj.components {
			comp.fold(now)
		}
		obj.fold(now)
	}
	for _, t := range s.types {
		t.fold(now)
	}
	bits := s.total.fold(now)

	return statetrack.FoldResult{
		Now:     now,
		Bits:    bits,
		Objects: s.objects.Len(),
	}
}

// ==================== 查询 ====================

// Stats 获取组件统计
func (s *Session) Stats(key statetrack.Key) (statetrack.Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects.Peek(key.ObjectKey())
	if !ok {
		return statetrack.Stats{}, false
	}
	comp, ok := obj.components[key.Component]
	if !ok {
		return statetrack.Stats{}, false
	}
	return comp.stats(), true
}

// ObjectStats 获取对象统计
func (s *Session) ObjectStats(key statetrack.ObjectKey) (statetrack.Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects.Peek(key)
	if !ok {
		return statetrack.Stats{}, false
	}
	return obj.stats(), true
}

// TypeStats 获取类型统计
func (s *Session) TypeStats(typ string) (statetrack.Stats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.types[typ]
	if !ok {
		return statetrack.Stats{}, false
	}
	return t.stats(), true
}

// Totals 获取会话总量统计
func (s *Session) Totals() statetrack.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.stats()
}

// Len 当前追踪的对象数
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Len()
}

// Snapshot 生成完整报告，各级按速率降序排列
func (s *Session) Snapshot() statetrack.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := statetrack.Report{
		SessionID:  s.id,
		Timestamp:  s.clock.Now(),
		Elapsed:    s.now(),
		Total:      s.total.stats(),
		Violations: s.violations,
	}

	for typ, t := range s.types {
		report.Types = append(report.Types, statetrack.NodeStats{
			Level: statetrack.LevelType,
			Key:   statetrack.Key{Type: typ},
			Stats: t.stats(),
		})
	}

	for _, obj := range s.objects.Values() {
		report.Objects = append(report.Objects, statetrack.NodeStats{
			Level: statetrack.LevelObject,
			Key:   statetrack.Key{Type: obj.key.Type, Object: obj.key.Object},
			Stats: obj.stats(),
		})
		for name, comp := range obj.components {
			report.Components = append(report.Components, statetrack.NodeStats{
				Level: statetrack.LevelComponent,
				Key:   statetrack.Key{Type: obj.key.Type, Object: obj.key.Object, Component: name},
				Stats: comp.stats(),
			})
		}
	}

	sortNodes(report.Types)
	sortNodes(report.Objects)
	sortNodes(report.Components)
	return report
}

// TopObjects 速率最高的 n 个对象
func (s *Session) TopObjects(n int) []statetrack.NodeStats {
	objects := s.Snapshot().Objects
	if n < 0 {
		n = 0
	}
	if n < len(objects) {
		objects = objects[:n]
	}
	return objects
}

func sortNodes(nodes []statetrack.NodeStats) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Stats.BytesPerSecond != b.Stats.BytesPerSecond {
			return a.Stats.BytesPerSecond > b.Stats.BytesPerSecond
		}
		if a.Stats.TotalBits != b.Stats.TotalBits {
			return a.Stats.TotalBits > b.Stats.TotalBits
		}
		return a.Key.String() < b.Key.String()
	})
}

// ==================== 管理 ====================

// Forget 停止追踪对象及其全部组件
func (s *Session) Forget(key statetrack.ObjectKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects.Remove(key)
}

// TrimIdle 清理超过 idle 时长未观测的对象，返回清理数量
func (s *Session) TrimIdle(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-idle).UnixNano()
	trimmed := 0
	for _, key := range s.objects.Keys() {
		obj, ok := s.objects.Peek(key)
		if ok && obj.lastSeen < cutoff {
			s.objects.Remove(key)
			trimmed++
		}
	}
	if trimmed > 0 {
		log.Debug("清理空闲对象", "count", trimmed, "idle", idle)
	}
	return trimmed
}

// Reset 清空所有窗口与累计量
//
// 已注册的组件保留其状态快照，下一次观测仍与之比较。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range s.objects.Values() {
		for _, comp := range obj.components {
			comp.reset()
		}
		obj.reset()
	}
	for _, t := range s.types {
		t.reset()
	}
	s.total.reset()

	log.Info("会话统计已重置", "session", s.id, "objects", s.objects.Len())
}
