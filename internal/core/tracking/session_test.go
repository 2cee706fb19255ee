package tracking

import (
	"bytes"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

var (
	playerHealth    = statetrack.Key{Type: "Player", Object: "1", Component: "Health"}
	playerTransform = statetrack.Key{Type: "Player", Object: "1", Component: "Transform"}
	otherPlayer     = statetrack.Key{Type: "Player", Object: "2", Component: "Health"}
	enemyHealth     = statetrack.Key{Type: "Enemy", Object: "9", Component: "Health"}
)

func newTestSession(t *testing.T, opts ...func(*Config)) (*Session, *clock.Mock) {
	t.Helper()

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	mock := clock.NewMock()
	s, err := NewSession(cfg, WithClock(mock), WithID("test"))
	require.NoError(t, err)
	return s, mock
}

// filled 返回 n 字节、每字节为 b 的缓冲区
func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

// ============================================================================
//                              观测与分发
// ============================================================================

// TestSession_FirstObservation 首次观测建立基线
func TestSession_FirstObservation(t *testing.T) {
	s, _ := newTestSession(t)

	bits, err := s.Observe(playerHealth, filled(4, 0xFF))
	require.NoError(t, err)
	assert.Zero(t, bits)
	assert.Equal(t, 1, s.Len())

	stats, ok := s.Stats(playerHealth)
	require.True(t, ok)
	assert.Zero(t, stats.TotalBits)
}

// TestSession_FanOut 同一变化累加到组件、对象、类型与总量
func TestSession_FanOut(t *testing.T) {
	s, _ := newTestSession(t)

	_, _ = s.Observe(playerHealth, filled(2, 0x00))
	_, _ = s.Observe(playerTransform, filled(4, 0x00))
	_, _ = s.Observe(enemyHealth, filled(1, 0x00))

	bits, err := s.Observe(playerHealth, filled(2, 0x0F))
	require.NoError(t, err)
	assert.Equal(t, 8, bits)

	bits, err = s.Observe(playerTransform, filled(4, 0x01))
	require.NoError(t, err)
	assert.Equal(t, 4, bits)

	bits, err = s.Observe(enemyHealth, filled(1, 0xFF))
	require.NoError(t, err)
	assert.Equal(t, 8, bits)

	result := s.Fold()
	assert.Equal(t, 20, result.Bits)
	assert.Equal(t, 2, result.Objects)

	health, _ := s.Stats(playerHealth)
	assert.Equal(t, int64(8), health.TotalBits)
	assert.Equal(t, 1, health.Samples)

	transform, _ := s.Stats(playerTransform)
	assert.Equal(t, int64(4), transform.TotalBits)

	player, ok := s.ObjectStats(playerHealth.ObjectKey())
	require.True(t, ok)
	assert.Equal(t, int64(12), player.TotalBits)

	playerType, ok := s.TypeStats("Player")
	require.True(t, ok)
	assert.Equal(t, int64(12), playerType.TotalBits)

	enemyType, _ := s.TypeStats("Enemy")
	assert.Equal(t, int64(8), enemyType.TotalBits)

	assert.Equal(t, int64(20), s.Totals().TotalBits)
}

// TestSession_RateAcrossLevels 每秒 800 位、33 帧后各级速率均为 104 B/s
func TestSession_RateAcrossLevels(t *testing.T) {
	s, mock := newTestSession(t)

	zero, ones := filled(100, 0x00), filled(100, 0xFF)
	_, err := s.Observe(playerHealth, zero)
	require.NoError(t, err)

	for i := 0; i < 33; i++ {
		state := ones
		if i%2 == 1 {
			state = zero
		}
		bits, err := s.Observe(playerHealth, state)
		require.NoError(t, err)
		require.Equal(t, 800, bits)

		s.Fold()
		if i < 32 {
			require.Zero(t, s.Totals().BytesPerSecond, "frame %d", i)
		}
		mock.Add(time.Second)
	}

	comp, _ := s.Stats(playerHealth)
	obj, _ := s.ObjectStats(playerHealth.ObjectKey())
	typ, _ := s.TypeStats("Player")
	total := s.Totals()

	for _, stats := range []statetrack.Stats{comp, obj, typ, total} {
		assert.Equal(t, 104, stats.BytesPerSecond)
		assert.Equal(t, int64(33*800), stats.TotalBits)
		assert.Equal(t, 32, stats.Samples)
	}
}

func TestSession_InvalidKey(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Observe(statetrack.Key{Type: "Player", Object: "1"}, []byte{1})
	assert.ErrorIs(t, err, ErrInvalidKey)

	err = s.Record(statetrack.Key{Object: "1", Component: "Health"}, 1)
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Zero(t, s.Len())
}

// ============================================================================
//                              长度变化
// ============================================================================

// TestSession_Resync 长度变化时组件按新实体重新开始
func TestSession_Resync(t *testing.T) {
	s, _ := newTestSession(t)

	_, _ = s.Observe(playerHealth, filled(2, 0x00))
	_, _ = s.Observe(playerHealth, filled(2, 0xFF))
	s.Fold()

	before, _ := s.Stats(playerHealth)
	require.Equal(t, int64(16), before.TotalBits)

	bits, err := s.Observe(playerHealth, filled(3, 0xFF))
	assert.ErrorIs(t, err, statediff.ErrResynced)
	assert.Zero(t, bits)

	after, _ := s.Stats(playerHealth)
	assert.Zero(t, after.TotalBits)
	assert.Zero(t, after.Samples)

	// 对象与总量不受影响
	obj, _ := s.ObjectStats(playerHealth.ObjectKey())
	assert.Equal(t, int64(16), obj.TotalBits)

	bits, err = s.Observe(playerHealth, filled(3, 0xFF))
	require.NoError(t, err)
	assert.Zero(t, bits)
}

func TestSession_MismatchFail(t *testing.T) {
	s, _ := newTestSession(t, func(c *Config) {
		c.MismatchPolicy = statediff.MismatchFail
	})

	_, _ = s.Observe(playerHealth, filled(2, 0x00))
	_, err := s.Observe(playerHealth, filled(3, 0x00))
	assert.ErrorIs(t, err, statediff.ErrLengthMismatch)
	assert.Contains(t, err.Error(), playerHealth.String())

	// 快照未变，原长度仍可比较
	bits, err := s.Observe(playerHealth, filled(2, 0x01))
	require.NoError(t, err)
	assert.Equal(t, 2, bits)
}

// ============================================================================
//                              直接记录
// ============================================================================

func TestSession_Record(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.Record(playerHealth, 5))
	require.NoError(t, s.Record(playerHealth, 7))
	require.NoError(t, s.Record(playerHealth, -4))

	result := s.Fold()
	assert.Equal(t, 12, result.Bits)
	assert.Equal(t, 1, s.Snapshot().Violations)
}

// TestSession_RecordThenObserve Record 创建的组件在首次 Observe 时建立基线
func TestSession_RecordThenObserve(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.Record(playerHealth, 3))

	bits, err := s.Observe(playerHealth, []byte{0x00, 0x00})
	require.NoError(t, err)
	assert.Zero(t, bits)

	bits, err = s.Observe(playerHealth, []byte{0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 16, bits)

	assert.Equal(t, 19, s.Fold().Bits)
	stats, ok := s.Stats(playerHealth)
	require.True(t, ok)
	assert.Equal(t, int64(19), stats.TotalBits)
}

// TestSession_EmptyThenState 首个状态为空的组件在出现非空状态后开始计算差异
func TestSession_EmptyThenState(t *testing.T) {
	s, _ := newTestSession(t)

	for _, state := range [][]byte{nil, {}, {0x00}} {
		bits, err := s.Observe(playerHealth, state)
		require.NoError(t, err)
		assert.Zero(t, bits)
	}

	bits, err := s.Observe(playerHealth, []byte{0xFF})
	require.NoError(t, err)
	assert.Equal(t, 8, bits)

	s.Fold()
	assert.Equal(t, int64(8), s.Totals().TotalBits)
}

// ============================================================================
//                              对象管理
// ============================================================================

// TestSession_LRUEviction 超出上限时淘汰最久未观测的对象
func TestSession_LRUEviction(t *testing.T) {
	s, _ := newTestSession(t, func(c *Config) {
		c.MaxObjects = 2
	})

	_, _ = s.Observe(playerHealth, []byte{0})
	_, _ = s.Observe(otherPlayer, []byte{0})
	// 刷新 Player/1
	_, _ = s.Observe(playerHealth, []byte{1})
	_, _ = s.Observe(enemyHealth, []byte{0})

	assert.Equal(t, 2, s.Len())
	_, ok := s.ObjectStats(otherPlayer.ObjectKey())
	assert.False(t, ok, "least recently observed object evicted")
	_, ok = s.ObjectStats(playerHealth.ObjectKey())
	assert.True(t, ok)

	// 类型节点保留
	_, ok = s.TypeStats("Player")
	assert.True(t, ok)
}

func TestSession_Forget(t *testing.T) {
	s, _ := newTestSession(t)

	_, _ = s.Observe(playerHealth, []byte{0})
	assert.True(t, s.Forget(playerHealth.ObjectKey()))
	assert.False(t, s.Forget(playerHealth.ObjectKey()))

	_, ok := s.Stats(playerHealth)
	assert.False(t, ok)

	// 再次观测按新实体处理
	bits, err := s.Observe(playerHealth, []byte{0xFF})
	require.NoError(t, err)
	assert.Zero(t, bits)
}

func TestSession_TrimIdle(t *testing.T) {
	s, mock := newTestSession(t)

	_, _ = s.Observe(playerHealth, []byte{0})
	mock.Add(3 * time.Minute)
	_, _ = s.Observe(enemyHealth, []byte{0})
	mock.Add(3 * time.Minute)

	assert.Equal(t, 1, s.TrimIdle(5*time.Minute))
	assert.Equal(t, 1, s.Len())
	_, ok := s.ObjectStats(enemyHealth.ObjectKey())
	assert.True(t, ok)

	assert.Zero(t, s.TrimIdle(5*time.Minute))
}

// TestSession_Reset 清空统计但保留基线
func TestSession_Reset(t *testing.T) {
	s, mock := newTestSession(t)

	_, _ = s.Observe(playerHealth, filled(100, 0))
	for i := 0; i < 40; i++ {
		_, _ = s.Observe(playerHealth, filled(100, byte(i)))
		s.Fold()
		mock.Add(time.Second)
	}
	require.NotZero(t, s.Totals().BytesPerSecond)

	s.Reset()

	total := s.Totals()
	assert.Zero(t, total.BytesPerSecond)
	assert.Zero(t, total.TotalBits)
	assert.Zero(t, total.Samples)

	comp, ok := s.Stats(playerHealth)
	require.True(t, ok)
	assert.Zero(t, comp.TotalBits)

	// 基线保留：与最后一次状态相同则无变化
	bits, err := s.Observe(playerHealth, filled(100, 39))
	require.NoError(t, err)
	assert.Zero(t, bits)
}

// ============================================================================
//                              报告
// ============================================================================

func TestSession_Snapshot(t *testing.T) {
	s, mock := newTestSession(t)

	_, _ = s.Observe(playerHealth, []byte{0})
	_, _ = s.Observe(enemyHealth, []byte{0})
	mock.Add(time.Second)
	_, _ = s.Observe(playerHealth, []byte{0x01})
	_, _ = s.Observe(enemyHealth, []byte{0xFF})
	s.Fold()

	report := s.Snapshot()
	assert.Equal(t, "test", report.SessionID)
	assert.Equal(t, 1.0, report.Elapsed)
	assert.Equal(t, int64(9), report.Total.TotalBits)

	require.Len(t, report.Types, 2)
	assert.Equal(t, "Enemy", report.Types[0].Key.Type, "sorted by changed bits")
	assert.Equal(t, statetrack.LevelType, report.Types[0].Level)

	require.Len(t, report.Objects, 2)
	assert.Equal(t, "9", report.Objects[0].Key.Object)

	require.Len(t, report.Components, 2)
	assert.Equal(t, statetrack.LevelComponent, report.Components[0].Level)

	top := s.TopObjects(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Enemy", top[0].Key.Type)
	assert.Len(t, s.TopObjects(10), 2)
	assert.Empty(t, s.TopObjects(0))
	assert.NotPanics(t, func() {
		assert.Empty(t, s.TopObjects(-1))
	})
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxObjects = 0

	_, err := NewSession(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
