package statediff

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              差异计算
// ============================================================================

// TestDiffer_Correctness 随机缓冲区的位差等于逐字节 XOR 的置位数之和
func TestDiffer_Correctness(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, size := range []int{1, 3, 64, 1024} {
		a := make([]byte, size)
		b := make([]byte, size)
		rng.Read(a)
		rng.Read(b)

		want := 0
		for i := range a {
			want += bits.OnesCount8(a[i] ^ b[i])
		}

		d := New(a)
		got, err := d.ExchangeState(b)
		require.NoError(t, err)
		assert.Equal(t, want, got, "size %d", size)

		got, err = d.ExchangeState(b)
		require.NoError(t, err)
		assert.Zero(t, got, "unchanged state must diff to zero")
	}
}

func TestDiffer_NoChange(t *testing.T) {
	state := []byte{1, 2, 3, 4}
	d := New(state)

	bitsChanged, err := d.ExchangeState(state)
	require.NoError(t, err)
	assert.Zero(t, bitsChanged)
}

// TestDiffer_ExceedsByte 总位数可超过 255
func TestDiffer_ExceedsByte(t *testing.T) {
	zero := make([]byte, 40)
	ones := make([]byte, 40)
	for i := range ones {
		ones[i] = 0xFF
	}

	d := New(zero)
	bitsChanged, err := d.ExchangeState(ones)
	require.NoError(t, err)
	assert.Equal(t, 320, bitsChanged)
	assert.Equal(t, ones, d.Snapshot())
}

// TestDiffer_CopiesInput 构造参数与快照均为私有副本
func TestDiffer_CopiesInput(t *testing.T) {
	initial := []byte{0, 0}
	d := New(initial)
	initial[0] = 0xFF

	snap := d.Snapshot()
	assert.Equal(t, []byte{0, 0}, snap)

	snap[1] = 0xFF
	assert.Equal(t, []byte{0, 0}, d.Snapshot())

	current := []byte{1, 1}
	_, err := d.ExchangeState(current)
	require.NoError(t, err)
	current[0] = 0xFF
	assert.Equal(t, []byte{1, 1}, d.Snapshot())
}

// ============================================================================
//                              惰性 Differ
// ============================================================================

func TestDiffer_Inert(t *testing.T) {
	for _, initial := range [][]byte{nil, {}} {
		d := New(initial)
		assert.True(t, d.Inert())

		bitsChanged, err := d.ExchangeState([]byte{0xFF, 0xFF})
		require.NoError(t, err)
		assert.Zero(t, bitsChanged)
		assert.Nil(t, d.Snapshot())
		assert.Zero(t, d.Len())
	}
}

// ============================================================================
//                              长度不一致
// ============================================================================

func TestDiffer_MismatchFail(t *testing.T) {
	d := New([]byte{0xAA, 0xBB})
	assert.Equal(t, MismatchFail, d.Policy())

	bitsChanged, err := d.ExchangeState([]byte{0x00})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Zero(t, bitsChanged)
	assert.Equal(t, []byte{0xAA, 0xBB}, d.Snapshot())
}

func TestDiffer_MismatchResync(t *testing.T) {
	d := New([]byte{0xAA, 0xBB}, WithMismatchPolicy(MismatchResync))

	bitsChanged, err := d.ExchangeState([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ErrResynced)
	assert.NotErrorIs(t, err, ErrLengthMismatch)
	assert.Zero(t, bitsChanged)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, d.Snapshot())

	// 重建后按新实体继续比较
	bitsChanged, err = d.ExchangeState([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	assert.Zero(t, bitsChanged)

	bitsChanged, err = d.ExchangeState([]byte{0x00, 0x02, 0x03})
	require.NoError(t, err)
	assert.Equal(t, 1, bitsChanged)
}

func TestDiffer_ResyncShrink(t *testing.T) {
	d := New([]byte{1, 2, 3, 4}, WithMismatchPolicy(MismatchResync))

	_, err := d.ExchangeState([]byte{9})
	assert.ErrorIs(t, err, ErrResynced)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []byte{9}, d.Snapshot())
}

func TestParseMismatchPolicy(t *testing.T) {
	p, err := ParseMismatchPolicy("resync")
	require.NoError(t, err)
	assert.Equal(t, MismatchResync, p)

	p, err = ParseMismatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MismatchFail, p)

	_, err = ParseMismatchPolicy("ignore")
	assert.Error(t, err)

	assert.Equal(t, "resync", MismatchResync.String())
	assert.Equal(t, "fail", MismatchFail.String())
}

func BenchmarkExchangeState(b *testing.B) {
	a := make([]byte, 4096)
	c := make([]byte, 4096)
	rand.New(rand.NewSource(1)).Read(c)
	d := New(a)

	b.SetBytes(int64(len(a)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			_, _ = d.ExchangeState(c)
		} else {
			_, _ = d.ExchangeState(a)
		}
	}
}
