package changerate

// Capacity 滑动窗口容量
const Capacity = 32

// Sample 一个折叠区间的位变化量及记录时间（秒）
type Sample struct {
	Time float64
	Bits int
}

// Window 固定容量的环形样本队列（FIFO）
type Window struct {
	buf  [Capacity]Sample
	head int
	n    int
}

// Len 当前样本数
func (w *Window) Len() int {
	return w.n
}

// Full 窗口是否已满
func (w *Window) Full() bool {
	return w.n == Capacity
}

// Push 追加样本，窗口已满时返回 false 且不写入
func (w *Window) Push(s Sample) bool {
	if w.n == Capacity {
		return false
	}
	w.buf[(w.head+w.n)%Capacity] = s
	w.n++
	return true
}

// PopFront 移除并返回最旧的样本
func (w *Window) PopFront() (Sample, bool) {
	if w.n == 0 {
		return Sample{}, false
	}
	s := w.buf[w.head]
	w.buf[w.head] = Sample{}
	w.head = (w.head + 1) % Capacity
	w.n--
	return s, true
}

// Front 返回最旧的样本
func (w *Window) Front() (Sample, bool) {
	if w.n == 0 {
		return Sample{}, false
	}
	return w.buf[w.head], true
}

// Sum 窗口内所有样本的位数之和
func (w *Window) Sum() int {
	total := 0
	for i := 0; i < w.n; i++ {
		total += w.buf[(w.head+i)%Capacity].Bits
	}
	return total
}

// Samples 按从旧到新的顺序返回样本副本
func (w *Window) Samples() []Sample {
	out := make([]Sample, w.n)
	for i := range out {
		out[i] = w.buf[(w.head+i)%Capacity]
	}
	return out
}

// Reset 清空窗口
func (w *Window) Reset() {
	*w = Window{}
}
