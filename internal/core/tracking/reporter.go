package tracking

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// ============================================================================
//                              报告器
// ============================================================================

// Reporter 周期性输出会话统计
type Reporter struct {
	session *Session
	clock   clock.Clock
	topN    int
	hook    func(statetrack.Report)

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

// ReporterOption 报告器选项
type ReporterOption func(*Reporter)

// WithReportHook 每次报告后回调
func WithReportHook(fn func(statetrack.Report)) ReporterOption {
	return func(r *Reporter) {
		r.hook = fn
	}
}

// WithTopN 报告中列出的对象数
func WithTopN(n int) ReporterOption {
	return func(r *Reporter) {
		r.topN = n
	}
}

// NewReporter 创建报告器，使用会话的时间源
func NewReporter(session *Session, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		session: session,
		clock:   session.Clock(),
		topN:    5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start 启动定期报告，已启动时忽略
func (r *Reporter) Start(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopCh != nil {
		return
	}

	// 在返回前创建 ticker，保证 mock 时钟推进不会被漏掉
	ticker := r.clock.Ticker(interval)
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})

	go func(stopCh, done chan struct{}) {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Emit()
			case <-stopCh:
				return
			}
		}
	}(r.stopCh, r.done)
}

// Stop 停止报告并等待后台任务退出
func (r *Reporter) Stop() {
	r.mu.Lock()
	stopCh, done := r.stopCh, r.done
	r.stopCh, r.done = nil, nil
	r.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

// Emit 立即生成并输出一次报告
func (r *Reporter) Emit() statetrack.Report {
	report := r.session.Snapshot()
	r.logReport(report)
	if r.hook != nil {
		r.hook(report)
	}
	return report
}

func (r *Reporter) logReport(report statetrack.Report) {
	log.Info("状态变化统计报告",
		"session", report.SessionID,
		"elapsed", time.Duration(report.Elapsed*float64(time.Second)).Truncate(time.Millisecond),
		"rate", FormatRate(report.Total.BytesPerSecond),
		"changed", FormatBytes(report.Total.TotalBytes()),
		"types", len(report.Types),
		"objects", len(report.Objects),
		"violations", report.Violations,
	)

	for i, obj := range report.Objects {
		if i >= r.topN {
			break
		}
		log.Info("top object",
			"rank", i+1,
			"object", obj.Key.Type+"/"+obj.Key.Object,
			"rate", FormatRate(obj.Stats.BytesPerSecond),
			"changed", FormatBytes(obj.Stats.TotalBytes()),
		)
	}

	for _, t := range report.Types {
		log.Debug("type",
			"type", t.Key.Type,
			"rate", FormatRate(t.Stats.BytesPerSecond),
			"changed", FormatBytes(t.Stats.TotalBytes()),
		)
	}
}
