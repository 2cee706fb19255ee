package tracking

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Runner 按固定间隔自动折叠并清理空闲对象
//
// 宿主自行控制帧节奏时不需要 Runner，直接调用 Session.Fold 即可。
type Runner struct {
	session *Session
	clock   clock.Clock

	foldInterval time.Duration
	trimInterval time.Duration
	idleTimeout  time.Duration

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewRunner 创建 Runner，间隔为 0 的任务不会启动
func NewRunner(session *Session, cfg Config) *Runner {
	return &Runner{
		session:      session,
		clock:        session.Clock(),
		foldInterval: cfg.FoldInterval,
		trimInterval: cfg.TrimInterval,
		idleTimeout:  cfg.IdleTimeout,
	}
}

// Start 启动后台任务
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopCh != nil {
		return
	}
	r.stopCh = make(chan struct{})

	if r.foldInterval > 0 {
		r.loop(r.clock.Ticker(r.foldInterval), func() {
			r.session.Fold()
		})
	}
	if r.trimInterval > 0 && r.idleTimeout > 0 {
		r.loop(r.clock.Ticker(r.trimInterval), func() {
			r.session.TrimIdle(r.idleTimeout)
		})
	}
}

func (r *Runner) loop(ticker *clock.Ticker, fn func()) {
	stopCh := r.stopCh
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fn()
			case <-stopCh:
				return
			}
		}
	}()
}

// Stop 停止后台任务并等待退出
func (r *Runner) Stop() {
	r.mu.Lock()
	stopCh := r.stopCh
	r.stopCh = nil
	r.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	r.wg.Wait()
}
