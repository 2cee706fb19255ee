package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/dep2p/go-netstate"
)

// simTypes 模拟对象的类型，按对象序号轮流分配
var simTypes = []string{"Player", "Projectile", "Pickup"}

// simConfig 模拟参数
type simConfig struct {
	Objects    int
	Components int
	StateSize  int
	Mutation   float64
	Seed       int64
}

func (c simConfig) validate() error {
	switch {
	case c.Objects <= 0:
		return errors.New("objects must be positive")
	case c.Components <= 0:
		return errors.New("components must be positive")
	case c.StateSize <= 0:
		return errors.New("state-size must be positive")
	case c.Mutation < 0 || c.Mutation > 1:
		return fmt.Errorf("mutation must be within [0, 1], got %v", c.Mutation)
	}
	return nil
}

// simEntity 一个模拟组件及其当前状态
type simEntity struct {
	key   netstate.Key
	state []byte
}

// simulator 随机改写组件状态并交给监视器
type simulator struct {
	cfg      simConfig
	rng      *rand.Rand
	entities []simEntity
}

func newSimulator(cfg simConfig) (*simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &simulator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
	for o := 0; o < cfg.Objects; o++ {
		for c := 0; c < cfg.Components; c++ {
			state := make([]byte, cfg.StateSize)
			s.rng.Read(state)
			s.entities = append(s.entities, simEntity{
				key: netstate.Key{
					Type:      simTypes[o%len(simTypes)],
					Object:    strconv.Itoa(o),
					Component: "c" + strconv.Itoa(c),
				},
				state: state,
			})
		}
	}
	return s, nil
}

// mutate 按概率改写每个字节，返回被改写的字节数
func (s *simulator) mutate() int {
	changed := 0
	for i := range s.entities {
		state := s.entities[i].state
		for j := range state {
			if s.rng.Float64() < s.cfg.Mutation {
				state[j] = byte(s.rng.Intn(256))
				changed++
			}
		}
	}
	return changed
}

// Step 改写状态并观测所有组件，返回本 tick 的变化位数
func (s *simulator) Step(m *netstate.Monitor) (int, error) {
	s.mutate()

	total := 0
	for _, e := range s.entities {
		bits, err := m.Observe(e.key, e.state)
		if errors.Is(err, netstate.ErrResynced) {
			log.Warn("组件状态长度变化，已重建基线", "key", e.key.String(), "error", err)
			continue
		}
		if err != nil {
			return total, err
		}
		total += bits
	}
	return total, nil
}

// Run 按 tick 驱动模拟，直到 ctx 结束
func (s *simulator) Run(ctx context.Context, m *netstate.Monitor, tick time.Duration, fold bool) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// 建立基线
	if _, err := s.Step(m); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Step(m); err != nil {
				return err
			}
			if fold {
				m.Fold()
			}
		}
	}
}
