package tracking

import (
	"github.com/dep2p/go-netstate/internal/core/changerate"
	"github.com/dep2p/go-netstate/internal/core/statediff"
	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// node 层级中的一个汇总节点
type node struct {
	tracker *changerate.Tracker
	total   int64
}

func newNode() node {
	return node{tracker: changerate.NewTracker()}
}

func (n *node) fold(now float64) int {
	bits := n.tracker.ProcessAccumulatedChanges(now)
	n.total += int64(bits)
	return bits
}

func (n *node) reset() {
	n.tracker.Clear()
	n.total = 0
}

func (n *node) stats() statetrack.Stats {
	return statetrack.Stats{
		TotalBits:      n.total,
		BytesPerSecond: n.tracker.BytesPerSecond(),
		Samples:        n.tracker.Len(),
	}
}

type componentNode struct {
	node
	differ *statediff.Differ
}

type objectNode struct {
	node
	key        statetrack.ObjectKey
	components map[string]*componentNode
	lastSeen   int64 // unix nano
}

type typeNode struct {
	node
	objects int
}
