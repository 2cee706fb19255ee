package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-netstate/pkg/interfaces/statetrack"
)

// Source 提供会话快照
type Source interface {
	Snapshot() statetrack.Report
}

var labels = []string{"level", "type", "object", "component"}

// Collector 状态变化指标收集器
type Collector struct {
	source            Source
	includeComponents bool

	rate       *prometheus.Desc
	bits       *prometheus.Desc
	objects    *prometheus.Desc
	violations *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建收集器
func NewCollector(source Source, namespace string, includeComponents bool) *Collector {
	return &Collector{
		source:            source,
		includeComponents: includeComponents,
		rate: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "bytes_per_second"),
			"Windowed rate of serialized state change in bytes per second",
			labels, nil,
		),
		bits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "changed_bits_total"),
			"Total number of serialized state bits changed",
			labels, nil,
		),
		objects: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "tracked_objects"),
			"Number of objects currently tracked",
			nil, nil,
		),
		violations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "contract_violations_total"),
			"Negative change records clamped to zero",
			nil, nil,
		),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.rate
	ch <- c.bits
	ch <- c.objects
	ch <- c.violations
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	report := c.source.Snapshot()

	c.emit(ch, statetrack.NodeStats{Level: statetrack.LevelTotal, Stats: report.Total})
	for _, n := range report.Types {
		c.emit(ch, n)
	}
	for _, n := range report.Objects {
		c.emit(ch, n)
	}
	if c.includeComponents {
		for _, n := range report.Components {
			c.emit(ch, n)
		}
	}

	ch <- prometheus.MustNewConstMetric(c.objects, prometheus.GaugeValue, float64(len(report.Objects)))
	ch <- prometheus.MustNewConstMetric(c.violations, prometheus.CounterValue, float64(report.Violations))
}

func (c *Collector) emit(ch chan<- prometheus.Metric, n statetrack.NodeStats) {
	values := []string{string(n.Level), n.Key.Type, n.Key.Object, n.Key.Component}

	ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue,
		float64(n.Stats.BytesPerSecond), values...)
	ch <- prometheus.MustNewConstMetric(c.bits, prometheus.CounterValue,
		float64(n.Stats.TotalBits), values...)
}
