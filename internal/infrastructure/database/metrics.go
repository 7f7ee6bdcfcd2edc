package database

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector export PoolStats cho Prometheus mỗi lần scrape
type PoolCollector struct {
	db *PostgresDB

	acquired    *prometheus.Desc
	idle        *prometheus.Desc
	total       *prometheus.Desc
	max         *prometheus.Desc
	acquires    *prometheus.Desc
	emptyWaits  *prometheus.Desc
	canceled    *prometheus.Desc
	acquireTime *prometheus.Desc
}

var _ prometheus.Collector = (*PoolCollector)(nil)

func NewPoolCollector(db *PostgresDB) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("blog", "db_pool", name), help, nil, nil)
	}
	return &PoolCollector{
		db:          db,
		acquired:    desc("acquired_conns", "Connections currently in use."),
		idle:        desc("idle_conns", "Idle connections."),
		total:       desc("total_conns", "Total connections."),
		max:         desc("max_conns", "Configured maximum connections."),
		acquires:    desc("acquire_total", "Cumulative successful acquires."),
		emptyWaits:  desc("empty_acquire_total", "Acquires that had to wait for a connection."),
		canceled:    desc("canceled_acquire_total", "Acquires canceled by context."),
		acquireTime: desc("acquire_seconds_total", "Cumulative time spent acquiring connections."),
	}
}

func (p *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{p.acquired, p.idle, p.total, p.max, p.acquires, p.emptyWaits, p.canceled, p.acquireTime} {
		ch <- d
	}
}

func (p *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := p.db.Stats()
	if err != nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(p.acquired, prometheus.GaugeValue, float64(stats.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(p.idle, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(p.total, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.max, prometheus.GaugeValue, float64(stats.MaxConns))
	ch <- prometheus.MustNewConstMetric(p.acquires, prometheus.CounterValue, float64(stats.AcquireCount))
	ch <- prometheus.MustNewConstMetric(p.emptyWaits, prometheus.CounterValue, float64(stats.EmptyAcquireCount))
	ch <- prometheus.MustNewConstMetric(p.canceled, prometheus.CounterValue, float64(stats.CanceledAcquireCount))
	ch <- prometheus.MustNewConstMetric(p.acquireTime, prometheus.CounterValue, stats.AcquireDuration.Seconds())
}
