// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsInterval = 10 * time.Second

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	compactions       prometheus.Counter
	activeCompactions prometheus.Gauge
	tombstoneCount    prometheus.Gauge
	obsoleteTableSize prometheus.Gauge
	zombieTableSize   prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	writeStall, err := metric.NewAverager(
		"",
		"account_store_write_stall",
		"time spent waiting for disk write",
		r,
	)
	if err != nil {
		return nil, err
	}
	getLatency, err := metric.NewAverager(
		"",
		"account_store_read_latency",
		"time spent reading an account",
		r,
	)
	if err != nil {
		return nil, err
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "account_store", Name: name, Help: help})
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "account_store",
			Name:      "compactions",
			Help:      "number of compactions started",
		}),
		activeCompactions: gauge("active_compactions", "number of active compactions"),
		tombstoneCount:    gauge("tombstone_count", "approximate count of deleted accounts not yet compacted"),
		obsoleteTableSize: gauge("obsolete_table_size", "bytes in tables no longer referenced"),
		zombieTableSize:   gauge("zombie_table_size", "bytes in unreferenced tables still held by iterators"),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTableSize),
		r.Register(m.zombieTableSize),
	)
	return m, errs.Err
}

func (db *Database) onCompactionBegin(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	db.metrics.compactions.Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m := db.db.Metrics()
			db.metrics.tombstoneCount.Set(float64(m.Keys.TombstoneCount))
			db.metrics.obsoleteTableSize.Set(float64(m.Table.ObsoleteSize))
			db.metrics.zombieTableSize.Set(float64(m.Table.ZombieSize))
		case <-db.closing:
			return
		}
	}
}
