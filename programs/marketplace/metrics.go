// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

// Counters are bumped when a handler succeeds, even if the surrounding
// transaction aborts later.
type metrics struct {
	collectionsCreated prometheus.Counter
	ordersCreated      prometheus.Counter
	slotsAllocated     prometheus.Counter
	slotsReused        prometheus.Counter
	ordersClosed       prometheus.Counter
	ordersFilled       prometheus.Counter
	rejected           prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketplace",
			Name:      name,
			Help:      help,
		})
	}
	m := &metrics{
		collectionsCreated: counter("collections_created", "number of collections registered"),
		ordersCreated:      counter("orders_created", "number of limit orders placed"),
		slotsAllocated:     counter("slots_allocated", "number of fresh slots allocated"),
		slotsReused:        counter("slots_reused", "number of empty slots reused"),
		ordersClosed:       counter("orders_closed", "number of close commands accepted"),
		ordersFilled:       counter("orders_filled", "number of fill commands accepted"),
		rejected:           counter("commands_rejected", "number of commands that returned an error"),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.collectionsCreated),
		r.Register(m.ordersCreated),
		r.Register(m.slotsAllocated),
		r.Register(m.slotsReused),
		r.Register(m.ordersClosed),
		r.Register(m.ordersFilled),
		r.Register(m.rejected),
	)
	return m, errs.Err
}
