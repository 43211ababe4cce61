// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	executed     prometheus.Counter
	failed       prometheus.Counter
	instructions prometheus.Counter
	invocations  prometheus.Counter
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_executed",
			Help:      "number of transactions committed",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transactions_failed",
			Help:      "number of transactions aborted",
		}),
		instructions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "instructions",
			Help:      "number of top level instructions processed",
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "cross_program_invocations",
			Help:      "number of cross program invocations",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.executed),
		r.Register(m.failed),
		r.Register(m.instructions),
		r.Register(m.invocations),
	)
	return m, errs.Err
}
