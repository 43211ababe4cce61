// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

var _ ledger.Program = (*Program)(nil)

// Program is the NFT limit-order marketplace.
type Program struct {
	config  Config
	metrics *metrics
}

func New(config Config, registerer prometheus.Registerer) (*Program, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Program{config: config, metrics: m}, nil
}

func (p *Program) ID() codec.Address {
	return p.config.ProgramID
}

func (p *Program) Process(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, data []byte) error {
	cmd, err := ParseCommand(data)
	if err != nil {
		p.metrics.rejected.Inc()
		return err
	}
	switch c := cmd.(type) {
	case CreateCollection:
		err = p.createCollection(ctx, ic, accounts)
	case CreateLimitOrder:
		err = p.createLimitOrder(ctx, ic, accounts, c.Price())
	case CloseLimitOrder:
		p.metrics.ordersClosed.Inc()
	case FillLimitOrder:
		p.metrics.ordersFilled.Inc()
	}
	if err != nil {
		p.metrics.rejected.Inc()
		ic.Log().Debug("marketplace command rejected",
			zap.Uint8("tag", cmd.Tag()),
			zap.Error(err),
		)
	}
	return err
}
