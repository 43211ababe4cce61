// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

// Ledger is the part of [ledger.Runtime] the servers use.
type Ledger interface {
	Rent() ledger.Rent
	GetAccount(ctx context.Context, addr codec.Address) (*ledger.Account, error)
	Execute(ctx context.Context, tx *ledger.Transaction) error
	Simulate(ctx context.Context, tx *ledger.Transaction) error
}

var _ Ledger = (*ledger.Runtime)(nil)

func NewJSONRPCHandler(
	name string,
	service interface{},
) (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	return server, server.RegisterService(service, name)
}

// submitter executes transactions and reports every result to the feed.
type submitter struct {
	log    logging.Logger
	ledger Ledger
	feed   *WebSocketServer
}

func (s *submitter) submit(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	txID := tx.ID()
	err := s.ledger.Execute(ctx, tx)
	if err != nil {
		s.log.Debug("transaction failed",
			zap.Stringer("txID", txID),
			zap.Error(err),
		)
	}
	if s.feed != nil {
		s.feed.executed(txID, err)
	}
	return txID, err
}
