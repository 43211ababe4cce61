// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pubsub"
)

// WebSocketServer accepts transactions over websocket connections and streams
// the result of every executed transaction to subscribers.
type WebSocketServer struct {
	submitter
	s *pubsub.Server
}

// resultTopic carries the outcome of every executed transaction.
const resultTopic = pubsub.Topic(ResultMode)

func NewWebSocketServer(log logging.Logger, l Ledger, cfg *pubsub.ServerConfig) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{}
	w.submitter = submitter{log: log, ledger: l, feed: w}
	w.s = pubsub.New(log, cfg, w.MessageCallback())
	return w, w.s
}

func (w *WebSocketServer) executed(txID ids.ID, err error) {
	if w.s.Subscribers(resultTopic) == 0 {
		return
	}
	w.s.Publish(resultTopic, append([]byte{ResultMode}, PackResultMessage(txID, err)...))
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	return func(msgBytes []byte, c *pubsub.Connection) {
		if len(msgBytes) == 0 {
			w.log.Error("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
			)
			return
		}

		switch msgBytes[0] {
		case ResultMode:
			w.s.Subscribe(c, resultTopic)
			w.log.Debug("added result listener")
		case TxMode:
			tx, err := ledger.UnmarshalTransaction(msgBytes[1:])
			if err != nil {
				w.log.Error("failed to unmarshal tx",
					zap.Int("len", len(msgBytes)-1),
					zap.Error(err),
				)
				return
			}
			txID, err := w.submit(context.Background(), tx)
			if !c.Send(append([]byte{TxMode}, PackResultMessage(txID, err)...)) {
				w.log.Debug("dropping tx result", zap.Stringer("txID", txID))
			}
		default:
			w.log.Error("unexpected message type",
				zap.Int("len", len(msgBytes)),
				zap.Uint8("mode", msgBytes[0]),
			)
		}
	}
}
