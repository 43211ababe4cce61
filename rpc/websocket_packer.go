// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
)

// Every websocket message starts with a mode byte.
//
// client -> server
//
//	TxMode     | tx bytes      submit a transaction
//	ResultMode                 subscribe to every result
//
// server -> client
//
//	TxMode     | result        result of a transaction submitted on this connection
//	ResultMode | result        result of any transaction
const (
	TxMode     byte = 0
	ResultMode byte = 1
)

const maxErrorLen = 1024

// Result is the outcome of one executed transaction.
type Result struct {
	TxID    ids.ID `json:"txId"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func PackResultMessage(txID ids.ID, err error) []byte {
	var msg string
	if err != nil {
		msg = err.Error()
		if len(msg) > maxErrorLen {
			msg = msg[:maxErrorLen]
		}
	}
	size := ids.IDLen + consts.BoolLen + codec.StringLen(msg)
	p := codec.NewWriter(size, consts.NetworkLimit)
	p.PackFixedBytes(txID[:])
	p.PackBool(err == nil)
	p.PackString(msg)
	return p.Bytes()
}

func UnpackResultMessage(msg []byte) (*Result, error) {
	p := codec.NewReader(msg, consts.NetworkLimit)
	r := &Result{}
	txID := r.TxID[:]
	p.UnpackFixedBytes(ids.IDLen, &txID)
	r.Success = p.UnpackBool()
	r.Error = p.UnpackString(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, ErrInvalidMessage
	}
	return r, nil
}
