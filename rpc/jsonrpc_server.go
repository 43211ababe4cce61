// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
)

type JSONRPCServer struct {
	submitter
	program codec.Address
}

// NewJSONRPCServer serves queries against [l] and reports submitted
// transactions to [feed] when it is not nil.
func NewJSONRPCServer(log logging.Logger, l Ledger, program codec.Address, feed *WebSocketServer) *JSONRPCServer {
	return &JSONRPCServer{
		submitter: submitter{log: log, ledger: l, feed: feed},
		program:   program,
	}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type ProgramReply struct {
	ProgramID codec.Address `json:"programID"`
}

func (j *JSONRPCServer) Program(_ *http.Request, _ *struct{}, reply *ProgramReply) error {
	reply.ProgramID = j.program
	return nil
}

type RentReply struct {
	Rent ledger.Rent `json:"rent"`
}

func (j *JSONRPCServer) Rent(_ *http.Request, _ *struct{}, reply *RentReply) error {
	reply.Rent = j.ledger.Rent()
	return nil
}

type MinimumBalanceArgs struct {
	DataLen int `json:"dataLen"`
}

type MinimumBalanceReply struct {
	Lamports uint64 `json:"lamports"`
}

func (j *JSONRPCServer) MinimumBalance(_ *http.Request, args *MinimumBalanceArgs, reply *MinimumBalanceReply) error {
	if args.DataLen < 0 || args.DataLen > ledger.MaxPermittedDataLength {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDataLen, args.DataLen, ledger.MaxPermittedDataLength)
	}
	reply.Lamports = j.ledger.Rent().MinimumBalance(args.DataLen)
	return nil
}

type AccountArgs struct {
	Address codec.Address `json:"address"`
}

type AccountReply struct {
	Account *ledger.Account `json:"account"`
}

func (j *JSONRPCServer) Account(req *http.Request, args *AccountArgs, reply *AccountReply) error {
	a, err := j.ledger.GetAccount(req.Context(), args.Address)
	if err != nil {
		return err
	}
	reply.Account = a
	return nil
}

type CollectionArgs struct {
	Issuer codec.Address `json:"issuer"`
}

type CollectionReply struct {
	Address    codec.Address              `json:"address"`
	Collection *marketplace.CollectionData `json:"collection"`
}

func (j *JSONRPCServer) Collection(req *http.Request, args *CollectionArgs, reply *CollectionReply) error {
	addr, err := marketplace.CollectionAddress(j.program, args.Issuer)
	if err != nil {
		return err
	}
	data, err := j.programData(req, addr)
	if err != nil {
		return err
	}
	c, err := marketplace.UnmarshalCollectionData(data)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Collection = c
	return nil
}

type ContainerArgs struct {
	Issuer codec.Address `json:"issuer"`
	Index  uint32        `json:"index"`
}

type ContainerReply struct {
	Address   codec.Address             `json:"address"`
	Container *marketplace.ContainerData `json:"container"`
}

func (j *JSONRPCServer) Container(req *http.Request, args *ContainerArgs, reply *ContainerReply) error {
	addr, err := marketplace.SlotAddress(j.program, args.Issuer, args.Index)
	if err != nil {
		return err
	}
	data, err := j.programData(req, addr)
	if err != nil {
		return err
	}
	c, err := marketplace.UnmarshalContainerData(data)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Container = c
	return nil
}

// programData returns the data of [addr] if the marketplace owns it.
func (j *JSONRPCServer) programData(req *http.Request, addr codec.Address) ([]byte, error) {
	a, err := j.ledger.GetAccount(req.Context(), addr)
	if err != nil {
		return nil, err
	}
	if a.Owner != j.program || len(a.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
	}
	return a.Data, nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID ids.ID `json:"txId"`
}

func (j *JSONRPCServer) SubmitTx(req *http.Request, args *SubmitTxArgs, reply *SubmitTxReply) error {
	tx, err := ledger.UnmarshalTransaction(args.Tx)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	txID, err := j.submit(req.Context(), tx)
	if err != nil {
		return err
	}
	reply.TxID = txID
	return nil
}

type SimulateTxReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (j *JSONRPCServer) SimulateTx(req *http.Request, args *SubmitTxArgs, reply *SimulateTxReply) error {
	tx, err := ledger.UnmarshalTransaction(args.Tx)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	if err := j.ledger.Simulate(req.Context(), tx); err != nil {
		reply.Error = err.Error()
		return nil
	}
	reply.Success = true
	return nil
}
