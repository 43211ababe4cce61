// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester

	program codec.Address
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// Program returns the marketplace program ID the server is configured with.
func (cli *JSONRPCClient) Program(ctx context.Context) (codec.Address, error) {
	if cli.program != codec.EmptyAddress {
		return cli.program, nil
	}
	resp := new(ProgramReply)
	err := cli.requester.SendRequest(ctx,
		Name+".program",
		nil,
		resp,
	)
	if err != nil {
		return codec.EmptyAddress, err
	}
	cli.program = resp.ProgramID
	return resp.ProgramID, nil
}

func (cli *JSONRPCClient) Rent(ctx context.Context) (ledger.Rent, error) {
	resp := new(RentReply)
	err := cli.requester.SendRequest(ctx,
		Name+".rent",
		nil,
		resp,
	)
	return resp.Rent, err
}

func (cli *JSONRPCClient) MinimumBalance(ctx context.Context, dataLen int) (uint64, error) {
	resp := new(MinimumBalanceReply)
	err := cli.requester.SendRequest(ctx,
		Name+".minimumBalance",
		&MinimumBalanceArgs{DataLen: dataLen},
		resp,
	)
	return resp.Lamports, err
}

func (cli *JSONRPCClient) Account(ctx context.Context, addr codec.Address) (*ledger.Account, error) {
	resp := new(AccountReply)
	err := cli.requester.SendRequest(ctx,
		Name+".account",
		&AccountArgs{Address: addr},
		resp,
	)
	return resp.Account, err
}

func (cli *JSONRPCClient) Collection(ctx context.Context, issuer codec.Address) (codec.Address, *marketplace.CollectionData, error) {
	resp := new(CollectionReply)
	err := cli.requester.SendRequest(ctx,
		Name+".collection",
		&CollectionArgs{Issuer: issuer},
		resp,
	)
	return resp.Address, resp.Collection, err
}

func (cli *JSONRPCClient) Container(ctx context.Context, issuer codec.Address, index uint32) (codec.Address, *marketplace.ContainerData, error) {
	resp := new(ContainerReply)
	err := cli.requester.SendRequest(ctx,
		Name+".container",
		&ContainerArgs{Issuer: issuer, Index: index},
		resp,
	)
	return resp.Address, resp.Container, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(ctx,
		Name+".submitTx",
		&SubmitTxArgs{Tx: tx.Bytes()},
		resp,
	)
	return resp.TxID, err
}

// SimulateTx returns the execution error of [tx] as a string, or the empty
// string if it would succeed.
func (cli *JSONRPCClient) SimulateTx(ctx context.Context, tx *ledger.Transaction) (string, error) {
	resp := new(SimulateTxReply)
	err := cli.requester.SendRequest(ctx,
		Name+".simulateTx",
		&SubmitTxArgs{Tx: tx.Bytes()},
		resp,
	)
	return resp.Error, err
}
