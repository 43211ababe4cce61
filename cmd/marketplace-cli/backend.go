// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	avatrace "github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/config"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/genesis"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pebble"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
	"github.com/kamda-cyrial/marketplace/programs/token"
	"github.com/kamda-cyrial/marketplace/rpc"
	"github.com/kamda-cyrial/marketplace/trace"
)

// backend is where commands read accounts and submit transactions.
type backend interface {
	Rent(ctx context.Context) (ledger.Rent, error)
	Program(ctx context.Context) (codec.Address, error)
	Account(ctx context.Context, addr codec.Address) (*ledger.Account, error)
	Submit(ctx context.Context, tx *ledger.Transaction) (ids.ID, error)
	Close() error
}

var (
	_ backend = (*localBackend)(nil)
	_ backend = (*remoteBackend)(nil)
)

// openBackend uses the configured endpoint if there is one and the local
// database otherwise.
func openBackend(cmd *cobra.Command) (backend, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", false)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		return &remoteBackend{cli: rpc.NewJSONRPCClient(endpoint)}, nil
	}
	cfg, err := loadNodeConfig(cmd)
	if err != nil {
		return nil, err
	}
	return openLocal(cfg, newLogger(cfg), prometheus.NewRegistry())
}

type localBackend struct {
	log     logging.Logger
	tracer  avatrace.Tracer
	db      *pebble.Database
	runtime *ledger.Runtime
	program codec.Address
}

// openLocal opens the database of [cfg] and a runtime with every program
// the marketplace depends on.
func openLocal(cfg *config.Config, log logging.Logger, registerer prometheus.Registerer) (*localBackend, error) {
	db, err := pebble.New(cfg.DatabaseDir, cfg.Database, registerer)
	if err != nil {
		return nil, err
	}
	rent, err := genesis.ReadRent(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	program, err := marketplace.New(cfg.Marketplace, registerer)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	tracer, err := trace.New(cfg.Trace)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	r, err := ledger.New(log, tracer, db, rent, registerer,
		&token.Program{},
		&token.AssociatedProgram{},
		&metadata.Program{},
		program,
	)
	if err != nil {
		_ = tracer.Close()
		_ = db.Close()
		return nil, err
	}
	log.Debug("opened local ledger",
		zap.String("dir", cfg.DatabaseDir),
		zap.Stringer("program", program.ID()),
		zap.String("creatorPolicy", string(cfg.Marketplace.CreatorPolicy)),
	)
	return &localBackend{log: log, tracer: tracer, db: db, runtime: r, program: program.ID()}, nil
}

func (l *localBackend) Rent(context.Context) (ledger.Rent, error) {
	return l.runtime.Rent(), nil
}

func (l *localBackend) Program(context.Context) (codec.Address, error) {
	return l.program, nil
}

func (l *localBackend) Account(ctx context.Context, addr codec.Address) (*ledger.Account, error) {
	return l.runtime.GetAccount(ctx, addr)
}

func (l *localBackend) Submit(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	return tx.ID(), l.runtime.Execute(ctx, tx)
}

func (l *localBackend) Close() error {
	l.log.Stop()
	errs := wrappers.Errs{}
	errs.Add(l.tracer.Close(), l.db.Close())
	return errs.Err
}

type remoteBackend struct {
	cli *rpc.JSONRPCClient
}

func (r *remoteBackend) Rent(ctx context.Context) (ledger.Rent, error) {
	return r.cli.Rent(ctx)
}

func (r *remoteBackend) Program(ctx context.Context) (codec.Address, error) {
	return r.cli.Program(ctx)
}

func (r *remoteBackend) Account(ctx context.Context, addr codec.Address) (*ledger.Account, error) {
	return r.cli.Account(ctx, addr)
}

func (r *remoteBackend) Submit(ctx context.Context, tx *ledger.Transaction) (ids.ID, error) {
	return r.cli.SubmitTx(ctx, tx)
}

func (*remoteBackend) Close() error {
	return nil
}

// withBackend runs [f] against the backend of [cmd] and closes it after.
func withBackend(cmd *cobra.Command, f func(ctx context.Context, b backend) error) error {
	b, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return f(ctx, b)
}

type txCmdResponse struct {
	TxID ids.ID `json:"txId"`
}

func (r txCmdResponse) String() string {
	return "{{green}}transaction executed:{{/}} " + r.TxID.String()
}

func newTx(ixs []*ledger.Instruction, signers ...ed25519.PrivateKey) *ledger.Transaction {
	return ledger.NewTransaction(ixs...).Sign(signers...)
}

// submit signs [ixs] with [signers] and prints the transaction ID.
func submit(ctx context.Context, cmd *cobra.Command, b backend, signers []ed25519.PrivateKey, ixs ...*ledger.Instruction) error {
	txID, err := b.Submit(ctx, newTx(ixs, signers...))
	if err != nil {
		return err
	}
	return printValue(cmd, txCmdResponse{TxID: txID})
}
