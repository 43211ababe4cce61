// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/state"
	"github.com/kamda-cyrial/marketplace/tstate"
)

// Database is the persistence the runtime needs: point reads and atomic
// batches.
type Database interface {
	database.KeyValueReader
	database.Batcher
}

// Runtime executes transactions against [Database]. Transactions are
// serialized: each one runs to completion before the next starts.
type Runtime struct {
	l sync.Mutex

	log      logging.Logger
	tracer   trace.Tracer
	db       Database
	rent     Rent
	metrics  *metrics
	programs map[codec.Address]Program
}

// New returns a runtime with the system program and [programs] registered.
func New(
	log logging.Logger,
	tracer trace.Tracer,
	db Database,
	rent Rent,
	registerer prometheus.Registerer,
	programs ...Program,
) (*Runtime, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	r := &Runtime{
		log:      log,
		tracer:   tracer,
		db:       db,
		rent:     rent,
		metrics:  m,
		programs: make(map[codec.Address]Program, len(programs)+1),
	}
	r.programs[SystemProgramID] = &SystemProgram{}
	for _, p := range programs {
		if _, ok := r.programs[p.ID()]; ok {
			return nil, fmt.Errorf("%w: %s registered twice", ErrUnknownProgram, p.ID())
		}
		r.programs[p.ID()] = p
	}
	return r, nil
}

func (r *Runtime) Rent() Rent {
	return r.rent
}

// Execute runs [tx] and persists its changes if, and only if, every
// instruction succeeds and every written account stays rent exempt.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) error {
	return r.execute(ctx, tx, true)
}

// Simulate runs [tx] without persisting anything.
func (r *Runtime) Simulate(ctx context.Context, tx *Transaction) error {
	return r.execute(ctx, tx, false)
}

func (r *Runtime) execute(ctx context.Context, tx *Transaction, commit bool) error {
	ctx, span := r.tracer.Start(
		ctx, "Runtime.Execute",
		oteltrace.WithAttributes(
			attribute.Int("instructions", len(tx.Instructions)),
			attribute.Int("signatures", len(tx.Signatures)),
			attribute.Bool("commit", commit),
		),
	)
	defer span.End()

	r.l.Lock()
	defer r.l.Unlock()

	signers, err := tx.Verify()
	if err != nil {
		r.metrics.failed.Inc()
		return err
	}
	scope := tx.StateKeys()
	storage := make(map[string][]byte, len(scope))
	for k := range scope {
		v, err := r.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		storage[k] = v
	}

	ts := tstate.New(len(scope))
	view := ts.NewView(scope, storage)
	for i, ix := range tx.Instructions {
		for _, meta := range ix.Accounts {
			if meta.IsSigner && !signers.Contains(meta.Address) {
				r.metrics.failed.Inc()
				return fmt.Errorf("instruction %d: %w: %s", i, ErrMissingRequiredSignature, meta.Address)
			}
		}
		r.metrics.instructions.Inc()
		if err := r.process(ctx, view, ix, 0); err != nil {
			view.Rollback(ctx, 0)
			r.metrics.failed.Inc()
			r.log.Debug("transaction failed",
				zap.Int("instruction", i),
				zap.Stringer("program", ix.ProgramID),
				zap.Error(err),
			)
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	if err := r.settle(ctx, view, scope); err != nil {
		view.Rollback(ctx, 0)
		r.metrics.failed.Inc()
		return err
	}
	if !commit {
		return nil
	}

	view.Commit()
	batch := r.db.NewBatch()
	if err := ts.WriteChanges(batch); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	r.metrics.executed.Inc()
	return nil
}

func (r *Runtime) process(ctx context.Context, view *tstate.TStateView, ix *Instruction, depth int) error {
	ctx, span := r.tracer.Start(
		ctx, "Runtime.Process",
		oteltrace.WithAttributes(
			attribute.Stringer("program", ix.ProgramID),
			attribute.Int("accounts", len(ix.Accounts)),
			attribute.Int("depth", depth),
		),
	)
	defer span.End()

	p, ok := r.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID)
	}
	infos := make([]*AccountInfo, len(ix.Accounts))
	signers := set.NewSet[codec.Address](len(ix.Accounts))
	writable := set.NewSet[codec.Address](len(ix.Accounts))
	for i, meta := range ix.Accounts {
		infos[i] = &AccountInfo{
			Key:        meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		}
		if meta.IsSigner {
			signers.Add(meta.Address)
		}
		if meta.IsWritable {
			writable.Add(meta.Address)
		}
	}
	ic := &InvokeContext{
		r:        r,
		view:     view,
		program:  ix.ProgramID,
		signers:  signers,
		writable: writable,
		depth:    depth,
	}
	return p.Process(ctx, ic, infos, ix.Data)
}

// settle purges drained accounts and enforces the rent minimum on every
// account the transaction could have written.
func (r *Runtime) settle(ctx context.Context, view *tstate.TStateView, scope state.Keys) error {
	for k, perm := range scope {
		if !perm.Has(state.Write) {
			continue
		}
		a, err := innerGetAccount(view.GetValue(ctx, []byte(k)))
		if err != nil {
			return err
		}
		if a.Lamports == 0 {
			if err := view.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if !r.rent.IsExempt(a.Lamports, len(a.Data)) {
			return fmt.Errorf("%w: account %x holds %d lamports for %d bytes",
				ErrInsufficientFundsForRent, []byte(k)[1:], a.Lamports, len(a.Data))
		}
	}
	return nil
}

// GetAccount returns the persisted state of [addr].
func (r *Runtime) GetAccount(_ context.Context, addr codec.Address) (*Account, error) {
	r.l.Lock()
	defer r.l.Unlock()

	return ReadAccount(r.db, addr)
}
