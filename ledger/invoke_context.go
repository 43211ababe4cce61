// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/pda"
	"github.com/kamda-cyrial/marketplace/tstate"
)

// MaxInvokeDepth bounds nested cross-program invocations.
const MaxInvokeDepth = 4

// InvokeContext is handed to a program for the duration of one instruction.
// It carries the privileges (signers and writable accounts) the caller granted.
type InvokeContext struct {
	r    *Runtime
	view *tstate.TStateView

	program  codec.Address
	signers  set.Set[codec.Address]
	writable set.Set[codec.Address]
	depth    int
}

func (ic *InvokeContext) ProgramID() codec.Address {
	return ic.program
}

func (ic *InvokeContext) Log() logging.Logger {
	return ic.r.log
}

func (ic *InvokeContext) Rent() Rent {
	return ic.r.rent
}

// GetAccount loads [addr]. Missing accounts are returned empty.
func (ic *InvokeContext) GetAccount(ctx context.Context, addr codec.Address) (*Account, error) {
	return innerGetAccount(ic.view.GetValue(ctx, AccountKey(addr)))
}

func (ic *InvokeContext) checkWritable(info *AccountInfo) error {
	if !info.IsWritable || !ic.writable.Contains(info.Key) {
		return fmt.Errorf("%w: %s", ErrReadonlyModified, info.Key)
	}
	return nil
}

func (ic *InvokeContext) writeAccount(ctx context.Context, info *AccountInfo, a *Account) error {
	if err := ic.checkWritable(info); err != nil {
		return err
	}
	return ic.view.Insert(ctx, AccountKey(info.Key), a.Marshal())
}

// SetData serializes [data] into the front of the account data of [info], the
// way a program writes a record into a fixed size cell. The calling program
// must own the account and the account must be writable.
func (ic *InvokeContext) SetData(ctx context.Context, info *AccountInfo, data []byte) error {
	if err := ic.checkWritable(info); err != nil {
		return err
	}
	a, err := ic.GetAccount(ctx, info.Key)
	if err != nil {
		return err
	}
	if a.Owner != ic.program {
		return fmt.Errorf("%w: %s is owned by %s", ErrIllegalOwner, info.Key, a.Owner)
	}
	if len(data) > len(a.Data) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrAccountDataTooSmall, len(data), len(a.Data))
	}
	// a.Data may alias the value held by the view.
	cell := make([]byte, len(a.Data))
	copy(cell, a.Data)
	copy(cell, data)
	a.Data = cell
	return ic.writeAccount(ctx, info, a)
}

// Invoke calls another program with a subset of the privileges of the
// current instruction.
func (ic *InvokeContext) Invoke(ctx context.Context, ix *Instruction) error {
	return ic.InvokeSigned(ctx, ix)
}

// InvokeSigned calls another program and additionally signs for every derived
// address in [authorities]. Each authority must have been derived for the
// calling program and is consumed by the call.
func (ic *InvokeContext) InvokeSigned(ctx context.Context, ix *Instruction, authorities ...*pda.Authority) error {
	if ic.depth+1 >= MaxInvokeDepth {
		return ErrCallDepth
	}
	if _, ok := ic.view.Scope()[string(AccountKey(ix.ProgramID))]; !ok {
		return fmt.Errorf("%w: %s not declared", ErrUnknownProgram, ix.ProgramID)
	}

	derived := set.NewSet[codec.Address](len(authorities))
	for _, a := range authorities {
		addr, err := a.Redeem(ic.program)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSeeds, err)
		}
		derived.Add(addr)
	}
	for _, meta := range ix.Accounts {
		if meta.IsSigner && !ic.signers.Contains(meta.Address) && !derived.Contains(meta.Address) {
			return fmt.Errorf("%w: signer %s", ErrPrivilegeEscalation, meta.Address)
		}
		if meta.IsWritable && !ic.writable.Contains(meta.Address) {
			return fmt.Errorf("%w: writable %s", ErrPrivilegeEscalation, meta.Address)
		}
	}
	ic.r.metrics.invocations.Inc()
	ic.r.log.Debug("invoking program",
		zap.Stringer("caller", ic.program),
		zap.Stringer("program", ix.ProgramID),
		zap.Int("depth", ic.depth+1),
	)
	return ic.r.process(ctx, ic.view, ix, ic.depth+1)
}
